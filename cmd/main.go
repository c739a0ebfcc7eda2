package main

import (
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/arvellino/dinespot/internal/server"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		logrus.Warn("no .env file found, relying on environment")
	}

	if err := server.Start(); err != nil {
		logrus.WithError(err).Fatal("server failed to start")
	}
}
