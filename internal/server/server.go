package server

import (
	"fmt"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/arvellino/dinespot/config"
	"github.com/arvellino/dinespot/internal/handlers"
	"github.com/arvellino/dinespot/internal/middleware"
	"github.com/arvellino/dinespot/internal/models"
)

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	if cfg.CORSOrigin != "" {
		corsConfig.AllowOrigins = []string{cfg.CORSOrigin}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	setupRoutes(r, db)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	logrus.WithField("port", port).Info("starting server")
	return r.Run(":" + port)
}

func setupRoutes(r *gin.Engine, db *gorm.DB) {
	r.Use(middleware.DatabaseMiddleware(db))

	staff := []string{models.RoleRestaurantManager, models.RoleAdmin}

	public := r.Group("/v1")
	{
		public.POST("/register", handlers.Register)
		public.POST("/login", handlers.Login)
		public.POST("/forgot-password", handlers.ForgotPassword)
		public.POST("/reset-password", handlers.ResetPassword)

		restaurantPublic := public.Group("/restaurants")
		{
			restaurantPublic.GET("", handlers.ListRestaurants)
			restaurantPublic.GET("/:id", handlers.GetRestaurant)
			restaurantPublic.GET("/:id/foods", handlers.GetRestaurantFoods)
		}

		foodPublic := public.Group("/food-items")
		{
			foodPublic.GET("", handlers.ListFoodItems)
			foodPublic.GET("/:id", handlers.GetFoodItem)
		}

		public.GET("/reservations/available-tables", handlers.GetAvailableTables)
	}

	protected := r.Group("/v1")
	protected.Use(middleware.JWTAuth())
	{
		protected.GET("/profile", handlers.GetProfile)
		protected.GET("/users/:id", handlers.GetUser)
		protected.PUT("/users/:id", handlers.UpdateUser)
		protected.DELETE("/users/:id", handlers.DeleteUser)

		reservationProtected := protected.Group("/reservations")
		{
			reservationProtected.POST("", handlers.CreateReservation)
			reservationProtected.GET("/:id", handlers.GetReservation)
			reservationProtected.PUT("/:id", handlers.UpdateReservation)
			reservationProtected.DELETE("/:id", handlers.DeleteReservation)
			reservationProtected.GET("/:id/qr", handlers.GenerateReservationQR)
		}

		orderProtected := protected.Group("/orders")
		{
			orderProtected.POST("", handlers.CreateOrder)
			orderProtected.GET("/:id", handlers.GetOrder)
			orderProtected.GET("/my-orders/:email", handlers.MyOrders)
		}

		protected.POST("/payments", handlers.CreatePayment)
		protected.GET("/payments/:id", handlers.GetPayment)
	}

	managed := r.Group("/v1")
	managed.Use(middleware.JWTAuth(staff...))
	{
		restaurantManaged := managed.Group("/restaurants")
		{
			restaurantManaged.POST("", handlers.CreateRestaurant)
			restaurantManaged.PUT("/:id", handlers.UpdateRestaurant)
			restaurantManaged.DELETE("/:id", handlers.DeleteRestaurant)
			restaurantManaged.PATCH("/:id/toggle-status", handlers.ToggleRestaurantStatus)
		}

		foodManaged := managed.Group("/food-items")
		{
			foodManaged.POST("", handlers.CreateFoodItem)
			foodManaged.PUT("/:id", handlers.UpdateFoodItem)
			foodManaged.DELETE("/:id", handlers.DeleteFoodItem)
		}

		managed.GET("/reservations", handlers.ListReservations)
		managed.POST("/reservations/validate-qr", handlers.ValidateReservationQR)

		managed.GET("/orders", handlers.ListOrders)
		managed.PUT("/orders/:id", handlers.UpdateOrder)
		managed.DELETE("/orders/:id", handlers.DeleteOrder)

		managed.GET("/payments", handlers.ListPayments)
		managed.PUT("/payments/:id", handlers.UpdatePaymentStatus)
		managed.GET("/payments/report", handlers.PaymentReport)
		managed.GET("/payments/report-range", handlers.PaymentReportRange)
	}

	admin := r.Group("/v1")
	admin.Use(middleware.JWTAuth(models.RoleAdmin))
	{
		admin.GET("/users", handlers.ListUsers)
		admin.DELETE("/payments/:id", handlers.DeletePayment)
	}
}
