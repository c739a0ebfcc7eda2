package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	FoodAvailable   = "Available"
	FoodUnavailable = "Unavailable"
)

type FoodItem struct {
	ID           uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	RestaurantID uuid.UUID   `gorm:"type:uuid;not null;index" json:"restaurant_id"`
	Restaurant   *Restaurant `gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE" json:"-"`
	// Snapshot of the restaurant name, re-synced when the restaurant is renamed.
	RestaurantName string         `gorm:"not null" json:"restaurant_name"`
	Name           string         `gorm:"not null" json:"name"`
	Description    string         `json:"description"`
	Price          int            `gorm:"not null" json:"price"`
	Category       string         `json:"category"`
	Availability   string         `gorm:"not null;default:'Available'" json:"availability"`
	ImagePath      string         `json:"image"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (item *FoodItem) BeforeCreate(tx *gorm.DB) (err error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	return
}
