package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Restaurant struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name         string         `gorm:"not null" json:"name"`
	Description  string         `gorm:"not null" json:"description"`
	Location     string         `gorm:"not null" json:"location"`
	Phone        string         `json:"phone"`
	ImagePath    string         `json:"image"`
	Image360Path string         `json:"image_360,omitempty"`
	IsEnabled    bool           `gorm:"not null;default:true" json:"is_enabled"`
	ManagerID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"manager_id"`
	Manager      *User          `gorm:"foreignKey:ManagerID" json:"-"`
	Tables       []TableType    `gorm:"constraint:OnDelete:CASCADE" json:"tables"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (restaurant *Restaurant) BeforeCreate(tx *gorm.DB) (err error) {
	if restaurant.ID == uuid.Nil {
		restaurant.ID = uuid.New()
	}
	return
}

// TableType is one row of a restaurant's table configuration. Position is
// the zero-based index the three-digit table identifiers are derived from,
// so it must stay stable across updates.
type TableType struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"-"`
	RestaurantID uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Position     int       `gorm:"not null" json:"-"`
	SeatCount    int       `gorm:"not null" json:"seat_count"`
	Quantity     int       `gorm:"not null" json:"quantity"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

func (tableType *TableType) BeforeCreate(tx *gorm.DB) (err error) {
	if tableType.ID == uuid.Nil {
		tableType.ID = uuid.New()
	}
	return
}
