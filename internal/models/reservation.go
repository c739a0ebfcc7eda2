package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Reservation struct {
	ID            uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	ReservationID string      `gorm:"not null;index" json:"reservation_id"`
	RestaurantID  uuid.UUID   `gorm:"type:uuid;not null;index" json:"restaurant_id"`
	Restaurant    *Restaurant `gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE" json:"-"`
	ShopName      string      `gorm:"not null" json:"shop_name"`
	// Comma-joined list of three-digit table identifiers, e.g. "001,102".
	TableNumber   string             `gorm:"not null" json:"table_number"`
	CustomerName  string             `gorm:"not null" json:"customer_name"`
	CustomerEmail string             `gorm:"not null;index" json:"customer_email"`
	PartySize     int                `gorm:"not null" json:"party_size"`
	Date          string             `gorm:"not null;index" json:"date"`
	TimeSlot      string             `gorm:"not null" json:"time_slot"`
	CheckedIn     bool               `gorm:"not null;default:false" json:"checked_in"`
	Tables        []ReservationTable `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
	DeletedAt     gorm.DeletedAt     `gorm:"index" json:"-"`
}

func (reservation *Reservation) BeforeCreate(tx *gorm.DB) (err error) {
	if reservation.ID == uuid.Nil {
		reservation.ID = uuid.New()
	}
	return
}

// ReservationTable claims a single table identifier for one slot. The unique
// index is what makes concurrent double bookings impossible: the second
// insert for the same tuple fails with a constraint violation.
type ReservationTable struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"-"`
	ReservationID uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	RestaurantID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_table_slot" json:"restaurant_id"`
	TableNumber   string    `gorm:"not null;uniqueIndex:idx_table_slot" json:"table_number"`
	Date          string    `gorm:"not null;uniqueIndex:idx_table_slot" json:"date"`
	TimeSlot      string    `gorm:"not null;uniqueIndex:idx_table_slot" json:"time_slot"`
	CreatedAt     time.Time `json:"-"`
}

func (claim *ReservationTable) BeforeCreate(tx *gorm.DB) (err error) {
	if claim.ID == uuid.Nil {
		claim.ID = uuid.New()
	}
	return
}
