package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	OrderTypeDineIn   = "Dine-in"
	OrderTypeTakeaway = "Takeaway"

	// Sentinel stored on orders that have no linked table reservation.
	ReservationNone        = "No"
	ReservationUnavailable = "Unavailable"
)

type Order struct {
	ID            uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	OrderID       string      `gorm:"not null;index" json:"order_id"`
	RestaurantID  uuid.UUID   `gorm:"type:uuid;not null;index" json:"restaurant_id"`
	CustomerName  string      `gorm:"not null" json:"customer_name"`
	CustomerEmail string      `gorm:"not null;index" json:"customer_email"`
	OrderType     string      `gorm:"not null" json:"order_type"`
	PaymentMethod string      `gorm:"not null" json:"payment_method"`
	PaymentStatus string      `gorm:"not null;default:'Pending'" json:"payment_status"`
	OrderStatus   string      `gorm:"not null" json:"order_status"`
	Total         int         `gorm:"not null" json:"total"`
	Items         []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	// Human-readable reservation id ("RES-...") or the "No" sentinel.
	LinkedReservationID   string         `gorm:"not null;default:'No'" json:"linked_reservation_id"`
	ReservationLinkStatus string         `gorm:"not null;default:'Unavailable'" json:"reservation_link_status"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"-"`
}

func (order *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	return
}

type OrderItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"-"`
	OrderID     uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Name        string    `gorm:"not null" json:"name"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	Price       int       `gorm:"not null" json:"price"`
	PortionSize string    `gorm:"not null;default:'Medium'" json:"portion_size"`
	ImagePath   string    `json:"image"`
	CreatedAt   time.Time `json:"-"`
}

func (item *OrderItem) BeforeCreate(tx *gorm.DB) (err error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	return
}
