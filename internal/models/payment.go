package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PaymentPending   = "Pending"
	PaymentCompleted = "Completed"
	PaymentFailed    = "Failed"
	// Legacy status still present on rows imported from the old system;
	// reports count it alongside Completed.
	PaymentAccepted = "Accepted"

	MethodCard   = "Card"
	MethodPayPal = "PayPal"
	MethodCash   = "Cash"
)

type Payment struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Amount        int            `gorm:"not null" json:"amount"`
	Method        string         `gorm:"not null" json:"method"`
	Status        string         `gorm:"not null;default:'Pending'" json:"status"`
	TransactionID string         `gorm:"not null" json:"transaction_id"`
	UserID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User          *User          `gorm:"foreignKey:UserID" json:"-"`
	OrderID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"order_id"`
	Order         *Order         `gorm:"foreignKey:OrderID" json:"-"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (payment *Payment) BeforeCreate(tx *gorm.DB) (err error) {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	return
}
