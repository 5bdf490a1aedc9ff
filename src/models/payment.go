package models

import (
	"vrms/src/types"

	"github.com/google/uuid"
)

// ReferenceID correlates the row with the external payment processor. It is
// empty at creation and filled asynchronously by the webhook handler.
type Payment struct {
	ID                uint                `gorm:"primarykey" json:"id"`
	TenantID          uuid.UUID           `gorm:"type:uuid;index" json:"-"`
	BookingID         uint                `gorm:"index" json:"booking_id,omitempty"`
	Amount            float64             `json:"amount,omitempty"`
	Currency          string              `json:"currency,omitempty"`
	Status            types.PaymentStatus `gorm:"default:'pending'" json:"status,omitempty"`
	ReferenceID       string              `json:"reference_id,omitempty"`
	CheckoutSessionID *string             `gorm:"index" json:"-"`

	Booking *Booking `gorm:"foreignKey:booking_id" json:"-"`

	types.Timestamps
}
