package models

import (
	"time"
	"vrms/src/types"

	"github.com/google/uuid"
)

type Invoice struct {
	ID        uint                `gorm:"primarykey" json:"id"`
	TenantID  uuid.UUID           `gorm:"type:uuid;uniqueIndex:tenant_number;index" json:"-"`
	BookingID uint                `gorm:"index" json:"booking_id,omitempty"`
	Number    string              `gorm:"uniqueIndex:tenant_number" json:"number,omitempty"`
	Amount    float64             `json:"amount,omitempty"`
	Currency  string              `json:"currency,omitempty"`
	Status    types.InvoiceStatus `gorm:"default:'issued'" json:"status,omitempty"`
	IssuedAt  time.Time           `json:"issued_at,omitempty"`
	DueAt     time.Time           `json:"due_at,omitempty"`
	EmailedAt *time.Time          `json:"emailed_at,omitempty"`

	Booking *Booking `gorm:"foreignKey:booking_id" json:"-"`

	types.Timestamps
}
