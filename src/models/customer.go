package models

import (
	"vrms/src/types"

	"github.com/google/uuid"
)

type Customer struct {
	ID        uint                 `gorm:"primarykey" json:"id"`
	TenantID  uuid.UUID            `gorm:"type:uuid;index" json:"-"`
	FirstName string               `json:"first_name,omitempty"`
	LastName  string               `json:"last_name,omitempty"`
	Email     string               `json:"email,omitempty"`
	Phone     string               `json:"phone,omitempty"`
	LicenseNo string               `json:"license_no,omitempty"`
	Status    types.CustomerStatus `gorm:"default:'active'" json:"status,omitempty"`

	Bookings []Booking `gorm:"foreignKey:customer_id" json:"bookings,omitempty"`

	types.Timestamps
}
