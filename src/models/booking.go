package models

import (
	"time"
	"vrms/src/types"

	"github.com/google/uuid"
)

type Booking struct {
	ID               uint                `gorm:"primarykey" json:"id"`
	TenantID         uuid.UUID           `gorm:"type:uuid;index" json:"-"`
	CustomerID       uint                `json:"customer_id,omitempty"`
	Status           types.BookingStatus `gorm:"default:'pending'" json:"status,omitempty"`
	StartDate        time.Time           `json:"start_date,omitempty"`
	EndDate          time.Time           `json:"end_date,omitempty"`
	PickupLocationID *uint               `json:"pickup_location_id,omitempty"`
	ReturnLocationID *uint               `json:"return_location_id,omitempty"`
	Subtotal         float64             `json:"subtotal,omitempty"`
	ExtrasTotal      float64             `json:"extras_total,omitempty"`
	Total            float64             `json:"total,omitempty"`
	Currency         string              `json:"currency,omitempty"`
	Notes            *string             `json:"notes,omitempty"`

	Customer        *Customer        `gorm:"foreignKey:customer_id" json:"customer,omitempty"`
	BookingVehicles []BookingVehicle `gorm:"foreignKey:booking_id" json:"booking_vehicles,omitempty"`
	Contracts       []Contract       `gorm:"foreignKey:booking_id" json:"contracts,omitempty"`
	Payments        []Payment        `gorm:"foreignKey:booking_id" json:"payments,omitempty"`
	PickupLocation  *Location        `gorm:"foreignKey:pickup_location_id" json:"pickup_location,omitempty"`
	ReturnLocation  *Location        `gorm:"foreignKey:return_location_id" json:"return_location,omitempty"`

	types.Timestamps
}

// BookingVehicle is the booking↔vehicle join row. It is modeled as its own
// entity with its own id; VehicleID is the only field that identifies the
// vehicle, and the two ids are never interchangeable.
type BookingVehicle struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	TenantID  uuid.UUID `gorm:"type:uuid;index" json:"-"`
	BookingID uint      `gorm:"index" json:"booking_id,omitempty"`
	VehicleID uint      `gorm:"index" json:"vehicle_id,omitempty"`
	DailyRate float64   `json:"daily_rate,omitempty"`

	Vehicle *Vehicle `gorm:"foreignKey:vehicle_id" json:"vehicle,omitempty"`
	Booking *Booking `gorm:"foreignKey:booking_id" json:"-"`

	types.Timestamps
}
