package models

import (
	"vrms/src/types"

	"github.com/google/uuid"
)

// Plate uniqueness is scoped to the tenant: two businesses may register the
// same plate, one business may not.
type Vehicle struct {
	ID             uint                `gorm:"primarykey" json:"id"`
	TenantID       uuid.UUID           `gorm:"type:uuid;uniqueIndex:tenant_plate;index" json:"-"`
	Plate          string              `gorm:"uniqueIndex:tenant_plate" json:"plate,omitempty"`
	VIN            string              `json:"vin,omitempty"`
	Make           string              `json:"make,omitempty"`
	Model          string              `json:"model,omitempty"`
	Year           uint                `json:"year,omitempty"`
	Odometer       uint                `json:"odometer,omitempty"`
	Status         types.VehicleStatus `gorm:"default:'active'" json:"status,omitempty"`
	PricingGroupID *uint               `json:"pricing_group_id,omitempty"`
	LocationID     *uint               `json:"location_id,omitempty"`
	Notes          *string             `json:"notes,omitempty"`

	PricingGroup *PricingGroup `gorm:"foreignKey:pricing_group_id" json:"pricing_group,omitempty"`
	Location     *Location     `gorm:"foreignKey:location_id" json:"location,omitempty"`

	types.Timestamps
}
