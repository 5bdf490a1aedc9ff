package models

import (
	"time"
	"vrms/src/types"

	"github.com/google/uuid"
)

type PricingGroup struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	TenantID  uuid.UUID `gorm:"type:uuid;uniqueIndex:tenant_group_name;index" json:"-"`
	Name      string    `gorm:"uniqueIndex:tenant_group_name" json:"name,omitempty"`
	DailyRate float64   `json:"daily_rate,omitempty"`

	Vehicles []Vehicle `gorm:"foreignKey:pricing_group_id" json:"-"`

	types.Timestamps
}

// Season scales daily rates for the days it covers. Overlapping seasons
// resolve to the highest multiplier.
type Season struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	TenantID   uuid.UUID `gorm:"type:uuid;index" json:"-"`
	Name       string    `json:"name,omitempty"`
	StartDate  time.Time `json:"start_date,omitempty"`
	EndDate    time.Time `json:"end_date,omitempty"`
	Multiplier float64   `gorm:"default:1" json:"multiplier,omitempty"`

	types.Timestamps
}

type Extra struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	TenantID    uuid.UUID `gorm:"type:uuid;index" json:"-"`
	Name        string    `json:"name,omitempty"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price,omitempty"`
	PerDay      bool      `json:"per_day"`

	types.Timestamps
}
