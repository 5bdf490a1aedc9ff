package models

import (
	"vrms/src/types"

	"github.com/google/uuid"
)

type Location struct {
	ID       uint      `gorm:"primarykey" json:"id"`
	TenantID uuid.UUID `gorm:"type:uuid;index" json:"-"`
	Name     string    `json:"name,omitempty"`
	Address  string    `json:"address,omitempty"`
	City     string    `json:"city,omitempty"`
	Country  string    `json:"country,omitempty"`

	types.Timestamps
}
