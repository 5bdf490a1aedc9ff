package models

import (
	"vrms/src/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tenant is the isolation boundary: one row per rental business. Every other
// table carries a tenant_id column referencing it.
type Tenant struct {
	ID           uuid.UUID    `gorm:"primarykey;type:uuid" json:"id"`
	Name         string       `json:"name,omitempty"`
	Slug         string       `gorm:"uniqueIndex" json:"slug"`
	Country      string       `json:"country,omitempty"`
	Currency     string       `gorm:"default:'EUR'" json:"currency,omitempty"`
	ContactEmail string       `json:"email,omitempty"`
	Status       string       `gorm:"default:'active'" json:"status,omitempty"`
	LogoKey      *string      `json:"-"`
	Metadata     *types.JSONB `gorm:"type:jsonb" json:"metadata,omitempty"`

	Users []User `gorm:"foreignKey:tenant_id" json:"-"`

	types.Timestamps
}

func (t *Tenant) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
