package models

import (
	"vrms/src/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Setting struct {
	ID           uuid.UUID   `gorm:"primarykey;type:uuid" json:"id"`
	TenantID     uuid.UUID   `gorm:"type:uuid;uniqueIndex:tenant_name;index" json:"-"`
	SettingKey   string      `gorm:"uniqueIndex:tenant_name" json:"setting_key"`
	Group        string      `gorm:"uniqueIndex:tenant_name" json:"group,omitempty"`
	SettingValue types.JSONB `gorm:"type:jsonb" json:"setting_value"`

	types.Timestamps
}

func (s *Setting) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
