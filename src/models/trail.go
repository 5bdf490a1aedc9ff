package models

import (
	"vrms/src/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TrailLog records every admin command run, including dry runs.
type TrailLog struct {
	ID        uuid.UUID   `gorm:"primarykey;type:uuid" json:"id"`
	TenantID  uuid.UUID   `gorm:"type:uuid;index" json:"-"`
	Type      string      `json:"type"`
	Initiator string      `json:"initiator"`
	Group     string      `json:"group"`
	DryRun    bool        `json:"dry_run"`
	Detail    types.JSONB `gorm:"type:jsonb" json:"detail,omitempty"`

	types.Timestamps
}

func (t *TrailLog) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
