package models

import (
	"time"
	"vrms/src/types"

	"github.com/google/uuid"
)

type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	TenantID     uuid.UUID `gorm:"type:uuid;uniqueIndex:tenant_email;index" json:"tenant_id,omitempty"`
	Name         string    `json:"name,omitempty"`
	Email        string    `gorm:"uniqueIndex:tenant_email" json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	Role         string    `gorm:"default:'staff'" json:"role,omitempty"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`

	Tenant Tenant `gorm:"foreignKey:tenant_id" json:"-"`

	types.Timestamps
}
