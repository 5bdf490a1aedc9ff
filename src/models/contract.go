package models

import (
	"time"
	"vrms/src/types"

	"github.com/google/uuid"
)

// A contract version is immutable once signed: SignedAt set means no update,
// no regeneration, no delete. Unsigned versions may be regenerated, which
// appends a new row with a bumped Version.
type Contract struct {
	ID        uint       `gorm:"primarykey" json:"id"`
	TenantID  uuid.UUID  `gorm:"type:uuid;index" json:"-"`
	BookingID uint       `gorm:"uniqueIndex:booking_version;index" json:"booking_id,omitempty"`
	Version   uint       `gorm:"uniqueIndex:booking_version;default:1" json:"version"`
	Body      string     `json:"body,omitempty"`
	SignedAt  *time.Time `json:"signed_at,omitempty"`
	SignedBy  string     `json:"signed_by,omitempty"`

	Booking *Booking `gorm:"foreignKey:booking_id" json:"-"`

	types.Timestamps
}

func (c *Contract) Signed() bool {
	return c.SignedAt != nil
}
