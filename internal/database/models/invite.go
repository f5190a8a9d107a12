package models

import (
	"time"

	"github.com/google/uuid"
)

// Invite is a single-use token that lets its redeemer join a tenant with a fixed role
type Invite struct {
	BaseModel
	TenantModel
	Code        string     `json:"code" gorm:"uniqueIndex;not null;size:64"`
	Role        Role       `json:"role" gorm:"type:varchar(20);not null"`
	CreatedByID uuid.UUID  `json:"created_by" gorm:"type:uuid;not null"`
	IsUsed      bool       `json:"is_used" gorm:"not null;default:false"`
	UsedByID    *uuid.UUID `json:"used_by,omitempty" gorm:"type:uuid"`
	ExpiresAt   time.Time  `json:"expires_at" gorm:"not null"`
}

// TableName returns the table name for Invite
func (Invite) TableName() string {
	return "invites"
}

// Expired reports whether the invite is past its expiry at now
func (i *Invite) Expired(now time.Time) bool {
	return i.ExpiresAt.Before(now)
}
