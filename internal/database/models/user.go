package models

import (
	"strings"

	"github.com/google/uuid"
)

// User is an account inside a tenant. TenantID is only nil between the two
// steps of tenant-genesis signup.
type User struct {
	BaseModel
	TenantID     *uuid.UUID `json:"tenant_id,omitempty" gorm:"type:uuid;index"`
	FirstName    string     `json:"first_name" gorm:"size:150"`
	LastName     string     `json:"last_name" gorm:"size:150"`
	Email        string     `json:"email" gorm:"uniqueIndex;not null;size:255" validate:"required,email,max=255"`
	PasswordHash string     `json:"-" gorm:"not null;size:255"`
	Role         Role       `json:"role" gorm:"type:varchar(20);not null;default:'employee';index"`
	CreatedByID  *uuid.UUID `json:"created_by,omitempty" gorm:"type:uuid"`
	ReportsToID  *uuid.UUID `json:"reports_to,omitempty" gorm:"type:uuid;index"`
	IsActive     bool       `json:"is_active" gorm:"not null;default:true"`
}

// TableName returns the table name for User
func (User) TableName() string {
	return "users"
}

// InTenant reports whether the user belongs to tenant id
func (u *User) InTenant(id uuid.UUID) bool {
	return u.TenantID != nil && *u.TenantID == id
}

// ReportsTo reports whether the user's direct manager is id
func (u *User) ReportsTo(id uuid.UUID) bool {
	return u.ReportsToID != nil && *u.ReportsToID == id
}

// NormalizeEmail lower-cases the domain part of an address, keeping the local part intact.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}
