package models

import "github.com/google/uuid"

// Tenant is an organization; the unit of data isolation
type Tenant struct {
	BaseModel
	Name    string     `json:"name" gorm:"not null;size:255" validate:"required,max=255"`
	Plan    Plan       `json:"plan" gorm:"type:varchar(20);not null;default:'free'"`
	OwnerID *uuid.UUID `json:"owner_id,omitempty" gorm:"type:uuid;index"`
}

// TableName returns the table name for Tenant
func (Tenant) TableName() string {
	return "tenants"
}
