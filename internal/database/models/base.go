package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel provides common fields for all models with UUID primary keys
type BaseModel struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate sets the UUID if not already set
func (base *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if base.ID == uuid.Nil {
		base.ID = uuid.New()
	}
	return nil
}

// TenantOwned is implemented by every row that belongs to exactly one tenant.
type TenantOwned interface {
	GetTenantID() uuid.UUID
	SetTenantID(id uuid.UUID)
}

// TenantModel carries the owning tenant of a row.
type TenantModel struct {
	TenantID uuid.UUID `json:"tenant_id" gorm:"type:uuid;not null;index"`
}

// GetTenantID returns the owning tenant
func (t *TenantModel) GetTenantID() uuid.UUID {
	return t.TenantID
}

// SetTenantID sets the owning tenant
func (t *TenantModel) SetTenantID(id uuid.UUID) {
	t.TenantID = id
}
