package repository

import (
	"context"

	"taskflow-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TenantRepository handles database operations for tenants. Tenants are the
// isolation boundary themselves, so lookups are by id only.
type TenantRepository struct {
	db *gorm.DB
}

// NewTenantRepository creates a new tenant repository
func NewTenantRepository(db *gorm.DB) *TenantRepository {
	return &TenantRepository{db: db}
}

// Create creates a new tenant
func (r *TenantRepository) Create(ctx context.Context, tenant *models.Tenant) error {
	return r.db.WithContext(ctx).Create(tenant).Error
}

// GetByID retrieves a tenant by ID
func (r *TenantRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := r.db.WithContext(ctx).First(&tenant, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}

// SetOwner records the owning user of a tenant
func (r *TenantRepository) SetOwner(ctx context.Context, id, ownerID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.Tenant{}).Where("id = ?", id).Update("owner_id", ownerID).Error
}
