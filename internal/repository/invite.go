package repository

import (
	"context"

	"taskflow-backend/internal/database/models"
	"taskflow-backend/internal/tenancy"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InviteRepository handles database operations for invites
type InviteRepository struct {
	db *gorm.DB
}

// NewInviteRepository creates a new invite repository
func NewInviteRepository(db *gorm.DB) *InviteRepository {
	return &InviteRepository{db: db}
}

// Create persists an invite in the current tenant
func (r *InviteRepository) Create(ctx context.Context, invite *models.Invite) error {
	if err := tenancy.AttachTenant(ctx, invite); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(invite).Error
}

// GetByCode retrieves an invite by its code. The code itself is the
// capability, so the lookup is not tenant scoped.
func (r *InviteRepository) GetByCode(ctx context.Context, code string) (*models.Invite, error) {
	var invite models.Invite
	if err := r.db.WithContext(ctx).First(&invite, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &invite, nil
}

// Claim flips an unused invite to used. It returns false when the invite was
// already claimed. On postgres a concurrent claim waits on the row lock of
// the first one and then matches no row, so only one caller can ever succeed.
func (r *InviteRepository) Claim(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Invite{}).
		Where("id = ? AND is_used = ?", id, false).
		Update("is_used", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// SetUsedBy records the user created from a claimed invite
func (r *InviteRepository) SetUsedBy(ctx context.Context, id, usedBy uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.Invite{}).
		Where("id = ? AND is_used = ?", id, true).
		Update("used_by_id", usedBy).Error
}
