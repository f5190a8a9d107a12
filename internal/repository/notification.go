package repository

import (
	"context"

	"taskflow-backend/internal/database/models"
	"taskflow-backend/internal/tenancy"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationRepository handles database operations for notifications
type NotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create stores a notification in the current tenant
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if err := tenancy.AttachTenant(ctx, n); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(n).Error
}

// ListForUser returns a user's notifications, newest first
func (r *NotificationRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	q, err := tenantScoped(ctx, r.db, "notifications")
	if err != nil {
		return nil, err
	}
	var notifications []models.Notification
	if err := q.Where("user_id = ?", userID).Order("created_at DESC").Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkRead flags a notification owned by userID as read
func (r *NotificationRepository) MarkRead(ctx context.Context, userID, id uuid.UUID) (*models.Notification, error) {
	q, err := tenantScoped(ctx, r.db, "notifications")
	if err != nil {
		return nil, err
	}
	var n models.Notification
	if err := q.First(&n, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return nil, err
	}
	if n.IsRead {
		return &n, nil
	}
	if err := r.db.WithContext(ctx).Model(&n).Update("is_read", true).Error; err != nil {
		return nil, err
	}
	n.IsRead = true
	return &n, nil
}
