package service

import (
	"context"
	"fmt"

	"taskflow-backend/internal/database/models"
	apperrors "taskflow-backend/internal/errors"
	"taskflow-backend/internal/metrics"
	"taskflow-backend/internal/repository"
	"taskflow-backend/internal/tenancy"

	"github.com/google/uuid"
)

// NotificationService exposes the caller's own notifications
type NotificationService struct {
	store *repository.Store
}

// NewNotificationService creates a new notification service
func NewNotificationService(store *repository.Store) *NotificationService {
	return &NotificationService{store: store}
}

// NotificationResponse represents a notification
type NotificationResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user"`
	TenantID  uuid.UUID `json:"tenant"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt string    `json:"created_at"`
}

func toNotificationResponse(n *models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		UserID:    n.UserID,
		TenantID:  n.TenantID,
		Type:      string(n.Type),
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: formatTime(n.CreatedAt),
	}
}

// ListNotifications returns the authenticated principal's notifications, newest first
func (s *NotificationService) ListNotifications(ctx context.Context) ([]NotificationResponse, error) {
	principal, ok := tenancy.Principal(ctx)
	if !ok {
		return nil, apperrors.ErrMissingPrincipal
	}
	notifications, err := s.store.Notifications.ListForUser(ctx, principal.ID)
	if err != nil {
		return nil, err
	}
	out := make([]NotificationResponse, 0, len(notifications))
	for i := range notifications {
		out = append(out, toNotificationResponse(&notifications[i]))
	}
	return out, nil
}

// MarkRead flags one of the principal's notifications as read
func (s *NotificationService) MarkRead(ctx context.Context, id uuid.UUID) (*NotificationResponse, error) {
	principal, ok := tenancy.Principal(ctx)
	if !ok {
		return nil, apperrors.ErrMissingPrincipal
	}
	n, err := s.store.Notifications.MarkRead(ctx, principal.ID, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrNotificationNotFound)
	}
	resp := toNotificationResponse(n)
	return &resp, nil
}

// InAppDispatcher delivers task events as stored notifications
type InAppDispatcher struct {
	store *repository.Store
}

// NewInAppDispatcher creates a dispatcher writing to store
func NewInAppDispatcher(store *repository.Store) *InAppDispatcher {
	return &InAppDispatcher{store: store}
}

// Dispatch stores a notification for event's recipient in the task's tenant
func (d *InAppDispatcher) Dispatch(ctx context.Context, event TaskEvent) error {
	ctx = tenancy.WithTenant(ctx, event.Task.TenantID)

	message, err := d.message(ctx, event)
	if err == nil {
		n := &models.Notification{
			UserID:  event.Recipient,
			Type:    event.Type,
			Message: message,
		}
		err = d.store.Notifications.Create(ctx, n)
	}

	result := "stored"
	if err != nil {
		result = "failed"
	}
	metrics.NotificationsDispatched.WithLabelValues(string(event.Type), result).Inc()
	return err
}

func (d *InAppDispatcher) message(ctx context.Context, event TaskEvent) (string, error) {
	switch event.Type {
	case models.NotificationTaskAssigned:
		return fmt.Sprintf("You have been assigned a new task: %s", event.Task.Title), nil
	case models.NotificationTaskCompleted:
		email := "unknown"
		if event.Task.AssignedToID != nil {
			assignee, err := d.store.Users.GetInTenant(ctx, *event.Task.AssignedToID)
			if err != nil {
				return "", err
			}
			email = assignee.Email
		}
		return fmt.Sprintf("Task '%s' assigned to %s has been completed.", event.Task.Title, email), nil
	case models.NotificationTaskUpdated:
		return fmt.Sprintf("Task '%s' has been updated.", event.Task.Title), nil
	}
	return "", fmt.Errorf("unknown notification type %q", event.Type)
}
