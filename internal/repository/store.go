package repository

import (
	"context"

	"taskflow-backend/internal/tenancy"
	"taskflow-backend/internal/visibility"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	_ tenancy.UserLookup         = (*UserRepository)(nil)
	_ visibility.HierarchyReader = (*UserRepository)(nil)
)

// Store groups the repositories that share one connection or transaction
type Store struct {
	db            *gorm.DB
	Tenants       *TenantRepository
	Users         *UserRepository
	Invites       *InviteRepository
	Projects      *ProjectRepository
	Members       *ProjectMemberRepository
	Tasks         *TaskRepository
	Notifications *NotificationRepository
}

// NewStore creates a new store over db
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		Tenants:       NewTenantRepository(db),
		Users:         NewUserRepository(db),
		Invites:       NewInviteRepository(db),
		Projects:      NewProjectRepository(db),
		Members:       NewProjectMemberRepository(db),
		Tasks:         NewTaskRepository(db),
		Notifications: NewNotificationRepository(db),
	}
}

// DB returns the underlying handle
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn against a store bound to a single database transaction.
// fn must only use the store it is given.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

func uuidValues(ids []uuid.UUID) []interface{} {
	values := make([]interface{}, len(ids))
	for i, id := range ids {
		values[i] = id
	}
	return values
}
