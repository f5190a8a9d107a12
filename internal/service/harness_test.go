package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"taskflow-backend/internal/database/models"
	"taskflow-backend/internal/repository"
	"taskflow-backend/internal/tenancy"
	"taskflow-backend/internal/testutils"
	"taskflow-backend/internal/visibility"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// recordingDispatcher keeps every event it is handed
type recordingDispatcher struct {
	mu     sync.Mutex
	events []TaskEvent
	err    error
}

func (d *recordingDispatcher) Dispatch(_ context.Context, event TaskEvent) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return d.err
}

func (d *recordingDispatcher) last() *TaskEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.events) == 0 {
		return nil
	}
	e := d.events[len(d.events)-1]
	return &e
}

var errDispatch = errors.New("mailbox full")

type harness struct {
	db         *gorm.DB
	store      *repository.Store
	fixture    *testutils.Fixture
	dispatcher *recordingDispatcher

	signup       *SignupService
	invites      *InviteService
	users        *UserService
	projects     *ProjectService
	tasks        *TaskService
	notification *NotificationService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessOn(t, testutils.NewSQLiteDB(t))
}

// newHarnessOn wires every service over db
func newHarnessOn(t *testing.T, db *gorm.DB) *harness {
	t.Helper()
	store := repository.NewStore(db)
	resolver := visibility.NewResolver(store.Users)
	v := NewValidator()
	dispatcher := &recordingDispatcher{}

	return &harness{
		db:           db,
		store:        store,
		fixture:      testutils.NewFixture(t, db),
		dispatcher:   dispatcher,
		signup:       NewSignupService(store, v),
		invites:      NewInviteService(store, v, 0),
		users:        NewUserService(store, resolver, v),
		projects:     NewProjectService(store, resolver, v),
		tasks:        NewTaskService(store, resolver, dispatcher, v),
		notification: NewNotificationService(store),
	}
}

// as returns a request context authenticated as u
func as(u *models.User) context.Context {
	return tenancy.WithScope(context.Background(), &tenancy.Scope{
		TenantID:      u.TenantID,
		Principal:     u,
		EffectiveUser: u,
	})
}

// viewingAs returns a request context where principal acts as target
func viewingAs(principal, target *models.User) context.Context {
	return tenancy.WithScope(context.Background(), &tenancy.Scope{
		TenantID:      principal.TenantID,
		Principal:     principal,
		EffectiveUser: target,
	})
}

func (h *harness) reload(t *testing.T, u *models.User) *models.User {
	t.Helper()
	var out models.User
	if err := h.db.First(&out, "id = ?", u.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	return &out
}

func ids[T any](items []T, id func(T) uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		out = append(out, id(item))
	}
	return out
}

func userIDs(users []UserResponse) []uuid.UUID {
	return ids(users, func(u UserResponse) uuid.UUID { return u.ID })
}

func taskIDs(tasks []TaskResponse) []uuid.UUID {
	return ids(tasks, func(t TaskResponse) uuid.UUID { return t.ID })
}

func day(offset int) string {
	return time.Now().UTC().AddDate(0, 0, offset).Format(dateLayout)
}

func ptr[T any](v T) *T {
	return &v
}
