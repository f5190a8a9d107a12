package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"taskflow-backend/internal/database/models"
	apperrors "taskflow-backend/internal/errors"
	"taskflow-backend/internal/rbac"
	"taskflow-backend/internal/tenancy"
	"taskflow-backend/internal/testutils"
	"taskflow-backend/internal/visibility"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newStore(t *testing.T) (*Store, *testutils.Fixture) {
	t.Helper()
	db := testutils.NewSQLiteDB(t)
	return NewStore(db), testutils.NewFixture(t, db)
}

func tenantCtx(tenant *models.Tenant) context.Context {
	return tenancy.WithTenant(context.Background(), tenant.ID)
}

func TestTenantScopeRequired(t *testing.T) {
	store, fx := newStore(t)
	org := fx.Org("Acme")
	project := fx.Project(org.Manager, "Launch")
	ctx := context.Background()

	_, err := store.Users.GetInTenant(ctx, org.Manager.ID)
	assert.True(t, apperrors.IsInvalidContext(err))

	_, err = store.Projects.GetByID(ctx, project.ID)
	assert.True(t, apperrors.IsInvalidContext(err))

	_, err = store.Tasks.FindVisible(ctx, visibility.TaskFilter{All: true}, TaskQuery{})
	assert.True(t, apperrors.IsInvalidContext(err))

	err = store.Tasks.Create(ctx, &models.Task{ProjectID: project.ID, Title: "Orphan"})
	assert.True(t, apperrors.IsInvalidContext(err))

	_, err = store.Notifications.ListForUser(ctx, org.Manager.ID)
	assert.True(t, apperrors.IsInvalidContext(err))
}

func TestTenantIsolation(t *testing.T) {
	store, fx := newStore(t)
	acme := fx.Org("Acme")
	globex := fx.Org("Globex")
	acmeProject := fx.Project(acme.Manager, "Launch")
	globexProject := fx.Project(globex.Manager, "Launch")
	fx.Task(acmeProject, acme.Manager, acme.Employee, "Docs")
	fx.Task(globexProject, globex.Manager, globex.Employee, "Docs")

	ctx := tenantCtx(acme.Tenant)

	_, err := store.Users.GetInTenant(ctx, globex.Manager.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = store.Projects.GetByID(ctx, globexProject.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	users, err := store.Users.FindVisible(ctx, visibility.UserFilter{All: true}, nil)
	require.NoError(t, err)
	assert.Len(t, users, 6)
	for _, u := range users {
		assert.True(t, u.InTenant(acme.Tenant.ID))
	}

	tasks, err := store.Tasks.FindVisible(ctx, visibility.TaskFilter{All: true}, TaskQuery{})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, acme.Tenant.ID, tasks[0].TenantID)

	err = store.Projects.Update(ctx, globexProject.ID, map[string]interface{}{"name": "Hijacked"})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Unscoped lookups are reserved for authentication and guards
	foreign, err := store.Users.GetByID(ctx, globex.Manager.ID)
	require.NoError(t, err)
	assert.Equal(t, globex.Manager.ID, foreign.ID)
}

func TestCreateBindsTenant(t *testing.T) {
	store, fx := newStore(t)
	acme := fx.Org("Acme")
	globex := fx.Org("Globex")
	project := fx.Project(acme.Manager, "Launch")
	ctx := tenantCtx(acme.Tenant)

	task := &models.Task{ProjectID: project.ID, Title: "Bound", Status: models.TaskStatusTodo, Priority: models.TaskPriorityLow}
	require.NoError(t, store.Tasks.Create(ctx, task))
	assert.Equal(t, acme.Tenant.ID, task.TenantID)

	user := &models.User{Email: "new@acme.test", PasswordHash: "x", Role: models.RoleEmployee, IsActive: true}
	require.NoError(t, store.Users.Create(ctx, user))
	require.NotNil(t, user.TenantID)
	assert.Equal(t, acme.Tenant.ID, *user.TenantID)

	intruder := &models.User{TenantID: &globex.Tenant.ID, Email: "spy@globex.test", PasswordHash: "x", Role: models.RoleEmployee}
	err := store.Users.Create(ctx, intruder)
	assert.Equal(t, rbac.ReasonCrossTenant, apperrors.ReasonOf(err))
}

func TestCreateUserWithoutTenantContext(t *testing.T) {
	store, fx := newStore(t)
	acme := fx.Org("Acme")
	ctx := context.Background()

	bound := &models.User{TenantID: &acme.Tenant.ID, Email: "stray@acme.test", PasswordHash: "x", Role: models.RoleEmployee}
	err := store.Users.Create(ctx, bound)
	assert.True(t, apperrors.IsInvalidContext(err))

	exists, err := store.Users.EmailExists(ctx, "stray@acme.test")
	require.NoError(t, err)
	assert.False(t, exists)

	founder := &models.User{Email: "founder@acme.test", PasswordHash: "x", Role: models.RoleSuperAdmin, IsActive: true}
	require.NoError(t, store.Users.Create(ctx, founder))
	assert.Nil(t, founder.TenantID)
}

func TestDirectReports(t *testing.T) {
	store, fx := newStore(t)
	org := fx.Org("Acme")
	ctx := tenantCtx(org.Tenant)

	reports, err := store.Users.DirectReports(ctx, []uuid.UUID{org.Admin.ID})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{org.Manager.ID, org.Manager2.ID}, reports)

	reports, err = store.Users.DirectReports(ctx, []uuid.UUID{org.Manager.ID, org.Manager2.ID}, models.RoleEmployee)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{org.Employee.ID, org.Employee2.ID}, reports)

	reports, err = store.Users.DirectReports(ctx, []uuid.UUID{org.Admin.ID}, models.RoleEmployee)
	require.NoError(t, err)
	assert.Empty(t, reports)

	reports, err = store.Users.DirectReports(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, reports)
}

func TestEmptyFiltersMatchNothing(t *testing.T) {
	store, fx := newStore(t)
	org := fx.Org("Acme")
	project := fx.Project(org.Manager, "Launch")
	fx.Task(project, org.Manager, org.Employee, "Docs")
	ctx := tenantCtx(org.Tenant)

	users, err := store.Users.FindVisible(ctx, visibility.UserFilter{}, nil)
	require.NoError(t, err)
	assert.Empty(t, users)

	tasks, err := store.Tasks.FindVisible(ctx, visibility.TaskFilter{}, TaskQuery{})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestProjectMembershipFilter(t *testing.T) {
	store, fx := newStore(t)
	org := fx.Org("Acme")
	launch := fx.Project(org.Manager, "Launch")
	fx.Member(launch, org.Manager, models.ProjectRoleAdmin)
	fx.Member(launch, org.Employee, models.ProjectRoleEmployee)
	other := fx.Project(org.Admin, "Other")
	fx.Member(other, org.Admin, models.ProjectRoleAdmin)
	ctx := tenantCtx(org.Tenant)

	projects, err := store.Projects.FindVisible(ctx, visibility.ProjectFilter{MemberID: org.Employee.ID})
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, launch.ID, projects[0].ID)

	members, err := store.Members.FindVisible(ctx, visibility.ProjectFilter{MemberID: org.Employee.ID}, nil)
	require.NoError(t, err)
	assert.Len(t, members, 2)

	members, err = store.Members.FindVisible(ctx, visibility.ProjectFilter{All: true}, &other.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, org.Admin.ID, members[0].UserID)

	exists, err := store.Members.Exists(ctx, launch.ID, org.Employee.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = store.Projects.GetVisible(ctx, visibility.ProjectFilter{MemberID: org.Employee.ID}, other.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestClaimInviteOnce(t *testing.T) {
	store, fx := newStore(t)
	org := fx.Org("Acme")
	invite := fx.Invite(org.Admin, models.RoleEmployee, time.Hour)
	ctx := tenantCtx(org.Tenant)

	found, err := store.Invites.GetByCode(context.Background(), invite.Code)
	require.NoError(t, err)
	assert.False(t, found.IsUsed)

	claimed, err := store.Invites.Claim(ctx, invite.ID)
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = store.Invites.Claim(ctx, invite.ID)
	require.NoError(t, err)
	assert.False(t, claimed)

	require.NoError(t, store.Invites.SetUsedBy(ctx, invite.ID, org.Employee.ID))

	found, err = store.Invites.GetByCode(context.Background(), invite.Code)
	require.NoError(t, err)
	assert.True(t, found.IsUsed)
	require.NotNil(t, found.UsedByID)
	assert.Equal(t, org.Employee.ID, *found.UsedByID)
}

func TestSetUsedByIgnoresUnclaimedInvite(t *testing.T) {
	store, fx := newStore(t)
	org := fx.Org("Acme")
	invite := fx.Invite(org.Admin, models.RoleEmployee, time.Hour)

	require.NoError(t, store.Invites.SetUsedBy(tenantCtx(org.Tenant), invite.ID, org.Employee.ID))

	found, err := store.Invites.GetByCode(context.Background(), invite.Code)
	require.NoError(t, err)
	assert.False(t, found.IsUsed)
	assert.Nil(t, found.UsedByID)
}

func TestNotificationOwnership(t *testing.T) {
	store, fx := newStore(t)
	org := fx.Org("Acme")
	ctx := tenantCtx(org.Tenant)

	n := &models.Notification{UserID: org.Employee.ID, Type: models.NotificationTaskAssigned, Message: "hello"}
	require.NoError(t, store.Notifications.Create(ctx, n))
	assert.Equal(t, org.Tenant.ID, n.TenantID)

	_, err := store.Notifications.MarkRead(ctx, org.Manager.ID, n.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	read, err := store.Notifications.MarkRead(ctx, org.Employee.ID, n.ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)

	list, err := store.Notifications.ListForUser(ctx, org.Employee.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].IsRead)
}

func TestTransactionRollsBack(t *testing.T) {
	store, fx := newStore(t)
	org := fx.Org("Acme")
	ctx := tenantCtx(org.Tenant)
	boom := errors.New("boom")

	err := store.Transaction(ctx, func(tx *Store) error {
		if err := tx.Projects.Create(ctx, &models.Project{Name: "Doomed", Status: models.ProjectStatusActive}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	projects, err := store.Projects.FindVisible(ctx, visibility.ProjectFilter{All: true})
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestAssignTenantOnlyOnce(t *testing.T) {
	store, fx := newStore(t)
	acme := fx.Tenant("Acme")
	globex := fx.Tenant("Globex")
	ctx := context.Background()

	owner := &models.User{Email: "founder@acme.test", PasswordHash: "x", Role: models.RoleSuperAdmin, IsActive: true}
	require.NoError(t, store.Users.Create(ctx, owner))
	require.NoError(t, store.Users.AssignTenant(ctx, owner.ID, acme.ID))
	assert.ErrorIs(t, store.Users.AssignTenant(ctx, owner.ID, globex.ID), gorm.ErrRecordNotFound)

	require.NoError(t, store.Tenants.SetOwner(ctx, acme.ID, owner.ID))
	tenant, err := store.Tenants.GetByID(ctx, acme.ID)
	require.NoError(t, err)
	require.NotNil(t, tenant.OwnerID)
	assert.Equal(t, owner.ID, *tenant.OwnerID)
}
