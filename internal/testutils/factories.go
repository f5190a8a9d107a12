package testutils

import (
	"fmt"
	"testing"
	"time"

	"taskflow-backend/internal/database/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the plain-text password of every user a Fixture creates
const DefaultPassword = "password123"

// Fixture writes rows straight to the database, bypassing tenant scoping,
// so tests can arrange state across several tenants.
type Fixture struct {
	t    testing.TB
	db   *gorm.DB
	hash string
	seq  int
}

// NewFixture creates a fixture writing to db
func NewFixture(t testing.TB, db *gorm.DB) *Fixture {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	require.NoError(t, err)
	return &Fixture{t: t, db: db, hash: string(hash)}
}

func (f *Fixture) next() int {
	f.seq++
	return f.seq
}

func (f *Fixture) create(value interface{}) {
	f.t.Helper()
	require.NoError(f.t, f.db.Create(value).Error)
}

// Tenant creates a tenant on the free plan
func (f *Fixture) Tenant(name string) *models.Tenant {
	f.t.Helper()
	tenant := &models.Tenant{Name: name, Plan: models.PlanFree}
	f.create(tenant)
	return tenant
}

// User creates an active user of tenant with role. A non-nil manager becomes
// both creator and reports_to.
func (f *Fixture) User(tenant *models.Tenant, role models.Role, manager *models.User) *models.User {
	f.t.Helper()
	n := f.next()
	user := &models.User{
		TenantID:     &tenant.ID,
		FirstName:    string(role),
		LastName:     fmt.Sprintf("%d", n),
		Email:        fmt.Sprintf("%s%d@%s.test", role, n, tenant.ID.String()[:8]),
		PasswordHash: f.hash,
		Role:         role,
		IsActive:     true,
	}
	if manager != nil {
		user.CreatedByID = &manager.ID
		user.ReportsToID = &manager.ID
	}
	f.create(user)

	if role == models.RoleSuperAdmin && tenant.OwnerID == nil {
		tenant.OwnerID = &user.ID
		require.NoError(f.t, f.db.Model(tenant).Update("owner_id", user.ID).Error)
	}
	return user
}

// Project creates an active project created by creator
func (f *Fixture) Project(creator *models.User, name string) *models.Project {
	f.t.Helper()
	project := &models.Project{
		Name:        name,
		CreatedByID: &creator.ID,
		Status:      models.ProjectStatusActive,
	}
	project.TenantID = *creator.TenantID
	f.create(project)
	return project
}

// Member adds user to project with role
func (f *Fixture) Member(project *models.Project, user *models.User, role models.ProjectRole) *models.ProjectMember {
	f.t.Helper()
	member := &models.ProjectMember{ProjectID: project.ID, UserID: user.ID, Role: role}
	member.TenantID = project.TenantID
	f.create(member)
	return member
}

// Task creates a todo task in project assigned by assigner to assignee.
// Either user may be nil.
func (f *Fixture) Task(project *models.Project, assigner, assignee *models.User, title string) *models.Task {
	f.t.Helper()
	task := &models.Task{
		ProjectID: project.ID,
		Title:     title,
		Priority:  models.TaskPriorityMedium,
		Status:    models.TaskStatusTodo,
	}
	task.TenantID = project.TenantID
	if assigner != nil {
		task.AssignedByID = &assigner.ID
	}
	if assignee != nil {
		task.AssignedToID = &assignee.ID
	}
	f.create(task)
	return task
}

// Invite creates an unused invite for the issuer's tenant expiring after ttl
func (f *Fixture) Invite(issuer *models.User, role models.Role, ttl time.Duration) *models.Invite {
	f.t.Helper()
	invite := &models.Invite{
		Code:        uuid.NewString()[:22],
		Role:        role,
		CreatedByID: issuer.ID,
		ExpiresAt:   time.Now().Add(ttl),
	}
	invite.TenantID = *issuer.TenantID
	f.create(invite)
	return invite
}

// Org is the reference hierarchy of one tenant:
// super_admin <- admin <- manager <- employee, plus a second manager with one
// employee reporting to the same admin.
type Org struct {
	Tenant     *models.Tenant
	SuperAdmin *models.User
	Admin      *models.User
	Manager    *models.User
	Employee   *models.User
	Manager2   *models.User
	Employee2  *models.User
}

// Org builds the reference hierarchy in a new tenant
func (f *Fixture) Org(name string) *Org {
	f.t.Helper()
	o := &Org{Tenant: f.Tenant(name)}
	o.SuperAdmin = f.User(o.Tenant, models.RoleSuperAdmin, nil)
	o.Admin = f.User(o.Tenant, models.RoleAdmin, o.SuperAdmin)
	o.Manager = f.User(o.Tenant, models.RoleManager, o.Admin)
	o.Employee = f.User(o.Tenant, models.RoleEmployee, o.Manager)
	o.Manager2 = f.User(o.Tenant, models.RoleManager, o.Admin)
	o.Employee2 = f.User(o.Tenant, models.RoleEmployee, o.Manager2)
	return o
}
