package rbac

import (
	"testing"

	"taskflow-backend/internal/database/models"
	apperrors "taskflow-backend/internal/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type hierarchy struct {
	tenant   uuid.UUID
	super    *models.User
	admin    *models.User
	manager  *models.User
	employee *models.User
	other    *models.User // employee of another manager
	stranger *models.User // admin of another tenant
}

func newUser(tenant uuid.UUID, role models.Role, reportsTo *models.User) *models.User {
	u := &models.User{Role: role, TenantID: &tenant}
	u.ID = uuid.New()
	if reportsTo != nil {
		id := reportsTo.ID
		u.ReportsToID = &id
		u.CreatedByID = &id
	}
	return u
}

func newHierarchy() *hierarchy {
	h := &hierarchy{tenant: uuid.New()}
	h.super = newUser(h.tenant, models.RoleSuperAdmin, nil)
	h.admin = newUser(h.tenant, models.RoleAdmin, h.super)
	h.manager = newUser(h.tenant, models.RoleManager, h.admin)
	h.employee = newUser(h.tenant, models.RoleEmployee, h.manager)
	otherManager := newUser(h.tenant, models.RoleManager, h.admin)
	h.other = newUser(h.tenant, models.RoleEmployee, otherManager)
	h.stranger = newUser(uuid.New(), models.RoleAdmin, nil)
	return h
}

func TestAuthorizeRoleGrant(t *testing.T) {
	h := newHierarchy()
	tests := []struct {
		name    string
		actor   *models.User
		action  Action
		role    models.Role
		allowed bool
		message string
	}{
		{"super admin invites admin", h.super, ActionInvite, models.RoleAdmin, true, ""},
		{"super admin cannot invite super admin", h.super, ActionInvite, models.RoleSuperAdmin, false, "Super Admin can invite Admin, Manager, or Employee."},
		{"admin creates manager", h.admin, ActionCreateUser, models.RoleManager, true, ""},
		{"admin cannot create admin", h.admin, ActionCreateUser, models.RoleAdmin, false, "Admin can only create Manager or Employee."},
		{"manager invites employee", h.manager, ActionInvite, models.RoleEmployee, true, ""},
		{"manager cannot invite admin", h.manager, ActionInvite, models.RoleAdmin, false, "Manager can only invite Employee."},
		{"employee cannot invite", h.employee, ActionInvite, models.RoleEmployee, false, "Employees cannot generate invites."},
		{"employee cannot create", h.employee, ActionCreateUser, models.RoleEmployee, false, "Employees cannot create users."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := AuthorizeRoleGrant(tt.actor, tt.action, tt.role)
			assert.Equal(t, tt.allowed, d.Allowed)
			if !tt.allowed {
				assert.Equal(t, ReasonRoleNotAssignable, d.Reason)
				assert.Equal(t, tt.message, d.Message)
				assert.True(t, apperrors.IsValidation(d.Err()))
			} else {
				assert.NoError(t, d.Err())
			}
		})
	}

	t.Run("invalid role", func(t *testing.T) {
		d := AuthorizeRoleGrant(h.super, ActionInvite, models.Role("owner"))
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonInvalidRole, d.Reason)
	})
}

func TestAuthorizeTaskAssignment(t *testing.T) {
	h := newHierarchy()
	tests := []struct {
		name     string
		actor    *models.User
		assignee *models.User
		allowed  bool
		reason   string
	}{
		{"super admin assigns anyone", h.super, h.other, true, ""},
		{"admin assigns direct report", h.admin, h.manager, true, ""},
		{"admin cannot assign second hop", h.admin, h.employee, false, ReasonNotInHierarchy},
		{"manager assigns own employee", h.manager, h.employee, true, ""},
		{"manager cannot assign other team", h.manager, h.other, false, ReasonNotInHierarchy},
		{"employee assigns self", h.employee, h.employee, true, ""},
		{"employee cannot assign colleague", h.employee, h.other, false, ReasonEmployeeSelfOnly},
		{"cross tenant rejected first", h.super, h.stranger, false, ReasonCrossTenant},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := AuthorizeTaskAssignment(tt.actor, tt.assignee)
			assert.Equal(t, tt.allowed, d.Allowed)
			assert.Equal(t, tt.reason, d.Reason)
			if !tt.allowed {
				assert.Equal(t, "assigned_to", d.Field)
			}
		})
	}

	t.Run("manager cannot assign a manager reporting to them", func(t *testing.T) {
		sub := newUser(h.tenant, models.RoleManager, h.manager)
		assert.False(t, AuthorizeTaskAssignment(h.manager, sub).Allowed)
	})
}

func TestAuthorizeMembership(t *testing.T) {
	h := newHierarchy()
	tests := []struct {
		name    string
		actor   *models.User
		member  *models.User
		allowed bool
		reason  string
	}{
		{"super admin adds admin", h.super, h.admin, true, ""},
		{"admin adds manager", h.admin, h.manager, true, ""},
		{"admin adds any employee", h.admin, h.other, true, ""},
		{"admin cannot add admin", h.admin, newUser(h.tenant, models.RoleAdmin, h.super), false, ReasonTargetRoleNotAllowed},
		{"manager adds own employee", h.manager, h.employee, true, ""},
		{"manager cannot add foreign employee", h.manager, h.other, false, ReasonNotInHierarchy},
		{"employee cannot add", h.employee, h.employee, false, ReasonInsufficientRole},
		{"cross tenant", h.super, h.stranger, false, ReasonCrossTenant},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := AuthorizeMembership(tt.actor, tt.member, ActionAddMember, models.ProjectRoleEmployee)
			assert.Equal(t, tt.allowed, d.Allowed)
			assert.Equal(t, tt.reason, d.Reason)
			if !tt.allowed && tt.reason != "" {
				assert.True(t, apperrors.IsAuthorization(d.Err()))
			}
		})
	}

	t.Run("remove wording", func(t *testing.T) {
		d := AuthorizeMembership(h.manager, h.other, ActionRemoveMember, models.ProjectRoleEmployee)
		assert.Equal(t, "Managers can only remove employees who report to them.", d.Message)
	})

	t.Run("invalid project role", func(t *testing.T) {
		d := AuthorizeMembership(h.super, h.admin, ActionAddMember, models.ProjectRole("owner"))
		assert.False(t, d.Allowed)
		assert.True(t, apperrors.IsValidation(d.Err()))
	})
}

func TestAuthorizeObject(t *testing.T) {
	h := newHierarchy()

	managerTask := &models.Task{AssignedByID: &h.manager.ID, AssignedToID: &h.employee.ID}
	managerTask.TenantID = h.tenant
	otherTask := &models.Task{AssignedByID: &h.other.ID, AssignedToID: &h.other.ID}
	otherTask.TenantID = h.tenant

	project := &models.Project{CreatedByID: &h.employee.ID}
	project.TenantID = h.tenant

	membership := &models.ProjectMember{UserID: h.employee.ID}
	membership.TenantID = h.tenant

	tests := []struct {
		name    string
		actor   *models.User
		object  Object
		allowed bool
		reason  string
	}{
		{"super admin on anything", h.super, UserObject(h.other), true, ""},
		{"admin on manager", h.admin, UserObject(h.manager), true, ""},
		{"admin on super admin", h.admin, UserObject(h.super), false, ReasonSuperAdminProtected},
		{"manager on own report", h.manager, UserObject(h.employee), true, ""},
		{"manager on self", h.manager, UserObject(h.manager), true, ""},
		{"manager on other team", h.manager, UserObject(h.other), false, ReasonNotInHierarchy},
		{"manager on own task", h.manager, TaskObject(managerTask, h.manager, h.employee), true, ""},
		{"manager on foreign task", h.manager, TaskObject(otherTask, h.other, h.other), false, ReasonNotInHierarchy},
		{"manager on project created by report", h.manager, ProjectObject(project, h.employee), true, ""},
		{"manager on report membership", h.manager, MemberObject(membership, h.employee), true, ""},
		{"employee on assigned task", h.employee, TaskObject(managerTask, h.manager, h.employee), true, ""},
		{"employee on foreign task", h.employee, TaskObject(otherTask, h.other, h.other), false, ReasonNotOwner},
		{"employee on self", h.employee, UserObject(h.employee), true, ""},
		{"employee on manager", h.employee, UserObject(h.manager), false, ReasonNotOwner},
		{"cross tenant", h.stranger, UserObject(h.employee), false, ReasonCrossTenant},
		{"empty object", h.super, Object{Kind: ObjectTask}, false, ReasonUnsupportedTargetKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := AuthorizeObject(tt.actor, tt.object)
			assert.Equal(t, tt.allowed, d.Allowed)
			assert.Equal(t, tt.reason, d.Reason)
		})
	}
}

func TestAuthorizeDispatch(t *testing.T) {
	h := newHierarchy()

	assert.True(t, Authorize(h.manager, ActionInvite, Target{Role: models.RoleEmployee}).Allowed)
	assert.False(t, Authorize(h.manager, ActionAssignTask, Target{User: h.other}).Allowed)
	assert.True(t, Authorize(h.admin, ActionAddMember, Target{User: h.manager, ProjectRole: models.ProjectRoleManager}).Allowed)
	assert.True(t, Authorize(h.employee, ActionAccessObject, Target{Object: UserObject(h.employee)}).Allowed)

	d := Authorize(h.super, Action("launch"), Target{})
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonUnsupportedTargetKind, d.Reason)

	d = Authorize(h.super, ActionAssignTask, Target{})
	assert.False(t, d.Allowed)
}
