package service

import (
	"testing"

	"taskflow-backend/internal/database/models"
	apperrors "taskflow-backend/internal/errors"
	"taskflow-backend/internal/rbac"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListUsersVisibility(t *testing.T) {
	h := newHarness(t)
	org := h.fixture.Org("Acme")
	other := h.fixture.Org("Globex")

	everyone := []uuid.UUID{org.SuperAdmin.ID, org.Admin.ID, org.Manager.ID, org.Employee.ID, org.Manager2.ID, org.Employee2.ID}

	tests := []struct {
		name string
		user *models.User
		want []uuid.UUID
	}{
		{name: "super admin sees the tenant", user: org.SuperAdmin, want: everyone},
		{
			name: "admin sees two levels down",
			user: org.Admin,
			want: []uuid.UUID{org.Admin.ID, org.Manager.ID, org.Employee.ID, org.Manager2.ID, org.Employee2.ID},
		},
		{name: "manager sees own employees", user: org.Manager, want: []uuid.UUID{org.Manager.ID, org.Employee.ID}},
		{name: "employee sees self", user: org.Employee, want: []uuid.UUID{org.Employee.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, err := h.users.ListUsers(as(tt.user), "")
			require.NoError(t, err)
			got := userIDs(users)
			assert.ElementsMatch(t, tt.want, got)
			for _, id := range []uuid.UUID{other.SuperAdmin.ID, other.Employee.ID} {
				assert.NotContains(t, got, id)
			}
		})
	}
}

func TestListUsersMonotonic(t *testing.T) {
	h := newHarness(t)
	org := h.fixture.Org("Acme")

	chain := []*models.User{org.SuperAdmin, org.Admin, org.Manager, org.Employee}
	var previous []uuid.UUID
	for _, u := range chain {
		users, err := h.users.ListUsers(as(u), "")
		require.NoError(t, err)
		current := userIDs(users)
		if previous != nil {
			assert.Subset(t, previous, current, "%s sees more than its superior", u.Role)
		}
		previous = current
	}
}

func TestListUsersRoleFilter(t *testing.T) {
	h := newHarness(t)
	org := h.fixture.Org("Acme")

	users, err := h.users.ListUsers(as(org.Admin), "employee")
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{org.Employee.ID, org.Employee2.ID}, userIDs(users))

	_, err = h.users.ListUsers(as(org.Admin), "owner")
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "role", verr.Field)
}

func TestGetUser(t *testing.T) {
	h := newHarness(t)
	org := h.fixture.Org("Acme")
	other := h.fixture.Org("Globex")

	got, err := h.users.GetUser(as(org.Manager), org.Employee.ID)
	require.NoError(t, err)
	assert.Equal(t, org.Employee.Email, got.Email)

	_, err = h.users.GetUser(as(org.Manager), org.Employee2.ID)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	_, err = h.users.GetUser(as(org.SuperAdmin), other.Employee.ID)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestCreateUser(t *testing.T) {
	h := newHarness(t)
	org := h.fixture.Org("Acme")

	t.Run("manager creates employee", func(t *testing.T) {
		resp, err := h.users.CreateUser(as(org.Manager), &CreateUserRequest{
			FirstName: "Eve", Email: "eve@acme.test", Password: "password123", Role: "employee",
		})
		require.NoError(t, err)
		assert.Equal(t, "employee", resp.Role)
		require.NotNil(t, resp.ReportsTo)
		assert.Equal(t, org.Manager.ID, *resp.ReportsTo)
		assert.Equal(t, org.Tenant.ID, *resp.TenantID)

		visible, err := h.users.ListUsers(as(org.Manager), "")
		require.NoError(t, err)
		assert.Contains(t, userIDs(visible), resp.ID)
	})

	t.Run("manager creates admin", func(t *testing.T) {
		_, err := h.users.CreateUser(as(org.Manager), &CreateUserRequest{
			Email: "boss@acme.test", Password: "password123", Role: "admin",
		})
		var verr *apperrors.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, rbac.ReasonRoleNotAssignable, verr.Reason)
		assert.Equal(t, "Manager can only create Employee.", verr.Message)
	})

	t.Run("impersonated admin is limited to the effective role", func(t *testing.T) {
		_, err := h.users.CreateUser(viewingAs(org.Admin, org.Manager), &CreateUserRequest{
			Email: "mgr@acme.test", Password: "password123", Role: "manager",
		})
		assert.Equal(t, rbac.ReasonRoleNotAssignable, apperrors.ReasonOf(err))
	})

	t.Run("email taken", func(t *testing.T) {
		_, err := h.users.CreateUser(as(org.Admin), &CreateUserRequest{
			Email: org.Employee.Email, Password: "password123", Role: "employee",
		})
		assert.ErrorIs(t, err, apperrors.ErrUserExists)
	})

	t.Run("short password", func(t *testing.T) {
		_, err := h.users.CreateUser(as(org.Admin), &CreateUserRequest{
			Email: "short@acme.test", Password: "abc", Role: "employee",
		})
		var verr *apperrors.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "password", verr.Field)
	})
}

func TestMe(t *testing.T) {
	h := newHarness(t)
	org := h.fixture.Org("Acme")

	me, err := h.users.Me(as(org.Manager))
	require.NoError(t, err)
	assert.False(t, me.Impersonating)
	assert.Equal(t, org.Manager.ID, me.User.ID)
	require.NotNil(t, me.User.Tenant)
	assert.Equal(t, "Acme", me.User.Tenant.Name)

	me, err = h.users.Me(viewingAs(org.Admin, org.Employee))
	require.NoError(t, err)
	assert.True(t, me.Impersonating)
	assert.Equal(t, org.Admin.ID, me.User.ID)
	assert.Equal(t, org.Employee.ID, me.EffectiveUser.ID)
}

func TestUpdateMe(t *testing.T) {
	h := newHarness(t)
	org := h.fixture.Org("Acme")
	name := "  Grace "

	resp, err := h.users.UpdateMe(viewingAs(org.Admin, org.Employee), &UpdateProfileRequest{FirstName: &name})
	require.NoError(t, err)
	assert.Equal(t, org.Admin.ID, resp.ID)
	assert.Equal(t, "Grace", resp.FirstName)

	assert.Equal(t, "Grace", h.reload(t, org.Admin).FirstName)
	assert.Equal(t, org.Employee.FirstName, h.reload(t, org.Employee).FirstName)
}
