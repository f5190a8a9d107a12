package service

import (
	"context"
	"testing"
	"time"

	"taskflow-backend/internal/database/models"
	apperrors "taskflow-backend/internal/errors"
	"taskflow-backend/internal/rbac"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueInviteRoleGrants(t *testing.T) {
	h := newHarness(t)
	org := h.fixture.Org("Acme")

	tests := []struct {
		name    string
		issuer  *models.User
		role    models.Role
		reason  string
		message string
	}{
		{name: "super admin invites admin", issuer: org.SuperAdmin, role: models.RoleAdmin},
		{name: "admin invites manager", issuer: org.Admin, role: models.RoleManager},
		{name: "admin invites employee", issuer: org.Admin, role: models.RoleEmployee},
		{name: "manager invites employee", issuer: org.Manager, role: models.RoleEmployee},
		{
			name: "manager invites admin", issuer: org.Manager, role: models.RoleAdmin,
			reason: rbac.ReasonRoleNotAssignable, message: "Manager can only invite Employee.",
		},
		{
			name: "admin invites admin", issuer: org.Admin, role: models.RoleAdmin,
			reason: rbac.ReasonRoleNotAssignable, message: "Admin can only invite Manager or Employee.",
		},
		{
			name: "super admin invites super admin", issuer: org.SuperAdmin, role: models.RoleSuperAdmin,
			reason: rbac.ReasonRoleNotAssignable, message: "Super Admin can invite Admin, Manager, or Employee.",
		},
		{
			name: "employee invites employee", issuer: org.Employee, role: models.RoleEmployee,
			reason: rbac.ReasonRoleNotAssignable, message: "Employees cannot generate invites.",
		},
		{
			name: "unknown role", issuer: org.SuperAdmin, role: models.Role("owner"),
			reason: rbac.ReasonInvalidRole,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := h.invites.IssueInvite(as(tt.issuer), &IssueInviteRequest{Role: string(tt.role)})
			if tt.reason == "" {
				require.NoError(t, err)
				assert.Equal(t, string(tt.role), resp.Role)
				assert.Equal(t, *tt.issuer.TenantID, resp.TenantID)
				assert.Equal(t, tt.issuer.ID, resp.CreatedByID)
				return
			}

			var verr *apperrors.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "role", verr.Field)
			assert.Equal(t, tt.reason, verr.Reason)
			if tt.message != "" {
				assert.Equal(t, tt.message, verr.Message)
			}
			assert.Nil(t, resp)
		})
	}

	var stored int64
	require.NoError(t, h.db.Model(&models.Invite{}).Count(&stored).Error)
	assert.Equal(t, int64(4), stored)
}

func TestIssueInviteUsesEffectiveUser(t *testing.T) {
	h := newHarness(t)
	org := h.fixture.Org("Acme")

	_, err := h.invites.IssueInvite(viewingAs(org.Admin, org.Manager), &IssueInviteRequest{Role: "manager"})
	assert.Equal(t, rbac.ReasonRoleNotAssignable, apperrors.ReasonOf(err))
}

func TestIssueInviteExpiry(t *testing.T) {
	h := newHarness(t)
	org := h.fixture.Org("Acme")
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	h.invites.now = func() time.Time { return now }

	t.Run("defaults to seven days", func(t *testing.T) {
		resp, err := h.invites.IssueInvite(as(org.Admin), &IssueInviteRequest{Role: "employee"})
		require.NoError(t, err)
		assert.Equal(t, "2026-03-08T12:00:00Z", resp.ExpiresAt)
	})

	t.Run("explicit expiry", func(t *testing.T) {
		at := now.Add(48 * time.Hour)
		resp, err := h.invites.IssueInvite(as(org.Admin), &IssueInviteRequest{Role: "employee", ExpiresAt: &at})
		require.NoError(t, err)
		assert.Equal(t, "2026-03-03T12:00:00Z", resp.ExpiresAt)
	})

	t.Run("past expiry rejected", func(t *testing.T) {
		at := now.Add(-time.Minute)
		_, err := h.invites.IssueInvite(as(org.Admin), &IssueInviteRequest{Role: "employee", ExpiresAt: &at})
		var verr *apperrors.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "expires_at", verr.Field)
	})

	t.Run("configured ttl", func(t *testing.T) {
		svc := NewInviteService(h.store, NewValidator(), 24*time.Hour)
		svc.now = h.invites.now
		resp, err := svc.IssueInvite(as(org.Admin), &IssueInviteRequest{Role: "employee"})
		require.NoError(t, err)
		assert.Equal(t, "2026-03-02T12:00:00Z", resp.ExpiresAt)
	})
}

func TestInviteCodes(t *testing.T) {
	h := newHarness(t)
	org := h.fixture.Org("Acme")

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		resp, err := h.invites.IssueInvite(as(org.SuperAdmin), &IssueInviteRequest{Role: "employee"})
		require.NoError(t, err)
		assert.Len(t, resp.Code, 22)
		assert.NotContains(t, resp.Code, "=")
		assert.False(t, seen[resp.Code], "duplicate code %s", resp.Code)
		seen[resp.Code] = true
	}
}

func TestIssueInviteWithoutUser(t *testing.T) {
	h := newHarness(t)
	_, err := h.invites.IssueInvite(context.Background(), &IssueInviteRequest{Role: "employee"})
	assert.ErrorIs(t, err, apperrors.ErrMissingPrincipal)
}
