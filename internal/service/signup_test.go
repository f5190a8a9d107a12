package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"taskflow-backend/internal/database/models"
	apperrors "taskflow-backend/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTenantAndOwner(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	resp, err := h.signup.CreateTenantAndOwner(ctx, &TenantSignupRequest{
		FirstName:   "Alice",
		Email:       "alice@Acme.TEST",
		Password:    "password123",
		CompanyName: "Acme",
	})
	require.NoError(t, err)
	assert.Equal(t, "Super admin and tenant created successfully.", resp.Message)
	assert.Equal(t, "super_admin", resp.User.Role)
	assert.Equal(t, "alice@acme.test", resp.User.Email)
	require.NotNil(t, resp.User.Tenant)
	assert.Equal(t, "Acme", resp.User.Tenant.Name)
	assert.Equal(t, "free", resp.User.Tenant.Plan)

	var tenant models.Tenant
	require.NoError(t, h.db.First(&tenant, "id = ?", resp.User.Tenant.ID).Error)
	require.NotNil(t, tenant.OwnerID)
	assert.Equal(t, resp.User.ID, *tenant.OwnerID)

	var alice models.User
	require.NoError(t, h.db.First(&alice, "id = ?", resp.User.ID).Error)
	assert.True(t, alice.InTenant(tenant.ID))
	assert.Nil(t, alice.ReportsToID)

	t.Run("email taken", func(t *testing.T) {
		_, err := h.signup.CreateTenantAndOwner(ctx, &TenantSignupRequest{
			Email: "alice@acme.test", Password: "password123", CompanyName: "Acme Two",
		})
		assert.ErrorIs(t, err, apperrors.ErrUserExists)

		var tenants int64
		require.NoError(t, h.db.Model(&models.Tenant{}).Count(&tenants).Error)
		assert.Equal(t, int64(1), tenants)
	})

	t.Run("company name required", func(t *testing.T) {
		_, err := h.signup.CreateTenantAndOwner(ctx, &TenantSignupRequest{
			Email: "bob@acme.test", Password: "password123",
		})
		var verr *apperrors.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "company_name", verr.Field)
	})
}

func TestRedeemInvite(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	owner, err := h.signup.CreateTenantAndOwner(ctx, &TenantSignupRequest{
		FirstName: "Alice", Email: "alice@acme.test", Password: "password123", CompanyName: "Acme",
	})
	require.NoError(t, err)
	alice := &models.User{}
	require.NoError(t, h.db.First(alice, "id = ?", owner.User.ID).Error)

	invite, err := h.invites.IssueInvite(as(alice), &IssueInviteRequest{Role: "manager"})
	require.NoError(t, err)

	resp, err := h.signup.RedeemInvite(ctx, &InviteSignupRequest{
		FirstName: "Bob",
		Email:     "bob@acme.test",
		Password:  "password123",
		Code:      invite.Code,
	})
	require.NoError(t, err)
	assert.Equal(t, "User registered successfully via invite.", resp.Message)

	var bob models.User
	require.NoError(t, h.db.First(&bob, "id = ?", resp.User.ID).Error)
	assert.Equal(t, models.RoleManager, bob.Role)
	assert.True(t, bob.InTenant(*alice.TenantID))
	assert.True(t, bob.ReportsTo(alice.ID))
	require.NotNil(t, bob.CreatedByID)
	assert.Equal(t, alice.ID, *bob.CreatedByID)

	var stored models.Invite
	require.NoError(t, h.db.First(&stored, "id = ?", invite.ID).Error)
	assert.True(t, stored.IsUsed)
	require.NotNil(t, stored.UsedByID)
	assert.Equal(t, bob.ID, *stored.UsedByID)

	t.Run("second redemption", func(t *testing.T) {
		_, err := h.signup.RedeemInvite(ctx, &InviteSignupRequest{
			Email: "carol@acme.test", Password: "password123", Code: invite.Code,
		})
		assert.ErrorIs(t, err, apperrors.ErrInviteAlreadyUsed)
	})

	t.Run("unknown code", func(t *testing.T) {
		_, err := h.signup.RedeemInvite(ctx, &InviteSignupRequest{
			Email: "dan@acme.test", Password: "password123", Code: "does-not-exist",
		})
		assert.ErrorIs(t, err, apperrors.ErrInviteNotFound)
	})

	t.Run("email taken leaves invite unused", func(t *testing.T) {
		fresh, err := h.invites.IssueInvite(as(alice), &IssueInviteRequest{Role: "employee"})
		require.NoError(t, err)

		_, err = h.signup.RedeemInvite(ctx, &InviteSignupRequest{
			Email: "bob@acme.test", Password: "password123", Code: fresh.Code,
		})
		assert.ErrorIs(t, err, apperrors.ErrUserExists)

		var inv models.Invite
		require.NoError(t, h.db.First(&inv, "id = ?", fresh.ID).Error)
		assert.False(t, inv.IsUsed)
	})
}

func TestRedeemExpiredInvite(t *testing.T) {
	h := newHarness(t)
	org := h.fixture.Org("Acme")
	invite := h.fixture.Invite(org.Admin, models.RoleEmployee, -time.Hour)

	_, err := h.signup.RedeemInvite(context.Background(), &InviteSignupRequest{
		Email: "late@acme.test", Password: "password123", Code: invite.Code,
	})
	assert.ErrorIs(t, err, apperrors.ErrInviteExpired)
	assert.True(t, apperrors.IsValidation(err))

	var users int64
	require.NoError(t, h.db.Model(&models.User{}).Where("email = ?", "late@acme.test").Count(&users).Error)
	assert.Zero(t, users)

	var stored models.Invite
	require.NoError(t, h.db.First(&stored, "id = ?", invite.ID).Error)
	assert.False(t, stored.IsUsed)
	assert.Nil(t, stored.UsedByID)
}

func TestConcurrentRedemption(t *testing.T) {
	h := newHarness(t)
	org := h.fixture.Org("Acme")
	invite := h.fixture.Invite(org.Manager, models.RoleEmployee, time.Hour)

	const attempts = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
		used    int
		other   []error
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := h.signup.RedeemInvite(context.Background(), &InviteSignupRequest{
				Email:    fmt.Sprintf("racer%d@acme.test", i),
				Password: "password123",
				Code:     invite.Code,
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				success++
			case errors.Is(err, apperrors.ErrInviteAlreadyUsed):
				used++
			default:
				other = append(other, err)
			}
		}(i)
	}
	wg.Wait()

	assert.Empty(t, other)
	assert.Equal(t, 1, success)
	assert.Equal(t, attempts-1, used)

	var joined int64
	require.NoError(t, h.db.Model(&models.User{}).Where("email LIKE ?", "racer%").Count(&joined).Error)
	assert.Equal(t, int64(1), joined)
}

func TestRedemptionOutcome(t *testing.T) {
	assert.Equal(t, "success", redemptionOutcome(nil))
	assert.Equal(t, "invalid_code", redemptionOutcome(apperrors.ErrInviteNotFound))
	assert.Equal(t, "already_used", redemptionOutcome(apperrors.ErrInviteAlreadyUsed))
	assert.Equal(t, "expired", redemptionOutcome(apperrors.ErrInviteExpired))
	assert.Equal(t, "email_taken", redemptionOutcome(apperrors.ErrUserExists))
	assert.Equal(t, "error", redemptionOutcome(fmt.Errorf("boom")))
}
