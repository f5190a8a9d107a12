package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"taskflow-backend/internal/auth"
	"taskflow-backend/internal/database/models"
	apperrors "taskflow-backend/internal/errors"
	"taskflow-backend/internal/metrics"
	"taskflow-backend/internal/repository"
	"taskflow-backend/internal/tenancy"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// SignupService creates accounts outside of an authenticated tenant context:
// tenant genesis and invite redemption.
type SignupService struct {
	store     *repository.Store
	validator *validator.Validate
	now       func() time.Time
}

// NewSignupService creates a new signup service
func NewSignupService(store *repository.Store, validator *validator.Validate) *SignupService {
	return &SignupService{
		store:     store,
		validator: validator,
		now:       time.Now,
	}
}

// TenantSignupRequest represents the data needed to create a tenant and its owner
type TenantSignupRequest struct {
	FirstName   string `json:"first_name" validate:"max=150"`
	LastName    string `json:"last_name" validate:"max=150"`
	Email       string `json:"email" validate:"required,email,max=255"`
	Password    string `json:"password" validate:"required,min=8,max=128"`
	CompanyName string `json:"company_name" validate:"required,min=1,max=255"`
}

// InviteSignupRequest represents the data needed to join a tenant with an invite
type InviteSignupRequest struct {
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
	Code      string `json:"code" validate:"required,max=64"`
}

// SignupResponse is returned by both signup entry points
type SignupResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// CreateTenantAndOwner creates a super_admin, a free tenant owned by them
// and binds the user to it, all in one transaction.
func (s *SignupService) CreateTenantAndOwner(ctx context.Context, req *TenantSignupRequest) (*SignupResponse, error) {
	if err := validateStruct(s.validator, req); err != nil {
		return nil, err
	}
	email := models.NormalizeEmail(req.Email)
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	var (
		user   *models.User
		tenant *models.Tenant
	)
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if exists, err := tx.Users.EmailExists(ctx, email); err != nil {
			return err
		} else if exists {
			return apperrors.ErrUserExists
		}

		user = &models.User{
			FirstName:    strings.TrimSpace(req.FirstName),
			LastName:     strings.TrimSpace(req.LastName),
			Email:        email,
			PasswordHash: hash,
			Role:         models.RoleSuperAdmin,
			IsActive:     true,
		}
		if err := tx.Users.Create(ctx, user); err != nil {
			return err
		}

		tenant = &models.Tenant{
			Name:    strings.TrimSpace(req.CompanyName),
			Plan:    models.PlanFree,
			OwnerID: idPtr(user.ID),
		}
		if err := tx.Tenants.Create(ctx, tenant); err != nil {
			return err
		}

		if err := tx.Users.AssignTenant(ctx, user.ID, tenant.ID); err != nil {
			return err
		}
		user.TenantID = idPtr(tenant.ID)
		return nil
	})
	if err != nil {
		if isDuplicate(err) {
			return nil, apperrors.ErrUserExists
		}
		return nil, err
	}

	return &SignupResponse{
		Message: "Super admin and tenant created successfully.",
		User:    toUserResponse(user, tenant),
	}, nil
}

// RedeemInvite creates a user in the invite's tenant. Role and reporting
// line come from the invite. Of any number of concurrent redemptions of the
// same code exactly one succeeds.
func (s *SignupService) RedeemInvite(ctx context.Context, req *InviteSignupRequest) (*SignupResponse, error) {
	if err := validateStruct(s.validator, req); err != nil {
		return nil, err
	}
	email := models.NormalizeEmail(req.Email)
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	var (
		user   *models.User
		tenant *models.Tenant
	)
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		invite, err := tx.Invites.GetByCode(ctx, strings.TrimSpace(req.Code))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrInviteNotFound
			}
			return err
		}
		if invite.IsUsed {
			return apperrors.ErrInviteAlreadyUsed
		}
		if invite.Expired(s.now()) {
			return apperrors.ErrInviteExpired
		}

		// Claim before touching users so a losing racer never reaches the
		// email unique index.
		claimed, err := tx.Invites.Claim(ctx, invite.ID)
		if err != nil {
			return err
		}
		if !claimed {
			return apperrors.ErrInviteAlreadyUsed
		}

		if exists, err := tx.Users.EmailExists(ctx, email); err != nil {
			return err
		} else if exists {
			return apperrors.ErrUserExists
		}

		tenantCtx := tenancy.WithTenant(ctx, invite.TenantID)
		user = &models.User{
			TenantID:     idPtr(invite.TenantID),
			FirstName:    strings.TrimSpace(req.FirstName),
			LastName:     strings.TrimSpace(req.LastName),
			Email:        email,
			PasswordHash: hash,
			Role:         invite.Role,
			CreatedByID:  idPtr(invite.CreatedByID),
			ReportsToID:  idPtr(invite.CreatedByID),
			IsActive:     true,
		}
		if err := tx.Users.Create(tenantCtx, user); err != nil {
			return err
		}

		if err := tx.Invites.SetUsedBy(tenantCtx, invite.ID, user.ID); err != nil {
			return err
		}

		tenant, err = tx.Tenants.GetByID(ctx, invite.TenantID)
		return err
	})
	metrics.InviteRedemptions.WithLabelValues(redemptionOutcome(err)).Inc()
	if err != nil {
		if isDuplicate(err) {
			return nil, apperrors.ErrUserExists
		}
		return nil, err
	}

	return &SignupResponse{
		Message: "User registered successfully via invite.",
		User:    toUserResponse(user, tenant),
	}, nil
}

func redemptionOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, apperrors.ErrInviteNotFound):
		return "invalid_code"
	case errors.Is(err, apperrors.ErrInviteAlreadyUsed):
		return "already_used"
	case errors.Is(err, apperrors.ErrInviteExpired):
		return "expired"
	case apperrors.IsAlreadyExists(err) || isDuplicate(err):
		return "email_taken"
	}
	return "error"
}
