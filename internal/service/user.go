package service

import (
	"context"
	"strings"

	"taskflow-backend/internal/auth"
	"taskflow-backend/internal/database/models"
	apperrors "taskflow-backend/internal/errors"
	"taskflow-backend/internal/rbac"
	"taskflow-backend/internal/repository"
	"taskflow-backend/internal/tenancy"
	"taskflow-backend/internal/visibility"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// UserService handles business logic for users
type UserService struct {
	store     *repository.Store
	resolver  *visibility.Resolver
	validator *validator.Validate
}

// NewUserService creates a new user service
func NewUserService(store *repository.Store, resolver *visibility.Resolver, validator *validator.Validate) *UserService {
	return &UserService{
		store:     store,
		resolver:  resolver,
		validator: validator,
	}
}

// CreateUserRequest represents the data needed to create a user directly
type CreateUserRequest struct {
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
	Role      string `json:"role" validate:"required"`
}

// UpdateProfileRequest represents the editable fields of the caller's profile
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name" validate:"omitempty,max=150"`
}

// TenantResponse represents a tenant embedded in user payloads
type TenantResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Plan      string    `json:"plan"`
	CreatedAt string    `json:"created_at"`
}

// UserResponse represents the response data for a user
type UserResponse struct {
	ID        uuid.UUID       `json:"id"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Email     string          `json:"email"`
	Role      string          `json:"role"`
	Tenant    *TenantResponse `json:"tenant,omitempty"`
	TenantID  *uuid.UUID      `json:"tenant_id,omitempty"`
	ReportsTo *uuid.UUID      `json:"reports_to,omitempty"`
	IsActive  bool            `json:"is_active"`
	CreatedAt string          `json:"created_at"`
}

// UsersListResponse is the swagger schema for GET /accounts/users
type UsersListResponse struct {
	Users []UserResponse `json:"users"`
	Total int            `json:"total"`
}

// MeResponse describes the caller and the user they are acting as
type MeResponse struct {
	User          UserResponse `json:"user"`
	EffectiveUser UserResponse `json:"effective_user"`
	Impersonating bool         `json:"impersonating"`
}

func toTenantResponse(t *models.Tenant) *TenantResponse {
	if t == nil {
		return nil
	}
	return &TenantResponse{
		ID:        t.ID,
		Name:      t.Name,
		Plan:      string(t.Plan),
		CreatedAt: formatTime(t.CreatedAt),
	}
}

func toUserResponse(u *models.User, tenant *models.Tenant) UserResponse {
	return UserResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      string(u.Role),
		Tenant:    toTenantResponse(tenant),
		TenantID:  u.TenantID,
		ReportsTo: u.ReportsToID,
		IsActive:  u.IsActive,
		CreatedAt: formatTime(u.CreatedAt),
	}
}

// CreateUser creates a user in the caller's tenant, reporting to the caller
func (s *UserService) CreateUser(ctx context.Context, req *CreateUserRequest) (*UserResponse, error) {
	if err := validateStruct(s.validator, req); err != nil {
		return nil, err
	}
	requester, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	role := models.Role(req.Role)
	if err := rbac.AuthorizeRoleGrant(requester, rbac.ActionCreateUser, role).Err(); err != nil {
		return nil, err
	}

	email := models.NormalizeEmail(req.Email)
	if exists, err := s.store.Users.EmailExists(ctx, email); err != nil {
		return nil, err
	} else if exists {
		return nil, apperrors.ErrUserExists
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		TenantID:     requester.TenantID,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedByID:  idPtr(requester.ID),
		ReportsToID:  idPtr(requester.ID),
		IsActive:     true,
	}
	if err := s.store.Users.Create(ctx, user); err != nil {
		if isDuplicate(err) {
			return nil, apperrors.ErrUserExists
		}
		return nil, err
	}

	resp := toUserResponse(user, nil)
	return &resp, nil
}

// ListUsers returns the users visible to the caller, optionally by role
func (s *UserService) ListUsers(ctx context.Context, role string) ([]UserResponse, error) {
	requester, err := actor(ctx)
	if err != nil {
		return nil, err
	}

	var roleFilter *models.Role
	if role != "" {
		r := models.Role(role)
		if !r.IsValid() {
			return nil, apperrors.NewValidationError("role", "Select a valid role.")
		}
		roleFilter = &r
	}

	filter, err := s.resolver.Users(ctx, requester)
	if err != nil {
		return nil, err
	}
	users, err := s.store.Users.FindVisible(ctx, filter, roleFilter)
	if err != nil {
		return nil, err
	}

	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i], nil))
	}
	return out, nil
}

// GetUser returns a visible user; invisible users are reported as not found
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	requester, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	filter, err := s.resolver.Users(ctx, requester)
	if err != nil {
		return nil, err
	}
	user, err := s.store.Users.GetVisible(ctx, filter, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrUserNotFound)
	}
	resp := toUserResponse(user, nil)
	return &resp, nil
}

// Me describes the authenticated principal and the effective user
func (s *UserService) Me(ctx context.Context) (*MeResponse, error) {
	scope, ok := tenancy.FromContext(ctx)
	if !ok || scope.Principal == nil {
		return nil, apperrors.ErrMissingPrincipal
	}

	var tenant *models.Tenant
	if scope.TenantID != nil {
		t, err := s.store.Tenants.GetByID(ctx, *scope.TenantID)
		if err != nil {
			return nil, notFound(err, apperrors.ErrTenantNotFound)
		}
		tenant = t
	}

	return &MeResponse{
		User:          toUserResponse(scope.Principal, tenant),
		EffectiveUser: toUserResponse(scope.EffectiveUser, tenant),
		Impersonating: scope.Impersonating(),
	}, nil
}

// UpdateMe edits the authenticated principal's own profile
func (s *UserService) UpdateMe(ctx context.Context, req *UpdateProfileRequest) (*UserResponse, error) {
	if err := validateStruct(s.validator, req); err != nil {
		return nil, err
	}
	principal, ok := tenancy.Principal(ctx)
	if !ok {
		return nil, apperrors.ErrMissingPrincipal
	}

	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*req.LastName)
	}
	if len(updates) > 0 {
		if err := s.store.Users.Update(ctx, principal.ID, updates); err != nil {
			return nil, notFound(err, apperrors.ErrUserNotFound)
		}
	}

	user, err := s.store.Users.GetInTenant(ctx, principal.ID)
	if err != nil {
		return nil, notFound(err, apperrors.ErrUserNotFound)
	}
	resp := toUserResponse(user, nil)
	return &resp, nil
}
