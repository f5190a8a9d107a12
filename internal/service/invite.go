package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"taskflow-backend/internal/database/models"
	apperrors "taskflow-backend/internal/errors"
	"taskflow-backend/internal/rbac"
	"taskflow-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// DefaultInviteTTL is used when no expiry is given and none is configured
const DefaultInviteTTL = 7 * 24 * time.Hour

// InviteService issues invite codes
type InviteService struct {
	store     *repository.Store
	validator *validator.Validate
	ttl       time.Duration
	now       func() time.Time
}

// NewInviteService creates a new invite service. A non-positive ttl selects DefaultInviteTTL.
func NewInviteService(store *repository.Store, validator *validator.Validate, ttl time.Duration) *InviteService {
	if ttl <= 0 {
		ttl = DefaultInviteTTL
	}
	return &InviteService{
		store:     store,
		validator: validator,
		ttl:       ttl,
		now:       time.Now,
	}
}

// IssueInviteRequest represents the data needed to issue an invite
type IssueInviteRequest struct {
	Role      string     `json:"role" validate:"required"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// InviteResponse represents an issued invite
type InviteResponse struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Role        string    `json:"role"`
	TenantID    uuid.UUID `json:"tenant_id"`
	CreatedByID uuid.UUID `json:"created_by"`
	ExpiresAt   string    `json:"expires_at"`
	CreatedAt   string    `json:"created_at"`
}

// IssueInvite creates a single-use code for the caller's tenant that grants req.Role
func (s *InviteService) IssueInvite(ctx context.Context, req *IssueInviteRequest) (*InviteResponse, error) {
	if err := validateStruct(s.validator, req); err != nil {
		return nil, err
	}
	issuer, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	role := models.Role(req.Role)
	if err := rbac.AuthorizeRoleGrant(issuer, rbac.ActionInvite, role).Err(); err != nil {
		return nil, err
	}
	if issuer.TenantID == nil {
		return nil, apperrors.NewInvalidContextError("issue invite")
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	if req.ExpiresAt != nil {
		if !req.ExpiresAt.After(now) {
			return nil, apperrors.NewValidationError("expires_at", "Expiry must be in the future.")
		}
		expiresAt = *req.ExpiresAt
	}

	code, err := newInviteCode()
	if err != nil {
		return nil, err
	}

	invite := &models.Invite{
		Code:        code,
		Role:        role,
		CreatedByID: issuer.ID,
		ExpiresAt:   expiresAt,
	}
	invite.TenantID = *issuer.TenantID
	if err := s.store.Invites.Create(ctx, invite); err != nil {
		return nil, err
	}

	return &InviteResponse{
		ID:          invite.ID,
		Code:        invite.Code,
		Role:        string(invite.Role),
		TenantID:    invite.TenantID,
		CreatedByID: invite.CreatedByID,
		ExpiresAt:   formatTime(invite.ExpiresAt),
		CreatedAt:   formatTime(invite.CreatedAt),
	}, nil
}

// newInviteCode returns 128 random bits, URL-safe encoded
func newInviteCode() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate invite code: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
