package tenancy

import (
	"context"
	"strings"

	"taskflow-backend/internal/database/models"
	apperrors "taskflow-backend/internal/errors"
	"taskflow-backend/internal/rbac"

	"github.com/google/uuid"
)

//go:generate mockgen -source=resolve.go -destination=../mocks/tenancy_mocks.go -package=mocks

// ViewAsHeader is the request header naming the user to act as
const ViewAsHeader = "X-View-As-User"

// UserLookup loads a user by id without tenant scoping
type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Outcome describes what happened to a view-as request
type Outcome string

const (
	OutcomeNone     Outcome = "none"
	OutcomeAccepted Outcome = "accepted"
	OutcomeRejected Outcome = "rejected"
)

// Resolve builds the scope for principal. A view-as target is honoured only
// when it exists in the principal's tenant and ranks strictly below the
// principal; anything else falls back to the principal without an error.
func Resolve(ctx context.Context, lookup UserLookup, principal *models.User, viewAs string) (*Scope, Outcome) {
	scope := &Scope{
		TenantID:      principal.TenantID,
		Principal:     principal,
		EffectiveUser: principal,
	}

	viewAs = strings.TrimSpace(viewAs)
	if viewAs == "" {
		return scope, OutcomeNone
	}
	if principal.TenantID == nil {
		return scope, OutcomeRejected
	}

	targetID, err := uuid.Parse(viewAs)
	if err != nil || targetID == principal.ID {
		return scope, OutcomeRejected
	}

	target, err := lookup.GetByID(ctx, targetID)
	if err != nil || target == nil {
		return scope, OutcomeRejected
	}
	if !target.InTenant(*principal.TenantID) || !rbac.CanManage(principal.Role, target.Role) {
		return scope, OutcomeRejected
	}

	scope.EffectiveUser = target
	return scope, OutcomeAccepted
}

// AttachTenant binds entity to the tenant in ctx before it is persisted.
// An entity already pointing at another tenant is rejected.
func AttachTenant(ctx context.Context, entity models.TenantOwned) error {
	tenantID, ok := TenantID(ctx)
	if !ok {
		return apperrors.NewInvalidContextError("create")
	}
	switch current := entity.GetTenantID(); current {
	case uuid.Nil:
		entity.SetTenantID(tenantID)
	case tenantID:
	default:
		return apperrors.NewRuleValidationError("tenant", rbac.ReasonCrossTenant, "Entity belongs to another tenant.")
	}
	return nil
}
