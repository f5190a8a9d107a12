// Package tenancy carries the per-request tenant and effective user.
package tenancy

import (
	"context"

	"taskflow-backend/internal/database/models"

	"github.com/google/uuid"
)

// Scope is the request-scoped tenant context. TenantID is nil for
// anonymous requests.
type Scope struct {
	TenantID      *uuid.UUID
	Principal     *models.User
	EffectiveUser *models.User
}

// Impersonating reports whether the effective user differs from the principal
func (s *Scope) Impersonating() bool {
	return s.Principal != nil && s.EffectiveUser != nil && s.Principal.ID != s.EffectiveUser.ID
}

type scopeKey struct{}

// WithScope returns a child context carrying s
func WithScope(ctx context.Context, s *Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, s)
}

// WithTenant returns a child context bound to tenantID with no user, for
// system work such as seeding and signup.
func WithTenant(ctx context.Context, tenantID uuid.UUID) context.Context {
	id := tenantID
	return WithScope(ctx, &Scope{TenantID: &id})
}

// FromContext returns the scope installed on ctx
func FromContext(ctx context.Context) (*Scope, bool) {
	s, ok := ctx.Value(scopeKey{}).(*Scope)
	return s, ok && s != nil
}

// TenantID returns the tenant bound to ctx
func TenantID(ctx context.Context) (uuid.UUID, bool) {
	s, ok := FromContext(ctx)
	if !ok || s.TenantID == nil {
		return uuid.Nil, false
	}
	return *s.TenantID, true
}

// EffectiveUser returns the user whose permissions apply to ctx
func EffectiveUser(ctx context.Context) (*models.User, bool) {
	s, ok := FromContext(ctx)
	if !ok || s.EffectiveUser == nil {
		return nil, false
	}
	return s.EffectiveUser, true
}

// Principal returns the authenticated user behind ctx
func Principal(ctx context.Context) (*models.User, bool) {
	s, ok := FromContext(ctx)
	if !ok || s.Principal == nil {
		return nil, false
	}
	return s.Principal, true
}
