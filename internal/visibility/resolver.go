// Package visibility computes which rows an effective user may see.
package visibility

import (
	"context"
	"fmt"

	"taskflow-backend/internal/database/models"

	"github.com/google/uuid"
)

//go:generate mockgen -source=resolver.go -destination=../mocks/visibility_mocks.go -package=mocks

// HierarchyReader reads reporting lines inside the tenant bound to ctx
type HierarchyReader interface {
	// DirectReports returns ids of users whose reports_to is in managerIDs,
	// optionally restricted to roles.
	DirectReports(ctx context.Context, managerIDs []uuid.UUID, roles ...models.Role) ([]uuid.UUID, error)
}

// UserFilter restricts user queries. All means every user of the tenant.
type UserFilter struct {
	All bool
	IDs []uuid.UUID
}

// Contains reports whether id passes the filter
func (f UserFilter) Contains(id uuid.UUID) bool {
	if f.All {
		return true
	}
	for _, v := range f.IDs {
		if v == id {
			return true
		}
	}
	return false
}

// Empty reports whether the filter matches nothing
func (f UserFilter) Empty() bool {
	return !f.All && len(f.IDs) == 0
}

// TaskFilter restricts task queries to tasks assigned to AssigneeIDs.
// All also admits unassigned tasks.
type TaskFilter struct {
	All         bool
	AssigneeIDs []uuid.UUID
}

// Empty reports whether the filter matches nothing
func (f TaskFilter) Empty() bool {
	return !f.All && len(f.AssigneeIDs) == 0
}

// ProjectFilter restricts project queries to projects MemberID belongs to
type ProjectFilter struct {
	All      bool
	MemberID uuid.UUID
}

// Resolver derives filters from the effective user and persisted reporting lines
type Resolver struct {
	hierarchy HierarchyReader
}

// NewResolver creates a new visibility resolver
func NewResolver(hierarchy HierarchyReader) *Resolver {
	return &Resolver{hierarchy: hierarchy}
}

// Users returns the user filter for u
func (r *Resolver) Users(ctx context.Context, u *models.User) (UserFilter, error) {
	switch u.Role {
	case models.RoleSuperAdmin:
		return UserFilter{All: true}, nil
	case models.RoleAdmin:
		first, err := r.hierarchy.DirectReports(ctx, []uuid.UUID{u.ID})
		if err != nil {
			return UserFilter{}, fmt.Errorf("failed to load direct reports: %w", err)
		}
		ids := []uuid.UUID{u.ID}
		ids = append(ids, first...)
		if len(first) > 0 {
			second, err := r.hierarchy.DirectReports(ctx, first)
			if err != nil {
				return UserFilter{}, fmt.Errorf("failed to load indirect reports: %w", err)
			}
			ids = append(ids, second...)
		}
		return UserFilter{IDs: dedupe(ids)}, nil
	case models.RoleManager:
		reports, err := r.hierarchy.DirectReports(ctx, []uuid.UUID{u.ID}, models.RoleEmployee)
		if err != nil {
			return UserFilter{}, fmt.Errorf("failed to load direct reports: %w", err)
		}
		return UserFilter{IDs: dedupe(append([]uuid.UUID{u.ID}, reports...))}, nil
	case models.RoleEmployee:
		return UserFilter{IDs: []uuid.UUID{u.ID}}, nil
	}
	return UserFilter{}, nil
}

// Tasks returns the task filter for u
func (r *Resolver) Tasks(ctx context.Context, u *models.User) (TaskFilter, error) {
	users, err := r.Users(ctx, u)
	if err != nil {
		return TaskFilter{}, err
	}
	return TaskFilter{All: users.All, AssigneeIDs: users.IDs}, nil
}

// Projects returns the project filter for u
func (r *Resolver) Projects(u *models.User) ProjectFilter {
	if u.Role == models.RoleSuperAdmin {
		return ProjectFilter{All: true}
	}
	return ProjectFilter{MemberID: u.ID}
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
