package service

import (
	"context"
	"errors"

	"taskflow-backend/internal/database/models"
	apperrors "taskflow-backend/internal/errors"
	"taskflow-backend/internal/rbac"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AddMemberRequest represents the data needed to add a user to a project
type AddMemberRequest struct {
	ProjectID uuid.UUID `json:"project" validate:"required"`
	UserID    uuid.UUID `json:"user" validate:"required"`
	Role      string    `json:"role"`
}

// ListMembers returns memberships of the projects visible to the caller
func (s *ProjectService) ListMembers(ctx context.Context, projectID *uuid.UUID) ([]ProjectMemberResponse, error) {
	requester, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	members, err := s.store.Members.FindVisible(ctx, s.resolver.Projects(requester), projectID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.UserID)
	}
	users, err := s.store.Users.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]ProjectMemberResponse, 0, len(members))
	for i := range members {
		out = append(out, toMemberResponse(&members[i], users[members[i].UserID]))
	}
	return out, nil
}

// AddMember adds a user to a project of the caller's tenant with a project role
func (s *ProjectService) AddMember(ctx context.Context, req *AddMemberRequest) (*ProjectMemberResponse, error) {
	if err := validateStruct(s.validator, req); err != nil {
		return nil, err
	}
	requester, err := actor(ctx)
	if err != nil {
		return nil, err
	}

	role := models.ProjectRoleEmployee
	if req.Role != "" {
		role = models.ProjectRole(req.Role)
	}

	// The member is looked up across tenants so a foreign user is refused
	// by the guard rather than reported missing.
	member, err := s.store.Users.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, notFound(err, apperrors.ErrUserNotFound)
	}
	if err := rbac.AuthorizeMembership(requester, member, rbac.ActionAddMember, role).Err(); err != nil {
		return nil, err
	}

	project, err := s.store.Projects.GetByID(ctx, req.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewValidationError("project", "Invalid project.")
		}
		return nil, err
	}
	if exists, err := s.store.Members.Exists(ctx, project.ID, member.ID); err != nil {
		return nil, err
	} else if exists {
		return nil, apperrors.ErrProjectMemberExists
	}

	m := &models.ProjectMember{
		ProjectID: project.ID,
		UserID:    member.ID,
		Role:      role,
	}
	if err := s.store.Members.Create(ctx, m); err != nil {
		if isDuplicate(err) {
			return nil, apperrors.ErrProjectMemberExists
		}
		return nil, err
	}
	resp := toMemberResponse(m, member)
	return &resp, nil
}

// RemoveMember removes a membership of a project visible to the caller
func (s *ProjectService) RemoveMember(ctx context.Context, id uuid.UUID) error {
	requester, err := actor(ctx)
	if err != nil {
		return err
	}
	membership, err := s.store.Members.GetByID(ctx, id)
	if err != nil {
		return notFound(err, apperrors.ErrProjectMemberNotFound)
	}
	if _, err := s.store.Projects.GetVisible(ctx, s.resolver.Projects(requester), membership.ProjectID); err != nil {
		return notFound(err, apperrors.ErrProjectMemberNotFound)
	}

	subject, err := s.store.Users.GetInTenant(ctx, membership.UserID)
	if err != nil {
		return notFound(err, apperrors.ErrUserNotFound)
	}
	if err := rbac.AuthorizeMembership(requester, subject, rbac.ActionRemoveMember, membership.Role).Err(); err != nil {
		return err
	}
	return s.store.Members.Delete(ctx, membership.ID)
}
