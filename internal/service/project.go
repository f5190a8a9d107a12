package service

import (
	"context"
	"strings"

	"taskflow-backend/internal/database/models"
	apperrors "taskflow-backend/internal/errors"
	"taskflow-backend/internal/rbac"
	"taskflow-backend/internal/repository"
	"taskflow-backend/internal/visibility"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ProjectService handles business logic for projects and their memberships
type ProjectService struct {
	store     *repository.Store
	resolver  *visibility.Resolver
	validator *validator.Validate
}

// NewProjectService creates a new project service
func NewProjectService(store *repository.Store, resolver *visibility.Resolver, validator *validator.Validate) *ProjectService {
	return &ProjectService{
		store:     store,
		resolver:  resolver,
		validator: validator,
	}
}

// CreateProjectRequest represents the data needed to create a project
type CreateProjectRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=255"`
	Description string `json:"description"`
	Status      string `json:"status" validate:"omitempty,oneof=active completed"`
}

// UpdateProjectRequest represents the data that can be changed on a project
type UpdateProjectRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
	Status      *string `json:"status" validate:"omitempty,oneof=active completed"`
}

// ProjectMemberResponse represents a membership with its user's details
type ProjectMemberResponse struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"project"`
	UserID    uuid.UUID `json:"user"`
	UserEmail string    `json:"user_email"`
	UserName  string    `json:"user_name"`
	Role      string    `json:"role"`
	CreatedAt string    `json:"created_at"`
}

// ProjectResponse represents the response data for a project
type ProjectResponse struct {
	ID            uuid.UUID               `json:"id"`
	Name          string                  `json:"name"`
	Description   string                  `json:"description"`
	Status        string                  `json:"status"`
	CreatedByID   *uuid.UUID              `json:"created_by"`
	CreatedByName string                  `json:"created_by_name"`
	CreatedAt     string                  `json:"created_at"`
	Members       []ProjectMemberResponse `json:"members"`
}

// ListProjects returns the projects visible to the caller, newest first
func (s *ProjectService) ListProjects(ctx context.Context) ([]ProjectResponse, error) {
	requester, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	filter := s.resolver.Projects(requester)

	projects, err := s.store.Projects.FindVisible(ctx, filter)
	if err != nil {
		return nil, err
	}
	members, err := s.store.Members.FindVisible(ctx, filter, nil)
	if err != nil {
		return nil, err
	}
	return s.projectResponses(ctx, projects, members)
}

// GetProject returns a visible project
func (s *ProjectService) GetProject(ctx context.Context, id uuid.UUID) (*ProjectResponse, error) {
	requester, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	project, err := s.store.Projects.GetVisible(ctx, s.resolver.Projects(requester), id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrProjectNotFound)
	}
	return s.projectResponse(ctx, project)
}

// CreateProject creates a project and makes the caller its admin member
func (s *ProjectService) CreateProject(ctx context.Context, req *CreateProjectRequest) (*ProjectResponse, error) {
	if err := validateStruct(s.validator, req); err != nil {
		return nil, err
	}
	requester, err := actor(ctx)
	if err != nil {
		return nil, err
	}

	status := models.ProjectStatusActive
	if req.Status != "" {
		status = models.ProjectStatus(req.Status)
	}
	project := &models.Project{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Status:      status,
		CreatedByID: idPtr(requester.ID),
	}

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Projects.Create(ctx, project); err != nil {
			return err
		}
		return tx.Members.Create(ctx, &models.ProjectMember{
			ProjectID: project.ID,
			UserID:    requester.ID,
			Role:      models.ProjectRoleAdmin,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.projectResponse(ctx, project)
}

// UpdateProject updates a visible project the caller may manage
func (s *ProjectService) UpdateProject(ctx context.Context, id uuid.UUID, req *UpdateProjectRequest) (*ProjectResponse, error) {
	if err := validateStruct(s.validator, req); err != nil {
		return nil, err
	}
	project, err := s.manageableProject(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if len(updates) > 0 {
		if err := s.store.Projects.Update(ctx, project.ID, updates); err != nil {
			return nil, notFound(err, apperrors.ErrProjectNotFound)
		}
	}

	updated, err := s.store.Projects.GetByID(ctx, project.ID)
	if err != nil {
		return nil, notFound(err, apperrors.ErrProjectNotFound)
	}
	return s.projectResponse(ctx, updated)
}

// DeleteProject deletes a visible project the caller may manage, with its tasks and memberships
func (s *ProjectService) DeleteProject(ctx context.Context, id uuid.UUID) error {
	project, err := s.manageableProject(ctx, id)
	if err != nil {
		return err
	}
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Tasks.DeleteByProject(ctx, project.ID); err != nil {
			return err
		}
		if err := tx.Members.DeleteByProject(ctx, project.ID); err != nil {
			return err
		}
		return tx.Projects.Delete(ctx, project.ID)
	})
}

// manageableProject loads a visible project and runs the object guard on it
func (s *ProjectService) manageableProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	requester, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	project, err := s.store.Projects.GetVisible(ctx, s.resolver.Projects(requester), id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrProjectNotFound)
	}

	var creator *models.User
	if project.CreatedByID != nil {
		if creator, err = s.store.Users.GetInTenant(ctx, *project.CreatedByID); err != nil {
			creator = nil
		}
	}
	if err := rbac.AuthorizeObject(requester, rbac.ProjectObject(project, creator)).Err(); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) projectResponse(ctx context.Context, project *models.Project) (*ProjectResponse, error) {
	members, err := s.store.Members.FindVisible(ctx, visibility.ProjectFilter{All: true}, &project.ID)
	if err != nil {
		return nil, err
	}
	out, err := s.projectResponses(ctx, []models.Project{*project}, members)
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (s *ProjectService) projectResponses(ctx context.Context, projects []models.Project, members []models.ProjectMember) ([]ProjectResponse, error) {
	ids := make([]uuid.UUID, 0, len(projects)+len(members))
	for _, p := range projects {
		if p.CreatedByID != nil {
			ids = append(ids, *p.CreatedByID)
		}
	}
	for _, m := range members {
		ids = append(ids, m.UserID)
	}
	users, err := s.store.Users.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	byProject := make(map[uuid.UUID][]ProjectMemberResponse, len(projects))
	for i := range members {
		m := &members[i]
		byProject[m.ProjectID] = append(byProject[m.ProjectID], toMemberResponse(m, users[m.UserID]))
	}

	out := make([]ProjectResponse, 0, len(projects))
	for i := range projects {
		p := &projects[i]
		createdByName := "Unknown"
		if p.CreatedByID != nil {
			if u, ok := users[*p.CreatedByID]; ok {
				createdByName = fullName(u)
			}
		}
		projectMembers := byProject[p.ID]
		if projectMembers == nil {
			projectMembers = []ProjectMemberResponse{}
		}
		out = append(out, ProjectResponse{
			ID:            p.ID,
			Name:          p.Name,
			Description:   p.Description,
			Status:        string(p.Status),
			CreatedByID:   p.CreatedByID,
			CreatedByName: createdByName,
			CreatedAt:     formatTime(p.CreatedAt),
			Members:       projectMembers,
		})
	}
	return out, nil
}

func toMemberResponse(m *models.ProjectMember, u *models.User) ProjectMemberResponse {
	resp := ProjectMemberResponse{
		ID:        m.ID,
		ProjectID: m.ProjectID,
		UserID:    m.UserID,
		Role:      string(m.Role),
		CreatedAt: formatTime(m.CreatedAt),
	}
	if u != nil {
		resp.UserEmail = u.Email
		resp.UserName = fullName(u)
	}
	return resp
}
