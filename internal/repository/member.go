package repository

import (
	"context"

	"taskflow-backend/internal/database/models"
	"taskflow-backend/internal/tenancy"
	"taskflow-backend/internal/visibility"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProjectMemberRepository handles database operations for project memberships
type ProjectMemberRepository struct {
	db *gorm.DB
}

// NewProjectMemberRepository creates a new project member repository
func NewProjectMemberRepository(db *gorm.DB) *ProjectMemberRepository {
	return &ProjectMemberRepository{db: db}
}

// Create adds a membership in the current tenant
func (r *ProjectMemberRepository) Create(ctx context.Context, member *models.ProjectMember) error {
	if err := tenancy.AttachTenant(ctx, member); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(member).Error
}

// GetByID retrieves a membership of the current tenant
func (r *ProjectMemberRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ProjectMember, error) {
	q, err := tenantScoped(ctx, r.db, "project_members")
	if err != nil {
		return nil, err
	}
	var member models.ProjectMember
	if err := q.First(&member, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// Exists reports whether user already belongs to project
func (r *ProjectMemberRepository) Exists(ctx context.Context, projectID, userID uuid.UUID) (bool, error) {
	q, err := tenantScoped(ctx, r.db, "project_members")
	if err != nil {
		return false, err
	}
	var count int64
	if err := q.Model(&models.ProjectMember{}).Where("project_id = ? AND user_id = ?", projectID, userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindVisible lists memberships of projects that pass filter, optionally for one project
func (r *ProjectMemberRepository) FindVisible(ctx context.Context, filter visibility.ProjectFilter, projectID *uuid.UUID) ([]models.ProjectMember, error) {
	q, err := tenantScoped(ctx, r.db, "project_members")
	if err != nil {
		return nil, err
	}
	if !filter.All {
		memberOf := r.db.Session(&gorm.Session{NewDB: true}).
			Model(&models.ProjectMember{}).
			Select("project_id").
			Where("user_id = ?", filter.MemberID)
		q = q.Where("project_id IN (?)", memberOf)
	}
	if projectID != nil {
		q = q.Where("project_id = ?", *projectID)
	}
	var members []models.ProjectMember
	if err := q.Order("created_at ASC").Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// Delete removes a membership of the current tenant
func (r *ProjectMemberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	q, err := tenantScoped(ctx, r.db, "project_members")
	if err != nil {
		return err
	}
	return q.Delete(&models.ProjectMember{}, "id = ?", id).Error
}

// DeleteByProject removes every membership of a project
func (r *ProjectMemberRepository) DeleteByProject(ctx context.Context, projectID uuid.UUID) error {
	q, err := tenantScoped(ctx, r.db, "project_members")
	if err != nil {
		return err
	}
	return q.Delete(&models.ProjectMember{}, "project_id = ?", projectID).Error
}
