package repository

import (
	"context"

	"taskflow-backend/internal/database/models"
	"taskflow-backend/internal/tenancy"
	"taskflow-backend/internal/visibility"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProjectRepository handles database operations for projects
type ProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create creates a new project in the current tenant
func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	if err := tenancy.AttachTenant(ctx, project); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(project).Error
}

// GetByID retrieves a project of the current tenant
func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	q, err := tenantScoped(ctx, r.db, "projects")
	if err != nil {
		return nil, err
	}
	var project models.Project
	if err := q.First(&project, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// GetVisible retrieves a project that passes filter
func (r *ProjectRepository) GetVisible(ctx context.Context, filter visibility.ProjectFilter, id uuid.UUID) (*models.Project, error) {
	q, err := tenantScoped(ctx, r.db, "projects")
	if err != nil {
		return nil, err
	}
	var project models.Project
	if err := applyProjectFilter(q, r.db, filter).First(&project, "projects.id = ?", id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// FindVisible lists projects that pass filter, newest first
func (r *ProjectRepository) FindVisible(ctx context.Context, filter visibility.ProjectFilter) ([]models.Project, error) {
	q, err := tenantScoped(ctx, r.db, "projects")
	if err != nil {
		return nil, err
	}
	var projects []models.Project
	if err := applyProjectFilter(q, r.db, filter).Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// Update applies updates to a project of the current tenant
func (r *ProjectRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	q, err := tenantScoped(ctx, r.db, "projects")
	if err != nil {
		return err
	}
	res := q.Model(&models.Project{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete deletes a project of the current tenant
func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	q, err := tenantScoped(ctx, r.db, "projects")
	if err != nil {
		return err
	}
	return q.Delete(&models.Project{}, "id = ?", id).Error
}
