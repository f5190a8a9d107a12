package repository

import (
	"context"

	"taskflow-backend/internal/database/models"
	"taskflow-backend/internal/tenancy"
	"taskflow-backend/internal/visibility"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskQuery narrows a visible task listing
type TaskQuery struct {
	ProjectID *uuid.UUID
	Status    *models.TaskStatus
}

// TaskRepository handles database operations for tasks
type TaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create creates a task in the current tenant
func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	if err := tenancy.AttachTenant(ctx, task); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(task).Error
}

// GetVisible retrieves a task that passes filter
func (r *TaskRepository) GetVisible(ctx context.Context, filter visibility.TaskFilter, id uuid.UUID) (*models.Task, error) {
	q, err := tenantScoped(ctx, r.db, "tasks")
	if err != nil {
		return nil, err
	}
	var task models.Task
	if err := applyTaskFilter(q, filter).First(&task, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// FindVisible lists tasks that pass filter, newest first
func (r *TaskRepository) FindVisible(ctx context.Context, filter visibility.TaskFilter, query TaskQuery) ([]models.Task, error) {
	q, err := tenantScoped(ctx, r.db, "tasks")
	if err != nil {
		return nil, err
	}
	q = applyTaskFilter(q, filter)
	if query.ProjectID != nil {
		q = q.Where("project_id = ?", *query.ProjectID)
	}
	if query.Status != nil {
		q = q.Where("status = ?", *query.Status)
	}
	var tasks []models.Task
	if err := q.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update applies updates to a task of the current tenant
func (r *TaskRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	q, err := tenantScoped(ctx, r.db, "tasks")
	if err != nil {
		return err
	}
	res := q.Model(&models.Task{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete deletes a task of the current tenant
func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	q, err := tenantScoped(ctx, r.db, "tasks")
	if err != nil {
		return err
	}
	return q.Delete(&models.Task{}, "id = ?", id).Error
}

// DeleteByProject deletes every task of a project
func (r *TaskRepository) DeleteByProject(ctx context.Context, projectID uuid.UUID) error {
	q, err := tenantScoped(ctx, r.db, "tasks")
	if err != nil {
		return err
	}
	return q.Delete(&models.Task{}, "project_id = ?", projectID).Error
}
