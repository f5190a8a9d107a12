package models

import (
	"time"

	"github.com/google/uuid"
)

// Task is a unit of work inside a project
type Task struct {
	BaseModel
	TenantModel
	ProjectID    uuid.UUID    `json:"project_id" gorm:"type:uuid;not null;index"`
	Title        string       `json:"title" gorm:"not null;size:255"`
	Description  string       `json:"description" gorm:"type:text"`
	Priority     TaskPriority `json:"priority" gorm:"type:varchar(10);not null;default:'medium'"`
	Status       TaskStatus   `json:"status" gorm:"type:varchar(20);not null;default:'todo';index"`
	AssignedToID *uuid.UUID   `json:"assigned_to,omitempty" gorm:"type:uuid;index"`
	AssignedByID *uuid.UUID   `json:"assigned_by,omitempty" gorm:"type:uuid"`
	DueDate      *time.Time   `json:"due_date,omitempty"`
}

// TableName returns the table name for Task
func (Task) TableName() string {
	return "tasks"
}

// IsOpen reports whether the task still has work left
func (t *Task) IsOpen() bool {
	return t.Status == TaskStatusTodo || t.Status == TaskStatusInProgress
}
