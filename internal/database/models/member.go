package models

import "github.com/google/uuid"

// ProjectMember links a user to a project with a project-level role
type ProjectMember struct {
	BaseModel
	TenantModel
	ProjectID uuid.UUID   `json:"project_id" gorm:"type:uuid;not null;uniqueIndex:idx_project_member"`
	UserID    uuid.UUID   `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_project_member;index"`
	Role      ProjectRole `json:"role" gorm:"type:varchar(20);not null;default:'employee'"`
}

// TableName returns the table name for ProjectMember
func (ProjectMember) TableName() string {
	return "project_members"
}
