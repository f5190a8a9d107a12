package models

import "github.com/google/uuid"

// Project groups tasks inside a tenant
type Project struct {
	BaseModel
	TenantModel
	Name        string        `json:"name" gorm:"not null;size:255"`
	Description string        `json:"description" gorm:"type:text"`
	CreatedByID *uuid.UUID    `json:"created_by,omitempty" gorm:"type:uuid"`
	Status      ProjectStatus `json:"status" gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for Project
func (Project) TableName() string {
	return "projects"
}
