package models

import "github.com/google/uuid"

// Notification is an in-app message addressed to a single user
type Notification struct {
	BaseModel
	TenantModel
	UserID  uuid.UUID        `json:"user_id" gorm:"type:uuid;not null;index"`
	Type    NotificationType `json:"notification_type" gorm:"type:varchar(20);not null"`
	Message string           `json:"message" gorm:"type:text;not null"`
	IsRead  bool             `json:"is_read" gorm:"not null;default:false"`
}

// TableName returns the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}
