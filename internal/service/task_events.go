package service

import (
	"taskflow-backend/internal/database/models"

	"github.com/google/uuid"
)

// TaskEvent is a committed task change that someone should hear about
type TaskEvent struct {
	Type      models.NotificationType
	Task      models.Task
	Recipient uuid.UUID
}

// taskCreatedEvent classifies a freshly created task
func taskCreatedEvent(task *models.Task) *TaskEvent {
	if task.AssignedToID == nil {
		return nil
	}
	return &TaskEvent{
		Type:      models.NotificationTaskAssigned,
		Task:      *task,
		Recipient: *task.AssignedToID,
	}
}

// taskUpdatedEvent classifies an update given the status held before it
func taskUpdatedEvent(previous models.TaskStatus, task *models.Task) *TaskEvent {
	if task.AssignedToID == nil {
		return nil
	}
	if previous != models.TaskStatusDone && task.Status == models.TaskStatusDone {
		if task.AssignedByID == nil || *task.AssignedByID == *task.AssignedToID {
			return nil
		}
		return &TaskEvent{
			Type:      models.NotificationTaskCompleted,
			Task:      *task,
			Recipient: *task.AssignedByID,
		}
	}
	return &TaskEvent{
		Type:      models.NotificationTaskUpdated,
		Task:      *task,
		Recipient: *task.AssignedToID,
	}
}
