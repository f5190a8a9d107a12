package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"taskflow-backend/internal/database/models"
	apperrors "taskflow-backend/internal/errors"
	"taskflow-backend/internal/logger"
	"taskflow-backend/internal/rbac"
	"taskflow-backend/internal/repository"
	"taskflow-backend/internal/visibility"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// TaskService handles business logic for tasks
type TaskService struct {
	store      *repository.Store
	resolver   *visibility.Resolver
	dispatcher NotificationDispatcher
	validator  *validator.Validate
	now        func() time.Time
}

// NewTaskService creates a new task service
func NewTaskService(store *repository.Store, resolver *visibility.Resolver, dispatcher NotificationDispatcher, validator *validator.Validate) *TaskService {
	return &TaskService{
		store:      store,
		resolver:   resolver,
		dispatcher: dispatcher,
		validator:  validator,
		now:        time.Now,
	}
}

// CreateTaskRequest represents the data needed to create a task
type CreateTaskRequest struct {
	ProjectID   uuid.UUID  `json:"project" validate:"required"`
	Title       string     `json:"title" validate:"required,min=1,max=255"`
	Description string     `json:"description"`
	Priority    string     `json:"priority" validate:"omitempty,oneof=low medium high"`
	Status      string     `json:"status" validate:"omitempty,oneof=todo in_progress done"`
	AssignedTo  *uuid.UUID `json:"assigned_to"`
	DueDate     *string    `json:"due_date"`
}

// UpdateTaskRequest represents the data that can be changed on a task
type UpdateTaskRequest struct {
	ProjectID   *uuid.UUID `json:"project"`
	Title       *string    `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string    `json:"description"`
	Priority    *string    `json:"priority" validate:"omitempty,oneof=low medium high"`
	Status      *string    `json:"status" validate:"omitempty,oneof=todo in_progress done"`
	AssignedTo  *uuid.UUID `json:"assigned_to"`
	DueDate     *string    `json:"due_date"`
}

// TaskListQuery narrows a task listing
type TaskListQuery struct {
	ProjectID *uuid.UUID
	Status    string
}

// TaskResponse represents the response data for a task
type TaskResponse struct {
	ID             uuid.UUID  `json:"id"`
	TenantID       uuid.UUID  `json:"tenant"`
	ProjectID      uuid.UUID  `json:"project"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Priority       string     `json:"priority"`
	Status         string     `json:"status"`
	AssignedTo     *uuid.UUID `json:"assigned_to"`
	AssignedToName string     `json:"assigned_to_name"`
	AssignedBy     *uuid.UUID `json:"assigned_by"`
	AssignedByName string     `json:"assigned_by_name"`
	DueDate        *string    `json:"due_date"`
	CreatedAt      string     `json:"created_at"`
}

// DashboardMetrics holds the headline task counts
type DashboardMetrics struct {
	TotalTasks     int `json:"total_tasks"`
	CompletedTasks int `json:"completed_tasks"`
	PendingTasks   int `json:"pending_tasks"`
	OverdueTasks   int `json:"overdue_tasks"`
}

// DailyCompletion counts done tasks due on one day
type DailyCompletion struct {
	DueDate string `json:"due_date"`
	Count   int    `json:"count"`
}

// DashboardResponse aggregates the tasks visible to the caller
type DashboardResponse struct {
	Metrics           DashboardMetrics  `json:"metrics"`
	Distribution      map[string]int    `json:"distribution"`
	WeeklyPerformance []DailyCompletion `json:"weekly_performance"`
}

// ListTasks returns the tasks visible to the caller, newest first
func (s *TaskService) ListTasks(ctx context.Context, query TaskListQuery) ([]TaskResponse, error) {
	requester, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	q := repository.TaskQuery{ProjectID: query.ProjectID}
	if query.Status != "" {
		status := models.TaskStatus(query.Status)
		if !status.IsValid() {
			return nil, apperrors.NewValidationError("status", "Select a valid status.")
		}
		q.Status = &status
	}

	filter, err := s.resolver.Tasks(ctx, requester)
	if err != nil {
		return nil, err
	}
	tasks, err := s.store.Tasks.FindVisible(ctx, filter, q)
	if err != nil {
		return nil, err
	}
	return s.taskResponses(ctx, tasks)
}

// GetTask returns a visible task
func (s *TaskService) GetTask(ctx context.Context, id uuid.UUID) (*TaskResponse, error) {
	requester, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	task, err := s.visibleTask(ctx, requester, id)
	if err != nil {
		return nil, err
	}
	return s.taskResponse(ctx, task)
}

// CreateTask creates a task in one of the tenant's projects. Employees
// creating an unassigned task get it assigned to themselves.
func (s *TaskService) CreateTask(ctx context.Context, req *CreateTaskRequest) (*TaskResponse, error) {
	if err := validateStruct(s.validator, req); err != nil {
		return nil, err
	}
	requester, err := actor(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.checkProject(ctx, req.ProjectID); err != nil {
		return nil, err
	}
	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return nil, err
	}

	assignedTo := req.AssignedTo
	if assignedTo != nil {
		if err := s.checkAssignment(ctx, requester, *assignedTo); err != nil {
			return nil, err
		}
	} else if requester.Role == models.RoleEmployee {
		assignedTo = idPtr(requester.ID)
	}

	task := &models.Task{
		ProjectID:    req.ProjectID,
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Priority:     models.TaskPriorityMedium,
		Status:       models.TaskStatusTodo,
		AssignedToID: assignedTo,
		AssignedByID: idPtr(requester.ID),
		DueDate:      dueDate,
	}
	if req.Priority != "" {
		task.Priority = models.TaskPriority(req.Priority)
	}
	if req.Status != "" {
		task.Status = models.TaskStatus(req.Status)
	}

	if err := s.store.Tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	s.dispatch(ctx, taskCreatedEvent(task))
	return s.taskResponse(ctx, task)
}

// UpdateTask updates a visible task the caller may manage
func (s *TaskService) UpdateTask(ctx context.Context, id uuid.UUID, req *UpdateTaskRequest) (*TaskResponse, error) {
	if err := validateStruct(s.validator, req); err != nil {
		return nil, err
	}
	requester, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	task, err := s.manageableTask(ctx, requester, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.ProjectID != nil {
		if err := s.checkProject(ctx, *req.ProjectID); err != nil {
			return nil, err
		}
		updates["project_id"] = *req.ProjectID
	}
	if req.AssignedTo != nil {
		if err := s.checkAssignment(ctx, requester, *req.AssignedTo); err != nil {
			return nil, err
		}
		updates["assigned_to_id"] = *req.AssignedTo
	}
	if req.DueDate != nil {
		dueDate, err := parseDueDate(req.DueDate)
		if err != nil {
			return nil, err
		}
		updates["due_date"] = dueDate
	}
	if req.Title != nil {
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Priority != nil {
		updates["priority"] = *req.Priority
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}

	previous := task.Status
	if len(updates) > 0 {
		if err := s.store.Tasks.Update(ctx, task.ID, updates); err != nil {
			return nil, notFound(err, apperrors.ErrTaskNotFound)
		}
	}

	updated, err := s.store.Tasks.GetVisible(ctx, visibility.TaskFilter{All: true}, task.ID)
	if err != nil {
		return nil, notFound(err, apperrors.ErrTaskNotFound)
	}
	if len(updates) > 0 {
		s.dispatch(ctx, taskUpdatedEvent(previous, updated))
	}
	return s.taskResponse(ctx, updated)
}

// DeleteTask deletes a visible task the caller may manage
func (s *TaskService) DeleteTask(ctx context.Context, id uuid.UUID) error {
	requester, err := actor(ctx)
	if err != nil {
		return err
	}
	task, err := s.manageableTask(ctx, requester, id)
	if err != nil {
		return err
	}
	return s.store.Tasks.Delete(ctx, task.ID)
}

// Dashboard summarizes the tasks visible to the caller
func (s *TaskService) Dashboard(ctx context.Context) (*DashboardResponse, error) {
	requester, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	filter, err := s.resolver.Tasks(ctx, requester)
	if err != nil {
		return nil, err
	}
	tasks, err := s.store.Tasks.FindVisible(ctx, filter, repository.TaskQuery{})
	if err != nil {
		return nil, err
	}
	return summarize(tasks, s.now()), nil
}

func summarize(tasks []models.Task, now time.Time) *DashboardResponse {
	today := truncateDay(now)
	weekAgo := today.AddDate(0, 0, -7)

	resp := &DashboardResponse{
		Distribution: map[string]int{
			string(models.TaskStatusTodo):       0,
			string(models.TaskStatusInProgress): 0,
			string(models.TaskStatusDone):       0,
		},
		WeeklyPerformance: []DailyCompletion{},
	}
	weekly := map[string]int{}

	for i := range tasks {
		t := &tasks[i]
		resp.Metrics.TotalTasks++
		resp.Distribution[string(t.Status)]++

		if t.Status != models.TaskStatusDone {
			resp.Metrics.PendingTasks++
			if t.IsOpen() && t.DueDate != nil && truncateDay(*t.DueDate).Before(today) {
				resp.Metrics.OverdueTasks++
			}
			continue
		}

		resp.Metrics.CompletedTasks++
		if t.DueDate == nil {
			continue
		}
		due := truncateDay(*t.DueDate)
		if !due.Before(weekAgo) && !due.After(today) {
			weekly[due.Format(dateLayout)]++
		}
	}

	for day, count := range weekly {
		resp.WeeklyPerformance = append(resp.WeeklyPerformance, DailyCompletion{DueDate: day, Count: count})
	}
	sort.Slice(resp.WeeklyPerformance, func(i, j int) bool {
		return resp.WeeklyPerformance[i].DueDate < resp.WeeklyPerformance[j].DueDate
	})
	return resp
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func parseDueDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	d, err := time.Parse(dateLayout, *raw)
	if err != nil {
		return nil, apperrors.NewValidationError("due_date", "Date has wrong format. Use one of these formats instead: YYYY-MM-DD.")
	}
	return &d, nil
}

// checkProject requires projectID to name a project of the caller's tenant
func (s *TaskService) checkProject(ctx context.Context, projectID uuid.UUID) error {
	if _, err := s.store.Projects.GetByID(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewValidationError("project", "Invalid project.")
		}
		return err
	}
	return nil
}

// checkAssignment loads the assignee across tenants and runs the assignment guard
func (s *TaskService) checkAssignment(ctx context.Context, requester *models.User, assigneeID uuid.UUID) error {
	assignee, err := s.store.Users.GetByID(ctx, assigneeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewValidationError("assigned_to", "Invalid user.")
		}
		return err
	}
	return rbac.AuthorizeTaskAssignment(requester, assignee).Err()
}

func (s *TaskService) visibleTask(ctx context.Context, requester *models.User, id uuid.UUID) (*models.Task, error) {
	filter, err := s.resolver.Tasks(ctx, requester)
	if err != nil {
		return nil, err
	}
	task, err := s.store.Tasks.GetVisible(ctx, filter, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrTaskNotFound)
	}
	return task, nil
}

func (s *TaskService) manageableTask(ctx context.Context, requester *models.User, id uuid.UUID) (*models.Task, error) {
	task, err := s.visibleTask(ctx, requester, id)
	if err != nil {
		return nil, err
	}

	ids := []uuid.UUID{}
	if task.AssignedByID != nil {
		ids = append(ids, *task.AssignedByID)
	}
	if task.AssignedToID != nil {
		ids = append(ids, *task.AssignedToID)
	}
	users, err := s.store.Users.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	var creator, assignee *models.User
	if task.AssignedByID != nil {
		creator = users[*task.AssignedByID]
	}
	if task.AssignedToID != nil {
		assignee = users[*task.AssignedToID]
	}
	if err := rbac.AuthorizeObject(requester, rbac.TaskObject(task, creator, assignee)).Err(); err != nil {
		return nil, err
	}
	return task, nil
}

// dispatch delivers event after the write it describes has committed
func (s *TaskService) dispatch(ctx context.Context, event *TaskEvent) {
	if event == nil || s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Dispatch(ctx, *event); err != nil {
		logger.WithContext(ctx).WithError(err).
			WithField("task_id", event.Task.ID.String()).
			Warnf("failed to dispatch %s notification", event.Type)
	}
}

func (s *TaskService) taskResponse(ctx context.Context, task *models.Task) (*TaskResponse, error) {
	out, err := s.taskResponses(ctx, []models.Task{*task})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (s *TaskService) taskResponses(ctx context.Context, tasks []models.Task) ([]TaskResponse, error) {
	ids := make([]uuid.UUID, 0, 2*len(tasks))
	for _, t := range tasks {
		if t.AssignedToID != nil {
			ids = append(ids, *t.AssignedToID)
		}
		if t.AssignedByID != nil {
			ids = append(ids, *t.AssignedByID)
		}
	}
	users, err := s.store.Users.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		t := &tasks[i]
		resp := TaskResponse{
			ID:             t.ID,
			TenantID:       t.TenantID,
			ProjectID:      t.ProjectID,
			Title:          t.Title,
			Description:    t.Description,
			Priority:       string(t.Priority),
			Status:         string(t.Status),
			AssignedTo:     t.AssignedToID,
			AssignedToName: "Unassigned",
			AssignedBy:     t.AssignedByID,
			AssignedByName: "System",
			CreatedAt:      formatTime(t.CreatedAt),
		}
		if t.AssignedToID != nil {
			if u, ok := users[*t.AssignedToID]; ok {
				resp.AssignedToName = fullName(u)
			}
		}
		if t.AssignedByID != nil {
			if u, ok := users[*t.AssignedByID]; ok {
				resp.AssignedByName = fullName(u)
			}
		}
		if t.DueDate != nil {
			d := t.DueDate.UTC().Format(dateLayout)
			resp.DueDate = &d
		}
		out = append(out, resp)
	}
	return out, nil
}
