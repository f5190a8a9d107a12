package handlers

import (
	"net/http"

	"taskflow-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TaskHandler handles HTTP requests for tasks
type TaskHandler struct {
	taskService service.TaskServiceInterface
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService service.TaskServiceInterface) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// ListTasks handles GET /tasks
// @Summary List tasks
// @Description Tasks assigned to users the caller may see
// @Tags tasks
// @Produce json
// @Param project_id query string false "Restrict to one project"
// @Param status query string false "Status filter" Enums(todo, in_progress, done)
// @Success 200 {array} service.TaskResponse "Visible tasks"
// @Failure 400 {object} ErrorResponse "Invalid filter"
// @Security BearerAuth
// @Router /tasks [get]
func (h *TaskHandler) ListTasks(c *gin.Context) {
	query := service.TaskListQuery{Status: c.Query("status")}
	if raw := c.Query("project_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid project_id format", Field: "project_id"})
			return
		}
		query.ProjectID = &id
	}

	tasks, err := h.taskService.ListTasks(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// CreateTask handles POST /tasks
// @Summary Create a task
// @Description Creates a task; the assignee must be someone the caller may assign work to
// @Tags tasks
// @Accept json
// @Produce json
// @Param task body service.CreateTaskRequest true "Task data"
// @Success 201 {object} service.TaskResponse "Task created"
// @Failure 400 {object} ErrorResponse "Invalid request or assignee"
// @Security BearerAuth
// @Router /tasks [post]
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req service.CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}
	task, err := h.taskService.CreateTask(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// GetTask handles GET /tasks/:id
// @Summary Get a task
// @Tags tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} service.TaskResponse "Task"
// @Failure 404 {object} ErrorResponse "Task not found or not visible"
// @Security BearerAuth
// @Router /tasks/{id} [get]
func (h *TaskHandler) GetTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	task, err := h.taskService.GetTask(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// UpdateTask handles PATCH /tasks/:id
// @Summary Update a task
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param task body service.UpdateTaskRequest true "Fields to change"
// @Success 200 {object} service.TaskResponse "Updated task"
// @Failure 400 {object} ErrorResponse "Invalid request or assignee"
// @Failure 403 {object} ErrorResponse "Not allowed to manage this task"
// @Failure 404 {object} ErrorResponse "Task not found or not visible"
// @Security BearerAuth
// @Router /tasks/{id} [patch]
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateTaskRequest
	if !bindJSON(c, &req) {
		return
	}
	task, err := h.taskService.UpdateTask(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// DeleteTask handles DELETE /tasks/:id
// @Summary Delete a task
// @Tags tasks
// @Param id path string true "Task ID"
// @Success 204 "Task deleted"
// @Failure 403 {object} ErrorResponse "Not allowed to manage this task"
// @Failure 404 {object} ErrorResponse "Task not found or not visible"
// @Security BearerAuth
// @Router /tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.taskService.DeleteTask(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Dashboard handles GET /tasks/dashboard
// @Summary Task dashboard
// @Description Counts, status distribution and last week's completions over the visible tasks
// @Tags tasks
// @Produce json
// @Param X-View-As-User header string false "Act as a lower ranked user of the same tenant"
// @Success 200 {object} service.DashboardResponse "Dashboard"
// @Security BearerAuth
// @Router /tasks/dashboard [get]
func (h *TaskHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.taskService.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}
