package handlers

import (
	"net/http"

	"taskflow-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProjectHandler handles HTTP requests for projects and memberships
type ProjectHandler struct {
	projectService service.ProjectServiceInterface
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projectService service.ProjectServiceInterface) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// ListProjects handles GET /projects
// @Summary List projects
// @Description Super admins see every project of the tenant, everyone else the projects they belong to
// @Tags projects
// @Produce json
// @Success 200 {array} service.ProjectResponse "Visible projects"
// @Security BearerAuth
// @Router /projects [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	projects, err := h.projectService.ListProjects(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

// CreateProject handles POST /projects
// @Summary Create a project
// @Description Creates a project; the caller becomes its admin member
// @Tags projects
// @Accept json
// @Produce json
// @Param project body service.CreateProjectRequest true "Project data"
// @Success 201 {object} service.ProjectResponse "Project created"
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Security BearerAuth
// @Router /projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req service.CreateProjectRequest
	if !bindJSON(c, &req) {
		return
	}
	project, err := h.projectService.CreateProject(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

// GetProject handles GET /projects/:id
// @Summary Get a project
// @Tags projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} service.ProjectResponse "Project"
// @Failure 404 {object} ErrorResponse "Project not found or not visible"
// @Security BearerAuth
// @Router /projects/{id} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	project, err := h.projectService.GetProject(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// UpdateProject handles PATCH /projects/:id
// @Summary Update a project
// @Tags projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param project body service.UpdateProjectRequest true "Fields to change"
// @Success 200 {object} service.ProjectResponse "Updated project"
// @Failure 403 {object} ErrorResponse "Not allowed to manage this project"
// @Failure 404 {object} ErrorResponse "Project not found or not visible"
// @Security BearerAuth
// @Router /projects/{id} [patch]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateProjectRequest
	if !bindJSON(c, &req) {
		return
	}
	project, err := h.projectService.UpdateProject(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// DeleteProject handles DELETE /projects/:id
// @Summary Delete a project
// @Description Deletes the project with its tasks and memberships
// @Tags projects
// @Param id path string true "Project ID"
// @Success 204 "Project deleted"
// @Failure 403 {object} ErrorResponse "Not allowed to manage this project"
// @Failure 404 {object} ErrorResponse "Project not found or not visible"
// @Security BearerAuth
// @Router /projects/{id} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.projectService.DeleteProject(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListMembers handles GET /projects/members
// @Summary List project members
// @Description Memberships of the projects visible to the caller
// @Tags projects
// @Produce json
// @Param project_id query string false "Restrict to one project"
// @Success 200 {array} service.ProjectMemberResponse "Memberships"
// @Failure 400 {object} ErrorResponse "Invalid project_id"
// @Security BearerAuth
// @Router /projects/members [get]
func (h *ProjectHandler) ListMembers(c *gin.Context) {
	var projectID *uuid.UUID
	if raw := c.Query("project_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid project_id format", Field: "project_id"})
			return
		}
		projectID = &id
	}

	members, err := h.projectService.ListMembers(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

// AddMember handles POST /projects/members
// @Summary Add a project member
// @Tags projects
// @Accept json
// @Produce json
// @Param member body service.AddMemberRequest true "Project, user and project role"
// @Success 201 {object} service.ProjectMemberResponse "Membership created"
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 403 {object} ErrorResponse "Not allowed to assign this user"
// @Failure 404 {object} ErrorResponse "User not found"
// @Failure 409 {object} ErrorResponse "Already a member"
// @Security BearerAuth
// @Router /projects/members [post]
func (h *ProjectHandler) AddMember(c *gin.Context) {
	var req service.AddMemberRequest
	if !bindJSON(c, &req) {
		return
	}
	member, err := h.projectService.AddMember(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, member)
}

// RemoveMember handles DELETE /projects/members/:id
// @Summary Remove a project member
// @Tags projects
// @Param id path string true "Membership ID"
// @Success 204 "Membership removed"
// @Failure 403 {object} ErrorResponse "Not allowed to remove this user"
// @Failure 404 {object} ErrorResponse "Membership not found"
// @Security BearerAuth
// @Router /projects/members/{id} [delete]
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.projectService.RemoveMember(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
