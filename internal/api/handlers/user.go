package handlers

import (
	"net/http"

	"taskflow-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler handles HTTP requests for users
type UserHandler struct {
	userService service.UserServiceInterface
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService service.UserServiceInterface) *UserHandler {
	return &UserHandler{userService: userService}
}

// ListUsers handles GET /accounts/users
// @Summary List users
// @Description Lists the users the caller may see, optionally filtered by role
// @Tags users
// @Produce json
// @Param role query string false "Role filter" Enums(super_admin, admin, manager, employee)
// @Param X-View-As-User header string false "Act as a lower ranked user of the same tenant"
// @Success 200 {object} service.UsersListResponse "Visible users"
// @Failure 400 {object} ErrorResponse "Invalid role filter"
// @Security BearerAuth
// @Router /accounts/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context(), c.Query("role"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, service.UsersListResponse{Users: users, Total: len(users)})
}

// CreateUser handles POST /accounts/users
// @Summary Create a user
// @Description Creates a user in the caller's tenant reporting to the caller
// @Tags users
// @Accept json
// @Produce json
// @Param user body service.CreateUserRequest true "User data"
// @Success 201 {object} service.UserResponse "User created"
// @Failure 400 {object} ErrorResponse "Invalid request or role not assignable"
// @Failure 409 {object} ErrorResponse "Email already registered"
// @Security BearerAuth
// @Router /accounts/users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req service.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// GetUser handles GET /accounts/users/:id
// @Summary Get a user
// @Description Returns a user visible to the caller
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} service.UserResponse "User"
// @Failure 404 {object} ErrorResponse "User not found or not visible"
// @Security BearerAuth
// @Router /accounts/users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Me handles GET /accounts/users/me
// @Summary Current user
// @Description Returns the authenticated user, the effective user and whether they differ
// @Tags users
// @Produce json
// @Param X-View-As-User header string false "Act as a lower ranked user of the same tenant"
// @Success 200 {object} service.MeResponse "Current user"
// @Security BearerAuth
// @Router /accounts/users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	me, err := h.userService.Me(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, me)
}

// UpdateMe handles PATCH /accounts/users/me
// @Summary Update own profile
// @Tags users
// @Accept json
// @Produce json
// @Param profile body service.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} service.UserResponse "Updated user"
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Security BearerAuth
// @Router /accounts/users/me [patch]
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req service.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.userService.UpdateMe(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
