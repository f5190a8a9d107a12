package handlers

import (
	"net/http"

	"taskflow-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// AccountHandler handles signup and invite endpoints
type AccountHandler struct {
	signupService service.SignupServiceInterface
	inviteService service.InviteServiceInterface
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(signupService service.SignupServiceInterface, inviteService service.InviteServiceInterface) *AccountHandler {
	return &AccountHandler{
		signupService: signupService,
		inviteService: inviteService,
	}
}

// Signup handles POST /accounts/signup
// @Summary Register a company
// @Description Creates a super admin together with a new tenant owned by them
// @Tags accounts
// @Accept json
// @Produce json
// @Param signup body service.TenantSignupRequest true "Owner and company data"
// @Success 201 {object} service.SignupResponse "Tenant and owner created"
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 409 {object} ErrorResponse "Email already registered"
// @Router /accounts/signup [post]
func (h *AccountHandler) Signup(c *gin.Context) {
	var req service.TenantSignupRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.signupService.CreateTenantAndOwner(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ConsumeInvite handles POST /accounts/invites/consume
// @Summary Sign up with an invite
// @Description Creates a user in the inviting tenant with the role and manager fixed by the invite
// @Tags accounts
// @Accept json
// @Produce json
// @Param signup body service.InviteSignupRequest true "User data and invite code"
// @Success 201 {object} service.SignupResponse "User registered"
// @Failure 400 {object} ErrorResponse "Invalid, used or expired code"
// @Failure 409 {object} ErrorResponse "Email already registered"
// @Router /accounts/invites/consume [post]
func (h *AccountHandler) ConsumeInvite(c *gin.Context) {
	var req service.InviteSignupRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.signupService.RedeemInvite(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GenerateInvite handles POST /accounts/invites/generate
// @Summary Generate an invite
// @Description Issues a single-use invite code for a role the caller may grant
// @Tags accounts
// @Accept json
// @Produce json
// @Param invite body service.IssueInviteRequest true "Invite role and optional expiry"
// @Success 201 {object} service.InviteResponse "Invite issued"
// @Failure 400 {object} ErrorResponse "Role not assignable or invalid expiry"
// @Failure 401 {object} ErrorResponse "Authentication required"
// @Security BearerAuth
// @Router /accounts/invites/generate [post]
func (h *AccountHandler) GenerateInvite(c *gin.Context) {
	var req service.IssueInviteRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.inviteService.IssueInvite(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
