package handlers

import (
	"errors"
	"net/http"

	apperrors "taskflow-backend/internal/errors"
	"taskflow-backend/internal/logger"
	"taskflow-backend/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ErrorResponse represents a standard API error response
type ErrorResponse struct {
	Error  string `json:"error" example:"error message"`
	Field  string `json:"field,omitempty" example:"role"`
	Reason string `json:"reason,omitempty" example:"role_not_assignable"`
}

// respondError maps a service error onto its HTTP status
func respondError(c *gin.Context, err error) {
	var (
		validationErr *apperrors.ValidationError
		authzErr      *apperrors.AuthorizationError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:  validationErr.Message,
			Field:  validationErr.Field,
			Reason: validationErr.Reason,
		})
	case errors.As(err, &authzErr):
		metrics.AuthorizationDenials.WithLabelValues(authzErr.Reason).Inc()
		c.JSON(http.StatusForbidden, ErrorResponse{Error: authzErr.Message, Reason: authzErr.Reason})
	case apperrors.IsInvalidContext(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Reason: "invalid_context"})
	case apperrors.IsAuthentication(err):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
	case apperrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case apperrors.IsAlreadyExists(err):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	default:
		logger.WithContext(c.Request.Context()).WithError(err).
			WithField("path", c.Request.URL.Path).
			Error("request failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}
}

// parseID reads a uuid path parameter, answering 400 when it is malformed
func parseID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid " + name + " format", Field: name})
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON decodes the request body, answering 400 when it is malformed
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return false
	}
	return true
}
