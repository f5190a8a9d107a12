package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError(t *testing.T) {
	t.Run("Error message", func(t *testing.T) {
		err := &NotFoundError{Entity: "task"}
		assert.Equal(t, "task not found", err.Error())
	})

	t.Run("errors.Is comparison with same entity", func(t *testing.T) {
		err1 := &NotFoundError{Entity: "task"}
		err2 := &NotFoundError{Entity: "task"}
		assert.True(t, errors.Is(err1, err2))
	})

	t.Run("errors.Is comparison with different entity", func(t *testing.T) {
		assert.False(t, errors.Is(ErrTaskNotFound, ErrProjectNotFound))
	})

	t.Run("IsNotFound helper", func(t *testing.T) {
		assert.True(t, IsNotFound(ErrUserNotFound))
		assert.True(t, IsNotFound(fmt.Errorf("lookup: %w", ErrTaskNotFound)))
		assert.False(t, IsNotFound(ErrInviteNotFound))
	})
}

func TestAlreadyExistsError(t *testing.T) {
	t.Run("Error message with context", func(t *testing.T) {
		assert.Equal(t, "user already exists with this email", ErrUserExists.Error())
	})

	t.Run("Error message without context", func(t *testing.T) {
		err := &AlreadyExistsError{Entity: "tenant"}
		assert.Equal(t, "tenant already exists", err.Error())
	})

	t.Run("IsAlreadyExists helper", func(t *testing.T) {
		assert.True(t, IsAlreadyExists(ErrProjectMemberExists))
		assert.False(t, IsAlreadyExists(ErrProjectNotFound))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("Error message with field", func(t *testing.T) {
		err := &ValidationError{Field: "email", Message: "invalid format"}
		assert.Equal(t, "validation error: email - invalid format", err.Error())
	})

	t.Run("Error message without field", func(t *testing.T) {
		err := &ValidationError{Message: "invalid format"}
		assert.Equal(t, "validation error: invalid format", err.Error())
	})

	t.Run("invite sentinels are distinguishable", func(t *testing.T) {
		wrapped := fmt.Errorf("redeem: %w", ErrInviteAlreadyUsed)
		assert.True(t, errors.Is(wrapped, ErrInviteAlreadyUsed))
		assert.False(t, errors.Is(wrapped, ErrInviteExpired))
		assert.False(t, errors.Is(wrapped, ErrInviteNotFound))
		assert.True(t, IsValidation(wrapped))
	})

	t.Run("rule validation carries reason", func(t *testing.T) {
		err := NewRuleValidationError("role", "role_not_assignable", "Manager can only invite Employee.")
		assert.True(t, IsValidation(err))
		assert.Equal(t, "role_not_assignable", ReasonOf(err))
	})
}

func TestAuthorizationError(t *testing.T) {
	err := NewAuthorizationError("insufficient_role", "Insufficient permissions")
	assert.True(t, IsAuthorization(err))
	assert.False(t, IsValidation(err))
	assert.Equal(t, "insufficient_role", ReasonOf(fmt.Errorf("wrap: %w", err)))
	assert.Equal(t, "Insufficient permissions (insufficient_role)", err.Error())
}

func TestInvalidContextError(t *testing.T) {
	assert.True(t, IsInvalidContext(ErrInvalidContext))
	assert.True(t, IsInvalidContext(NewInvalidContextError("tasks")))
	assert.Contains(t, NewInvalidContextError("tasks").Error(), "tasks")
	assert.False(t, IsInvalidContext(ErrUserNotFound))
}

func TestHelperFunctions(t *testing.T) {
	t.Run("IsAuthentication", func(t *testing.T) {
		assert.True(t, IsAuthentication(ErrInvalidCredentials))
		assert.False(t, IsAuthentication(ErrUserNotFound))
	})

	t.Run("IsConfiguration", func(t *testing.T) {
		assert.True(t, IsConfiguration(ErrJWTSecretMissing))
		assert.False(t, IsConfiguration(ErrInvalidContext))
	})

	t.Run("ReasonOf plain error", func(t *testing.T) {
		assert.Equal(t, "", ReasonOf(errors.New("boom")))
	})
}
