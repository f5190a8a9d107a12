package errors

import (
	"errors"
	"fmt"
)

// NotFoundError represents an error when an entity is not found
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

// Is enables errors.Is() comparison for NotFoundError
func (e *NotFoundError) Is(target error) bool {
	t, ok := target.(*NotFoundError)
	if !ok {
		return false
	}
	return e.Entity == t.Entity
}

// AlreadyExistsError represents an error when an entity already exists
type AlreadyExistsError struct {
	Entity  string
	Context string // Additional context like "with this email"
}

func (e *AlreadyExistsError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s already exists %s", e.Entity, e.Context)
	}
	return fmt.Sprintf("%s already exists", e.Entity)
}

// Is enables errors.Is() comparison for AlreadyExistsError
func (e *AlreadyExistsError) Is(target error) bool {
	t, ok := target.(*AlreadyExistsError)
	if !ok {
		return false
	}
	return e.Entity == t.Entity
}

// ValidationError represents a validation error. Reason is set when the
// failure came from an access rule and carries its stable code.
type ValidationError struct {
	Field   string
	Message string
	Reason  string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Is matches sentinel validation errors by field and message
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	if !ok {
		return false
	}
	return e.Field == t.Field && e.Message == t.Message
}

// AuthenticationError represents authentication-related errors
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

// AuthorizationError is a policy denial with a stable reason code
type AuthorizationError struct {
	Reason  string
	Message string
}

func (e *AuthorizationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Reason)
	}
	return e.Message
}

// InvalidContextError is raised when a tenant-scoped operation runs without a tenant
type InvalidContextError struct {
	Operation string
}

func (e *InvalidContextError) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("invalid context: no tenant bound for %s", e.Operation)
	}
	return "invalid context: no tenant bound"
}

// ConfigurationError represents configuration-related errors
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

// Entity Not Found Errors
var (
	ErrTenantNotFound        = &NotFoundError{Entity: "tenant"}
	ErrUserNotFound          = &NotFoundError{Entity: "user"}
	ErrProjectNotFound       = &NotFoundError{Entity: "project"}
	ErrProjectMemberNotFound = &NotFoundError{Entity: "project member"}
	ErrTaskNotFound          = &NotFoundError{Entity: "task"}
	ErrNotificationNotFound  = &NotFoundError{Entity: "notification"}
)

// Already Exists Errors
var (
	ErrUserExists          = &AlreadyExistsError{Entity: "user", Context: "with this email"}
	ErrProjectMemberExists = &AlreadyExistsError{Entity: "project member", Context: "for this project"}
)

// Invite Errors
var (
	ErrInviteNotFound    = &ValidationError{Field: "code", Message: "Invalid invite code."}
	ErrInviteAlreadyUsed = &ValidationError{Field: "code", Message: "Invite code has already been used."}
	ErrInviteExpired     = &ValidationError{Field: "code", Message: "Invite code has expired."}
)

// Authentication Errors
var (
	ErrInvalidCredentials = &AuthenticationError{Message: "invalid email or password"}
	ErrInactiveUser       = &AuthenticationError{Message: "user account is disabled"}
	ErrMissingPrincipal   = &AuthenticationError{Message: "authenticated user not found in context"}
)

// Context Errors
var (
	ErrInvalidContext = &InvalidContextError{}
)

// Configuration Errors
var (
	ErrJWTSecretMissing = &ConfigurationError{Message: "JWT_SECRET must be set in production"}
)

// Helper Functions

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.Is(err, &NotFoundError{}) || errors.As(err, &notFoundErr)
}

// IsAlreadyExists checks if an error is an AlreadyExistsError
func IsAlreadyExists(err error) bool {
	var existsErr *AlreadyExistsError
	return errors.Is(err, &AlreadyExistsError{}) || errors.As(err, &existsErr)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsAuthentication checks if an error is an AuthenticationError
func IsAuthentication(err error) bool {
	var authErr *AuthenticationError
	return errors.As(err, &authErr)
}

// IsAuthorization checks if an error is an AuthorizationError
func IsAuthorization(err error) bool {
	var authzErr *AuthorizationError
	return errors.As(err, &authzErr)
}

// IsInvalidContext checks if an error is an InvalidContextError
func IsInvalidContext(err error) bool {
	var ctxErr *InvalidContextError
	return errors.As(err, &ctxErr)
}

// IsConfiguration checks if an error is a ConfigurationError
func IsConfiguration(err error) bool {
	var configErr *ConfigurationError
	return errors.As(err, &configErr)
}

// ReasonOf returns the stable reason code carried by an authorization or
// validation error, or "" when there is none.
func ReasonOf(err error) string {
	var authzErr *AuthorizationError
	if errors.As(err, &authzErr) {
		return authzErr.Reason
	}
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Reason
	}
	return ""
}

// NewNotFoundError creates a new NotFoundError for a custom entity
func NewNotFoundError(entity string) error {
	return &NotFoundError{Entity: entity}
}

// NewAlreadyExistsError creates a new AlreadyExistsError for a custom entity
func NewAlreadyExistsError(entity, context string) error {
	return &AlreadyExistsError{Entity: entity, Context: context}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewRuleValidationError creates a ValidationError that originates from an access rule
func NewRuleValidationError(field, reason, message string) error {
	return &ValidationError{Field: field, Message: message, Reason: reason}
}

// NewAuthenticationError creates a new AuthenticationError
func NewAuthenticationError(message string) error {
	return &AuthenticationError{Message: message}
}

// NewAuthorizationError creates a new AuthorizationError
func NewAuthorizationError(reason, message string) error {
	return &AuthorizationError{Reason: reason, Message: message}
}

// NewInvalidContextError creates a new InvalidContextError for an operation
func NewInvalidContextError(operation string) error {
	return &InvalidContextError{Operation: operation}
}

// NewConfigurationError creates a new ConfigurationError
func NewConfigurationError(message string) error {
	return &ConfigurationError{Message: message}
}
