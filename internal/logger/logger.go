package logger

import (
	"context"

	"taskflow-backend/internal/tenancy"

	"github.com/sirupsen/logrus"
)

type requestIDKey struct{}

// Logger wraps logrus for structured logging with context support
type Logger struct {
	*logrus.Entry
}

// New creates a new logger
func New() *Logger {
	return &Logger{
		Entry: logrus.NewEntry(logrus.StandardLogger()),
	}
}

// WithRequestID stores the request id for later log entries
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the request id stored in ctx, if any
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// WithContext creates a logger carrying the request id and tenant scope found in ctx
func WithContext(ctx context.Context) *Logger {
	logger := New()

	if id := RequestID(ctx); id != "" {
		logger.Entry = logger.Entry.WithField("request_id", id)
	}

	scope, ok := tenancy.FromContext(ctx)
	if !ok {
		logger.Entry = logger.Entry.WithField("user", "unknown")
		return logger
	}
	if scope.TenantID != nil {
		logger.Entry = logger.Entry.WithField("tenant_id", scope.TenantID.String())
	}
	if scope.Principal != nil {
		logger.Entry = logger.Entry.WithField("user", scope.Principal.Email)
	} else {
		logger.Entry = logger.Entry.WithField("user", "unknown")
	}
	if scope.Impersonating() {
		logger.Entry = logger.Entry.WithField("effective_user", scope.EffectiveUser.ID.String())
	}

	return logger
}

// WithField adds a field to the logger
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{
		Entry: l.Entry.WithField(key, value),
	}
}

// WithFields adds multiple fields to the logger
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	return &Logger{
		Entry: l.Entry.WithFields(fields),
	}
}

// WithError adds an error to the logger
func (l *Logger) WithError(err error) *Logger {
	return &Logger{
		Entry: l.Entry.WithError(err),
	}
}
