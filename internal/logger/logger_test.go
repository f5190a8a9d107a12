package logger

import (
	"context"
	"testing"

	"taskflow-backend/internal/database/models"
	"taskflow-backend/internal/tenancy"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestWithContextWithoutScope(t *testing.T) {
	l := WithContext(context.Background())
	assert.Equal(t, "unknown", l.Data["user"])
	assert.NotContains(t, l.Data, "tenant_id")
}

func TestWithContextCarriesScope(t *testing.T) {
	tenantID := uuid.New()
	principal := &models.User{Email: "boss@acme.test", TenantID: &tenantID, Role: models.RoleAdmin}
	principal.ID = uuid.New()
	target := &models.User{Email: "emp@acme.test", TenantID: &tenantID, Role: models.RoleEmployee}
	target.ID = uuid.New()

	ctx := tenancy.WithScope(context.Background(), &tenancy.Scope{
		TenantID:      &tenantID,
		Principal:     principal,
		EffectiveUser: target,
	})
	ctx = WithRequestID(ctx, "req-1")

	l := WithContext(ctx)
	assert.Equal(t, "boss@acme.test", l.Data["user"])
	assert.Equal(t, tenantID.String(), l.Data["tenant_id"])
	assert.Equal(t, target.ID.String(), l.Data["effective_user"])
	assert.Equal(t, "req-1", l.Data["request_id"])
}

func TestWithFieldDoesNotMutateParent(t *testing.T) {
	base := New()
	child := base.WithField("k", "v")
	assert.Equal(t, "v", child.Data["k"])
	assert.NotContains(t, base.Data, "k")
}
