package testutils

import (
	"testing"
	"time"

	"taskflow-backend/internal/database/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestFixtureOrg(t *testing.T) {
	db := NewSQLiteDB(t)
	f := NewFixture(t, db)

	org := f.Org("Acme")

	require.NotNil(t, org.Tenant.OwnerID)
	assert.Equal(t, org.SuperAdmin.ID, *org.Tenant.OwnerID)
	assert.True(t, org.Employee.ReportsTo(org.Manager.ID))
	assert.True(t, org.Manager.ReportsTo(org.Admin.ID))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(org.Admin.PasswordHash), []byte(DefaultPassword)))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("tenant_id = ?", org.Tenant.ID).Count(&count).Error)
	assert.Equal(t, int64(6), count)
}

func TestFixtureRowsShareTenant(t *testing.T) {
	f := NewFixture(t, NewSQLiteDB(t))
	org := f.Org("Acme")

	project := f.Project(org.Manager, "Apollo")
	task := f.Task(project, org.Manager, org.Employee, "Ship")
	invite := f.Invite(org.Admin, models.RoleEmployee, time.Hour)

	assert.Equal(t, org.Tenant.ID, project.TenantID)
	assert.Equal(t, org.Tenant.ID, task.TenantID)
	assert.Equal(t, org.Tenant.ID, invite.TenantID)
	assert.Len(t, invite.Code, 22)
	assert.False(t, invite.Expired(time.Now()))
}
