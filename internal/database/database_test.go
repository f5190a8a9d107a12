package database

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func memoryDSN() string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
}

func TestInitializeSQLite(t *testing.T) {
	db, err := Initialize(memoryDSN(), &Options{Driver: DriverSQLite, LogLevel: logger.Silent})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	var timeout int
	require.NoError(t, db.Raw(`PRAGMA busy_timeout`).Scan(&timeout).Error)
	assert.Equal(t, 5000, timeout)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)

	for _, table := range []string{"tenants", "users", "invites", "projects", "project_members", "tasks", "notifications"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestInitializeSkipMigrate(t *testing.T) {
	db, err := Initialize(memoryDSN(), &Options{Driver: DriverSQLite, LogLevel: logger.Silent, SkipMigrate: true})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	assert.False(t, db.Migrator().HasTable("users"))
}

func TestInitializeUnsupportedDriver(t *testing.T) {
	_, err := Initialize("whatever", &Options{Driver: "mysql"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported database driver "mysql"`)
}
