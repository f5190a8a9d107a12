package config

import (
	"testing"

	apperrors "taskflow-backend/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Environment:    "development",
		DatabaseDriver: "postgres",
		DatabaseName:   "taskflow",
		JWTSecret:      defaultJWTSecret,
		JWTTTLMinutes:  60,
		InviteTTLHours: 168,
	}
}

func TestValidate(t *testing.T) {
	t.Run("development accepts default secret", func(t *testing.T) {
		assert.NoError(t, validate(validConfig()))
	})

	t.Run("production refuses default secret", func(t *testing.T) {
		cfg := validConfig()
		cfg.Environment = "production"
		err := validate(cfg)
		assert.ErrorIs(t, err, apperrors.ErrJWTSecretMissing)
		assert.True(t, apperrors.IsConfiguration(err))
	})

	t.Run("unknown driver", func(t *testing.T) {
		cfg := validConfig()
		cfg.DatabaseDriver = "mysql"
		assert.True(t, apperrors.IsConfiguration(validate(cfg)))
	})

	t.Run("non-positive lifetimes", func(t *testing.T) {
		cfg := validConfig()
		cfg.JWTTTLMinutes = 0
		assert.Error(t, validate(cfg))

		cfg = validConfig()
		cfg.InviteTTLHours = -1
		assert.Error(t, validate(cfg))
	})
}

func TestBuildDatabaseURL(t *testing.T) {
	cfg := &Config{
		DatabaseDriver:   "postgres",
		DatabaseUser:     "u",
		DatabasePassword: "p",
		DatabaseHost:     "db",
		DatabasePort:     "5432",
		DatabaseName:     "taskflow",
		DatabaseSSLMode:  "disable",
	}
	assert.Equal(t, "postgres://u:p@db:5432/taskflow?sslmode=disable", buildDatabaseURL(cfg))

	cfg.DatabaseDriver = "sqlite"
	assert.Equal(t, "file:taskflow.db", buildDatabaseURL(cfg))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"http://a", "http://b"}, splitList(" http://a, ,http://b "))
	assert.Nil(t, splitList(""))
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DB_NAME", "envdb")
	t.Setenv("JWT_TTL_MINUTES", "15")
	t.Setenv("INVITE_TTL_HOURS", "24")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, "file:envdb.db", cfg.DatabaseURL)
	assert.Equal(t, 15*60.0, cfg.AccessTokenTTL().Seconds())
	assert.Equal(t, 24*3600.0, cfg.InviteTTL().Seconds())
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}
