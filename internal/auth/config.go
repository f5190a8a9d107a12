package auth

import (
	"fmt"
	"time"
)

// Default token lifetimes
const (
	DefaultAccessTTL  = 60 * time.Minute
	DefaultRefreshTTL = 24 * time.Hour
	DefaultIssuer     = "taskflow-backend"
)

// AuthConfig holds the token settings of the API
type AuthConfig struct {
	JWTSecret  string        `yaml:"jwt_secret" json:"jwt_secret"`
	AccessTTL  time.Duration `yaml:"access_ttl" json:"access_ttl"`
	RefreshTTL time.Duration `yaml:"refresh_ttl" json:"refresh_ttl"`
	Issuer     string        `yaml:"issuer" json:"issuer"`
}

// NewAuthConfig builds a config with defaults for the unset lifetimes
func NewAuthConfig(secret string, accessTTL time.Duration) *AuthConfig {
	cfg := &AuthConfig{
		JWTSecret:  secret,
		AccessTTL:  accessTTL,
		RefreshTTL: DefaultRefreshTTL,
		Issuer:     DefaultIssuer,
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = DefaultAccessTTL
	}
	return cfg
}

// ValidateConfig validates the authentication configuration
func (c *AuthConfig) ValidateConfig() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if c.AccessTTL <= 0 {
		return fmt.Errorf("access token lifetime must be positive")
	}
	if c.RefreshTTL < c.AccessTTL {
		return fmt.Errorf("refresh token lifetime must not be shorter than the access token lifetime")
	}
	return nil
}
