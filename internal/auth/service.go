package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskflow-backend/internal/database/models"
	apperrors "taskflow-backend/internal/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Token types carried in the claims
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// UserRepository defines the user lookups needed by the auth service
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// AuthService issues and validates tokens for password logins
type AuthService struct {
	config   *AuthConfig
	userRepo UserRepository
	now      func() time.Time
}

// AuthClaims represents JWT token claims
type AuthClaims struct {
	UserID               string `json:"user_id" example:"3fa85f64-5717-4562-b3fc-2c963f66afa6"`
	TenantID             string `json:"tenant_id,omitempty" example:"7c9e6679-7425-40de-944b-e07fc1f90ae7"`
	Email                string `json:"email" example:"jane@acme.test"`
	Role                 string `json:"role" example:"manager"`
	TokenType            string `json:"token_type" example:"access"`
	jwt.RegisteredClaims `swaggerignore:"true"`
}

// LoginRequest represents an email and password login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest represents the request for token refresh
type RefreshTokenRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// TokenResponse represents an issued token pair
type TokenResponse struct {
	Access    string `json:"access" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	Refresh   string `json:"refresh" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	TokenType string `json:"token_type" example:"Bearer"`
	ExpiresIn int64  `json:"expires_in" example:"3600"`
}

// NewAuthService creates a new authentication service
func NewAuthService(config *AuthConfig, userRepo UserRepository) (*AuthService, error) {
	if err := config.ValidateConfig(); err != nil {
		return nil, fmt.Errorf("invalid auth config: %w", err)
	}
	return &AuthService{
		config:   config,
		userRepo: userRepo,
		now:      time.Now,
	}, nil
}

// Login checks the credentials and issues a token pair
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, models.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !CheckPassword(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrInactiveUser
	}
	return s.issue(user)
}

// RefreshToken exchanges a refresh token for a new token pair
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	claims, err := s.ValidateJWT(refreshToken)
	if err != nil {
		return nil, apperrors.NewAuthenticationError("invalid refresh token")
	}
	if claims.TokenType != TokenTypeRefresh {
		return nil, apperrors.NewAuthenticationError("token is not a refresh token")
	}
	user, err := s.loadActive(ctx, claims)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

// Authenticate validates an access token and loads its active user
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := s.ValidateJWT(tokenString)
	if err != nil {
		return nil, apperrors.NewAuthenticationError("invalid token")
	}
	if claims.TokenType != TokenTypeAccess {
		return nil, apperrors.NewAuthenticationError("token is not an access token")
	}
	return s.loadActive(ctx, claims)
}

func (s *AuthService) loadActive(ctx context.Context, claims *AuthClaims) (*models.User, error) {
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, apperrors.NewAuthenticationError("invalid token subject")
	}
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewAuthenticationError("user not found")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrInactiveUser
	}
	return user, nil
}

func (s *AuthService) issue(user *models.User) (*TokenResponse, error) {
	access, err := s.GenerateJWT(user, TokenTypeAccess, s.config.AccessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.GenerateJWT(user, TokenTypeRefresh, s.config.RefreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenResponse{
		Access:    access,
		Refresh:   refresh,
		TokenType: "Bearer",
		ExpiresIn: int64(s.config.AccessTTL.Seconds()),
	}, nil
}

// GenerateJWT creates a signed token of tokenType for user
func (s *AuthService) GenerateJWT(user *models.User, tokenType string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := &AuthClaims{
		UserID:    user.ID.String(),
		Email:     user.Email,
		Role:      string(user.Role),
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.config.Issuer,
			Subject:   user.ID.String(),
			ID:        uuid.NewString(),
		},
	}
	if user.TenantID != nil {
		claims.TenantID = user.TenantID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// ValidateJWT validates and parses a JWT token
func (s *AuthService) ValidateJWT(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	}, jwt.WithIssuer(s.config.Issuer), jwt.WithTimeFunc(s.now))

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims, ok := token.Claims.(*AuthClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}
