// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"indicators/internal/domain/entity"
)

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// TokenPair is the outcome of a successful login, refresh or seed.
// The refresh token travels in a cookie only, never in a response body.
type TokenPair struct {
	AccessToken  string
	TokenType    string
	Role         entity.Role
	Email        string
	RefreshToken string
	RefreshTTL   time.Duration
}

// AuthUsecase defines the token lifecycle and the access check behind every guarded route.
type AuthUsecase interface {
	Login(ctx context.Context, input LoginInput) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)

	// SeedAdmin creates the configured bootstrap administrator when absent and signs it in.
	SeedAdmin(ctx context.Context) (*TokenPair, error)

	// Authenticate resolves an access token to a currently active user.
	Authenticate(ctx context.Context, accessToken string) (*entity.User, error)
}
