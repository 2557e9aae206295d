package service

import "time"

// TokenType distinguishes access tokens from refresh tokens.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims is the validated content of a token.
type Claims struct {
	Subject   string
	Type      TokenType
	ExpiresAt time.Time
}

// IssuedToken is a signed token and its expiry.
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}

// TokenService signs and verifies bearer tokens.
type TokenService interface {
	IssueAccess(subject string) (*IssuedToken, error)
	IssueRefresh(subject string) (*IssuedToken, error)

	// Validate checks signature, expiry and type. Every failure is domainerrors.ErrInvalidToken.
	Validate(token string, expected TokenType) (*Claims, error)

	RefreshTTL() time.Duration
}
