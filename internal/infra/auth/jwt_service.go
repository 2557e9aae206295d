// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"time"

	"indicators/config"
	domainerrors "indicators/internal/domain/errors"
	"indicators/internal/domain/service"
	"indicators/internal/errors"

	"github.com/golang-jwt/jwt/v5"
)

const refreshTypeClaim = "refresh"

// tokenClaims is the JWT payload: sub, exp, iat and, on refresh tokens only, type.
type tokenClaims struct {
	Type string `json:"type,omitempty"`
	jwt.RegisteredClaims
}

// jwtService signs access and refresh tokens with one HS256 secret.
type jwtService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewJWTService is the constructor for jwtService.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	return NewJWTServiceWithClock(cfg, time.Now)
}

// NewJWTServiceWithClock builds the service with an explicit clock.
func NewJWTServiceWithClock(cfg *config.Config, now func() time.Time) (service.TokenService, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("jwt secret must be provided")
	}
	if cfg.Auth == nil || cfg.Auth.AccessTokenTTL <= 0 || cfg.Auth.RefreshTokenTTL <= 0 {
		return nil, errors.New("token lifetimes must be positive")
	}

	return &jwtService{
		secret:     []byte(cfg.SecretKey),
		accessTTL:  cfg.Auth.AccessTokenTTL,
		refreshTTL: cfg.Auth.RefreshTokenTTL,
		now:        now,
	}, nil
}

func (s *jwtService) IssueAccess(subject string) (*service.IssuedToken, error) {
	return s.issue(subject, "", s.accessTTL)
}

func (s *jwtService) IssueRefresh(subject string) (*service.IssuedToken, error) {
	return s.issue(subject, refreshTypeClaim, s.refreshTTL)
}

// Validate verifies signature and expiry, then the token type.
// An access check refuses refresh tokens; a refresh check requires type=refresh.
func (s *jwtService) Validate(tokenString string, expected service.TokenType) (*service.Claims, error) {
	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (any, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, errors.WithStack(domainerrors.ErrInvalidToken)
	}

	switch expected {
	case service.TokenTypeRefresh:
		if claims.Type != refreshTypeClaim {
			return nil, errors.WithStack(domainerrors.ErrInvalidToken)
		}
	case service.TokenTypeAccess:
		if claims.Type == refreshTypeClaim {
			return nil, errors.WithStack(domainerrors.ErrInvalidToken)
		}
	default:
		return nil, errors.WithStack(domainerrors.ErrInvalidToken)
	}

	if claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, errors.WithStack(domainerrors.ErrInvalidToken)
	}

	return &service.Claims{
		Subject:   claims.Subject,
		Type:      expected,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (s *jwtService) RefreshTTL() time.Duration {
	return s.refreshTTL
}

func (s *jwtService) issue(subject, tokenType string, ttl time.Duration) (*service.IssuedToken, error) {
	issuedAt := s.now()
	// NumericDate keeps whole seconds, so two tokens issued within the same
	// second share an exp.
	expiresAt := jwt.NewNumericDate(issuedAt.Add(ttl))

	claims := tokenClaims{
		Type: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: expiresAt,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, errors.Wrap(err, "sign token")
	}

	return &service.IssuedToken{Token: signed, ExpiresAt: expiresAt.Time}, nil
}
