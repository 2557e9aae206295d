package auth

import (
	"strings"
	"testing"

	domainerrors "indicators/internal/domain/errors"
	"indicators/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndCheck(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MinCost)

	hash, err := hasher.Hash("admin123")
	require.NoError(t, err)
	assert.NotEqual(t, "admin123", hash)

	assert.True(t, hasher.Check("admin123", hash))
	assert.False(t, hasher.Check("admin124", hash))
	assert.False(t, hasher.Check("", hash))
	assert.False(t, hasher.Check("admin123", "invalid_hash"))
}

func TestBcryptHasher_UsesConfiguredCost(t *testing.T) {
	cfg := newTestConfig("secret")
	cfg.Auth.BcryptCost = 5

	hash, err := NewBcryptHasher(cfg).Hash("admin123")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, 5, cost)
}

func TestBcryptHasher_ClampsCost(t *testing.T) {
	hash, err := NewBcryptHasherWithCost(1).Hash("admin123")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}

func TestBcryptHasher_TooLong(t *testing.T) {
	_, err := NewBcryptHasherWithCost(bcrypt.MinCost).Hash(strings.Repeat("x", 100))
	assert.True(t, errors.Is(err, domainerrors.ErrPasswordHashFailed))
}
