package errors

import (
	"net/http"
	"testing"

	"indicators/internal/errors"

	"github.com/stretchr/testify/assert"
)

func TestBaseError_WithDetailsKeepsIdentity(t *testing.T) {
	detailed := ErrInvalidDateFormat.WithDetails("Invalid date format: 2024/13/01")

	assert.True(t, errors.Is(detailed, ErrInvalidDateFormat))
	assert.False(t, errors.Is(detailed, ErrValidationFailed))
	assert.Equal(t, http.StatusBadRequest, detailed.HTTPCode())
	assert.Equal(t, "Invalid date format: 2024/13/01", detailed.Details())
	assert.Empty(t, ErrInvalidDateFormat.Details())
}

func TestBaseError_WrappedStillAppError(t *testing.T) {
	err := ErrForbidden.WrapMessage("role USER")

	appErr, ok := errors.Find[AppError](err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusForbidden, appErr.HTTPCode())
	assert.Equal(t, "FORBIDDEN", appErr.ErrorCode())
}

func TestDatabaseExecuteError(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewDatabaseExecuteError(cause, "list entries")

	assert.Equal(t, http.StatusInternalServerError, err.HTTPCode())
	assert.Equal(t, "list entries", err.Details())
	assert.True(t, errors.Is(err, cause))
}
