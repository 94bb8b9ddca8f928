package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorsMapToStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    *Error
		typ    ErrorType
		status int
	}{
		{"validation", ValidationError("bad score"), TypeValidation, http.StatusBadRequest},
		{"not found", NotFoundError("project not found"), TypeNotFound, http.StatusNotFound},
		{"conflict", ConflictError("already voted"), TypeConflict, http.StatusConflict},
		{"unauthorized", UnauthorizedError("login required"), TypeUnauthorized, http.StatusUnauthorized},
		{"forbidden", ForbiddenError("admin only"), TypeForbidden, http.StatusForbidden},
		{"internal", InternalError("boom", errors.New("db down")), TypeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.typ, tt.err.Type)
			assert.Equal(t, tt.status, tt.err.HTTPStatus())
			assert.NotNil(t, tt.err.Context)
			assert.Contains(t, tt.err.Error(), string(tt.typ))
		})
	}
}

func TestInternalErrorUnwrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := InternalError("failed to save vote", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestWithContext(t *testing.T) {
	err := ConflictError("already rated").WithContext("project_id", "p1")

	assert.Equal(t, "p1", err.Context["project_id"])
}

func TestIs(t *testing.T) {
	wrapped := fmt.Errorf("castVote: %w", ConflictError("already voted"))

	assert.True(t, Is(wrapped, TypeConflict))
	assert.False(t, Is(wrapped, TypeValidation))
	assert.False(t, Is(errors.New("plain"), TypeConflict))
}

func TestAsStructuredError(t *testing.T) {
	assert.Nil(t, AsStructuredError(nil))

	original := NotFoundError("criteria not found")
	assert.Same(t, original, AsStructuredError(fmt.Errorf("wrap: %w", original)))

	plain := errors.New("timeout")
	structured := AsStructuredError(plain)
	require.NotNil(t, structured)
	assert.Equal(t, TypeInternal, structured.Type)
	assert.ErrorIs(t, structured, plain)
}
