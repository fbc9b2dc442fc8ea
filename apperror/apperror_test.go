package apperror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_StatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want int
	}{
		{"not found", NewNotFoundError("x", nil), http.StatusNotFound},
		{"bad request", NewBadRequestError("x", nil), http.StatusBadRequest},
		{"conflict", NewConflictError("x", nil), http.StatusConflict},
		{"database", NewDatabaseError("x", nil), http.StatusInternalServerError},
		{"config", NewConfigError("x", nil), http.StatusInternalServerError},
		{"migration", NewMigrationError("x", nil), http.StatusInternalServerError},
		{"internal", NewInternalError("x", nil), http.StatusInternalServerError},
		{"unknown", NewAppError(UnknownError, "x", nil), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.err.StatusCode())
		})
	}
}

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewDatabaseError("failed to list tasks", cause)

	assert.Equal(t, "failed to list tasks: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "plain", NewBadRequestError("plain", nil).Error())
}

func TestPredicates_SeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("service: %w", NewNotFoundError("task 7 not found", nil))

	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsConflictError(wrapped))
	assert.True(t, IsConflictError(NewConflictError("taken", nil)))
	assert.True(t, IsBadRequest(NewBadRequestError("bad", nil)))
	assert.False(t, IsNotFound(errors.New("plain")))
	assert.False(t, IsNotFound(nil))

	ae, ok := FromError(wrapped)
	require.True(t, ok)
	assert.Equal(t, NotFoundError, ae.Type)

	_, ok = FromError(nil)
	assert.False(t, ok)
}

func TestWriteError_NotFoundHasEmptyBody(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/tasks/9", nil)

	WriteError(rec, req, NewNotFoundError("task 9 not found", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestWriteError_ConflictBody(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/users/register", nil)

	WriteError(rec, req, NewConflictError("username already exists", nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "username already exists", body.Error)
}

func TestWriteError_PlainErrorHidesDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)

	WriteError(rec, req, errors.New("dial tcp 10.0.0.1:5432: secret detail"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret detail")
}

func TestWriteJSON_NilData(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusNoContent, nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}
