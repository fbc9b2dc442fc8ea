package tasks_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/taskmanager-go/tasks"
)

func newTaskRouter(t *testing.T) (http.Handler, *tasks.Service) {
	t.Helper()
	svc, store := newService(t, io.Discard)
	registerUser(t, store, "alice")

	h := tasks.NewHandlers(svc)
	r := chi.NewRouter()
	r.Route("/api/tasks", h.RegisterRoutes)
	r.Route("/api/users/{userId}/tasks", h.RegisterUserRoutes)
	return r, svc
}

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, reader))
	return rec
}

func TestHandlers_CreateAndGet(t *testing.T) {
	h, _ := newTaskRouter(t)

	rec := serve(h, http.MethodPost, "/api/tasks", `{"title":"Write report","description":"q3","dueDate":"2025-03-31"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t,
		`{"id":1,"title":"Write report","description":"q3","priority":null,"dueDate":"2025-03-31","completed":false}`,
		rec.Body.String())

	rec = serve(h, http.MethodGet, "/api/tasks/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"id":1,"title":"Write report","description":"q3","priority":null,"dueDate":"2025-03-31","completed":false}`,
		rec.Body.String())
}

func TestHandlers_CreateForUserAndList(t *testing.T) {
	h, _ := newTaskRouter(t)

	rec := serve(h, http.MethodPost, "/api/users/1/tasks", `{"title":"Buy milk","priority":"LOW"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = serve(h, http.MethodPost, "/api/tasks", `{"title":"Loose"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = serve(h, http.MethodGet, "/api/users/1/tasks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var owned []tasks.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &owned))
	require.Len(t, owned, 1)
	assert.Equal(t, "Buy milk", owned[0].Title)

	rec = serve(h, http.MethodGet, "/api/tasks", "")
	var all []tasks.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	assert.Len(t, all, 2)
}

func TestHandlers_CreateForUnknownUser(t *testing.T) {
	h, svc := newTaskRouter(t)

	rec := serve(h, http.MethodPost, "/api/users/99/tasks", `{"title":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Body.String())

	all, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestHandlers_UpdateReplacesAllFields(t *testing.T) {
	h, _ := newTaskRouter(t)

	require.Equal(t, http.StatusCreated,
		serve(h, http.MethodPost, "/api/tasks", `{"title":"t","priority":"HIGH","description":"d","completed":true}`).Code)

	rec := serve(h, http.MethodPut, "/api/tasks/1", `{"title":"only title"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"id":1,"title":"only title","description":null,"priority":null,"dueDate":null,"completed":false}`,
		rec.Body.String())
}

func TestHandlers_NotFoundAndBadRequest(t *testing.T) {
	h, _ := newTaskRouter(t)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{"get missing", http.MethodGet, "/api/tasks/5", "", http.StatusNotFound},
		{"put missing", http.MethodPut, "/api/tasks/5", `{"title":"x"}`, http.StatusNotFound},
		{"delete missing", http.MethodDelete, "/api/tasks/5", "", http.StatusNotFound},
		{"get bad id", http.MethodGet, "/api/tasks/five", "", http.StatusBadRequest},
		{"put bad json", http.MethodPut, "/api/tasks/1", `{`, http.StatusBadRequest},
		{"list bad user id", http.MethodGet, "/api/users/x/tasks", "", http.StatusBadRequest},
		{"create empty body", http.MethodPost, "/api/tasks", "", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusNotFound {
				assert.Empty(t, rec.Body.String())
			}
		})
	}
}

func TestHandlers_Delete(t *testing.T) {
	h, _ := newTaskRouter(t)

	require.Equal(t, http.StatusCreated, serve(h, http.MethodPost, "/api/tasks", `{"title":"t"}`).Code)

	rec := serve(h, http.MethodDelete, "/api/tasks/1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	assert.Equal(t, http.StatusNotFound, serve(h, http.MethodGet, "/api/tasks/1", "").Code)
}
