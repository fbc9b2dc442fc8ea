package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/taskmanager-go/memstore"
	"github.com/user/taskmanager-go/server"
	"github.com/user/taskmanager-go/tasks"
	"github.com/user/taskmanager-go/users"
)

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("connection refused") }

func newTestRouter(t *testing.T) (http.Handler, *memstore.Store) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memstore.New()

	userService := users.NewService(store.Users(), logger)
	taskService := tasks.NewService(store.Tasks(), store.Users(), logger)

	router := server.NewRouter(
		tasks.NewHandlers(taskService),
		users.NewHandlers(userService),
		store,
		logger,
		server.Options{},
	)
	return router, store
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestScenario_RegisterCreateReplaceDelete(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/api/users/register", `{"username":"alice","password":"x"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	user := decodeMap(t, rec)
	assert.EqualValues(t, 1, user["id"])
	assert.Equal(t, "alice", user["username"])
	assert.Equal(t, "x", user["password"])

	rec = do(t, h, http.MethodPost, "/api/users/1/tasks", `{"title":"Buy milk","priority":"LOW","dueDate":"2025-01-01"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	task := decodeMap(t, rec)
	assert.EqualValues(t, 1, task["id"])
	assert.Equal(t, "Buy milk", task["title"])
	assert.Equal(t, "LOW", task["priority"])
	assert.Equal(t, "2025-01-01", task["dueDate"])
	assert.Equal(t, false, task["completed"])
	assert.Nil(t, task["description"])
	assert.NotContains(t, task, "user", "owner is not serialized")

	rec = do(t, h, http.MethodGet, "/api/users/1/tasks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var owned []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &owned))
	require.Len(t, owned, 1)
	assert.EqualValues(t, 1, owned[0]["id"])
	assert.Equal(t, "Buy milk", owned[0]["title"])

	rec = do(t, h, http.MethodPut, "/api/tasks/1",
		`{"title":"Buy milk and eggs","completed":true,"priority":null,"description":null,"dueDate":null}`)
	require.Equal(t, http.StatusOK, rec.Code)
	replaced := decodeMap(t, rec)
	assert.Equal(t, "Buy milk and eggs", replaced["title"])
	assert.Equal(t, true, replaced["completed"])
	assert.Nil(t, replaced["priority"])
	assert.Nil(t, replaced["description"])
	assert.Nil(t, replaced["dueDate"])

	// Replacing does not detach the task from its owner.
	rec = do(t, h, http.MethodGet, "/api/users/1/tasks", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &owned))
	require.Len(t, owned, 1)

	rec = do(t, h, http.MethodDelete, "/api/tasks/1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/tasks/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestFlatTaskRoutes(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/api/tasks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/api/tasks", `{"title":"loose"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/tasks/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "loose", decodeMap(t, rec)["title"])

	rec = do(t, h, http.MethodGet, "/api/tasks", "")
	var all []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	assert.Len(t, all, 1)
}

func TestCreateForUnknownUserIsNotFound(t *testing.T) {
	h, store := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/api/users/5/tasks", `{"title":"orphan"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	all, err := store.Tasks().List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestListForUnknownUserIsEmpty(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/api/users/5/tasks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestDuplicateRegistrationIsConflict(t *testing.T) {
	h, _ := newTestRouter(t)

	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/users/register", `{"username":"alice","password":"x"}`).Code)

	rec := do(t, h, http.MethodPost, "/api/users/register", `{"username":"alice","password":"y"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, decodeMap(t, rec)["error"], "alice")
}

func TestUserDeletionCascadesOverHTTPView(t *testing.T) {
	h, store := newTestRouter(t)

	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/users/register", `{"username":"alice","password":"x"}`).Code)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/users/1/tasks", `{"title":"a"}`).Code)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/users/1/tasks", `{"title":"b"}`).Code)

	require.NoError(t, store.Users().Delete(context.Background(), 1))

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/tasks/1", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/tasks/2", "").Code)
	assert.JSONEq(t, `[]`, do(t, h, http.MethodGet, "/api/tasks", "").Body.String())
}

func TestBadInput(t *testing.T) {
	h, _ := newTestRouter(t)

	cases := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"non-numeric task id", http.MethodGet, "/api/tasks/abc", ""},
		{"non-numeric user id", http.MethodGet, "/api/users/abc/tasks", ""},
		{"malformed task json", http.MethodPost, "/api/tasks", `{"title":`},
		{"malformed due date", http.MethodPost, "/api/tasks", `{"title":"t","dueDate":"01/02/2025"}`},
		{"malformed register json", http.MethodPost, "/api/users/register", `nope`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, h, tc.method, tc.path, tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, decodeMap(t, rec)["error"])
		})
	}
}

func TestHealth(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHealth_StorageDown(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rec := httptest.NewRecorder()
	server.HandleHealth(failingPinger{}, logger)(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"unavailable"}`, rec.Body.String())
}

func TestSwaggerDocServed(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/swagger/doc.json", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/users/{userId}/tasks")
}
