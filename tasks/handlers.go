package tasks

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/user/taskmanager-go/apperror"
)

// Handlers handles HTTP requests for tasks. It decodes requests, delegates to
// the Service and writes responses; it holds no state of its own.
type Handlers struct {
	service *Service
}

// NewHandlers creates new task Handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes registers the flat task routes. Mount it at /api/tasks.
func (h *Handlers) RegisterRoutes(router chi.Router) {
	router.Get("/", h.HandleList())
	router.Post("/", h.HandleCreate())
	router.Get("/{id}", h.HandleGet())
	router.Put("/{id}", h.HandleUpdate())
	router.Delete("/{id}", h.HandleDelete())
}

// RegisterUserRoutes registers the owner-aware task routes. Mount it at
// /api/users/{userId}/tasks.
func (h *Handlers) RegisterUserRoutes(router chi.Router) {
	router.Get("/", h.HandleListByUser())
	router.Post("/", h.HandleCreateForUser())
}

// HandleList godoc
// @Summary List tasks
// @Description Returns every task regardless of owner.
// @Tags tasks
// @Produce json
// @Success 200 {array} Task
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /api/tasks [get]
func (h *Handlers) HandleList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := h.service.List(r.Context())
		if err != nil {
			apperror.WriteError(w, r, err)
			return
		}
		apperror.WriteJSON(w, http.StatusOK, list)
	}
}

// HandleGet godoc
// @Summary Get a task
// @Tags tasks
// @Produce json
// @Param id path int true "Task ID"
// @Success 200 {object} Task
// @Failure 400 {object} apperror.ErrorResponse "Bad Request - Invalid id"
// @Failure 404 "Task not found"
// @Router /api/tasks/{id} [get]
func (h *Handlers) HandleGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			apperror.WriteError(w, r, err)
			return
		}
		task, err := h.service.Get(r.Context(), id)
		if err != nil {
			apperror.WriteError(w, r, err)
			return
		}
		apperror.WriteJSON(w, http.StatusOK, task)
	}
}

// HandleCreate godoc
// @Summary Create a task
// @Description Creates a task that belongs to no user.
// @Tags tasks
// @Accept json
// @Produce json
// @Param task body TaskRequest true "Task to create"
// @Success 201 {object} Task
// @Failure 400 {object} apperror.ErrorResponse "Bad Request - Invalid JSON"
// @Router /api/tasks [post]
func (h *Handlers) HandleCreate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeTaskRequest(r)
		if err != nil {
			apperror.WriteError(w, r, err)
			return
		}
		task, err := h.service.Create(r.Context(), req)
		if err != nil {
			apperror.WriteError(w, r, err)
			return
		}
		apperror.WriteJSON(w, http.StatusCreated, task)
	}
}

// HandleUpdate godoc
// @Summary Replace a task
// @Description Overwrites title, description, priority, dueDate and completed. Omitted fields are reset.
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path int true "Task ID"
// @Param task body TaskRequest true "New task fields"
// @Success 200 {object} Task
// @Failure 400 {object} apperror.ErrorResponse "Bad Request - Invalid id or JSON"
// @Failure 404 "Task not found"
// @Router /api/tasks/{id} [put]
func (h *Handlers) HandleUpdate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			apperror.WriteError(w, r, err)
			return
		}
		req, err := decodeTaskRequest(r)
		if err != nil {
			apperror.WriteError(w, r, err)
			return
		}
		task, err := h.service.Update(r.Context(), id, req)
		if err != nil {
			apperror.WriteError(w, r, err)
			return
		}
		apperror.WriteJSON(w, http.StatusOK, task)
	}
}

// HandleDelete godoc
// @Summary Delete a task
// @Tags tasks
// @Param id path int true "Task ID"
// @Success 204 "Deleted"
// @Failure 400 {object} apperror.ErrorResponse "Bad Request - Invalid id"
// @Failure 404 "Task not found"
// @Router /api/tasks/{id} [delete]
func (h *Handlers) HandleDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			apperror.WriteError(w, r, err)
			return
		}
		if err := h.service.Delete(r.Context(), id); err != nil {
			apperror.WriteError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleListByUser godoc
// @Summary List a user's tasks
// @Description Returns the tasks owned by the user; an unknown user yields an empty list.
// @Tags tasks
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {array} Task
// @Failure 400 {object} apperror.ErrorResponse "Bad Request - Invalid id"
// @Router /api/users/{userId}/tasks [get]
func (h *Handlers) HandleListByUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := pathID(r, "userId")
		if err != nil {
			apperror.WriteError(w, r, err)
			return
		}
		list, err := h.service.ListByUser(r.Context(), userID)
		if err != nil {
			apperror.WriteError(w, r, err)
			return
		}
		apperror.WriteJSON(w, http.StatusOK, list)
	}
}

// HandleCreateForUser godoc
// @Summary Create a task for a user
// @Tags tasks
// @Accept json
// @Produce json
// @Param userId path int true "User ID"
// @Param task body TaskRequest true "Task to create"
// @Success 201 {object} Task
// @Failure 400 {object} apperror.ErrorResponse "Bad Request - Invalid id or JSON"
// @Failure 404 "User not found"
// @Router /api/users/{userId}/tasks [post]
func (h *Handlers) HandleCreateForUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := pathID(r, "userId")
		if err != nil {
			apperror.WriteError(w, r, err)
			return
		}
		req, err := decodeTaskRequest(r)
		if err != nil {
			apperror.WriteError(w, r, err)
			return
		}
		task, err := h.service.CreateForUser(r.Context(), userID, req)
		if err != nil {
			apperror.WriteError(w, r, err)
			return
		}
		apperror.WriteJSON(w, http.StatusCreated, task)
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperror.NewBadRequestError("invalid "+name+": "+raw, err)
	}
	return id, nil
}

func decodeTaskRequest(r *http.Request) (TaskRequest, error) {
	defer r.Body.Close()
	var req TaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return TaskRequest{}, apperror.NewBadRequestError("invalid request body: "+err.Error(), err)
	}
	return req, nil
}
