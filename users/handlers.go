package users

import (
	"encoding/json"
	"net/http"

	"github.com/user/taskmanager-go/apperror"
)

// Handlers provides HTTP handlers for user registration.
type Handlers struct {
	service *Service
}

// NewHandlers creates new Handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleRegister godoc
// @Summary Register a user
// @Description Creates a user. The password is stored as given.
// @Tags users
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "User to register"
// @Success 201 {object} User "User created"
// @Failure 400 {object} apperror.ErrorResponse "Bad Request - Invalid JSON"
// @Failure 409 {object} apperror.ErrorResponse "Conflict - Username already exists"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /api/users/register [post]
func (h *Handlers) HandleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()

		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apperror.WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), err))
			return
		}

		user, err := h.service.Register(r.Context(), req)
		if err != nil {
			apperror.WriteError(w, r, err)
			return
		}

		apperror.WriteJSON(w, http.StatusCreated, user)
	}
}
