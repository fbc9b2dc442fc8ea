package apperror

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// WriteJSON serializes data to JSON and writes it with the given status.
// A nil data writes only the status line and headers.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("response_encode_failed", "error", err)
	}
}

// WriteError converts any error into a standardized response.
//
// NotFound errors produce an empty 404: clients only learn that the resource
// is absent. Every other kind is written as an ErrorResponse body. Errors that
// are not *AppError are treated as internal errors and their text is not sent.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := FromError(err)
	if !ok {
		appErr = NewInternalError("an unexpected error occurred", err)
	}

	status := appErr.StatusCode()
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request_failed",
			"method", r.Method,
			"path", r.URL.Path,
			"kind", appErr.Type.String(),
			"error", appErr.Error(),
		)
	}

	if appErr.Type == NotFoundError {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	WriteJSON(w, status, appErr.ToResponse())
}
