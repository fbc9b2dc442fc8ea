package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/user/taskmanager-go/apperror"
)

// RequestLogger logs one "http_request" line per request once the handler returns.
func RequestLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			logger.InfoContext(r.Context(), "http_request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"ip", r.RemoteAddr,
				"request_id", middleware.GetReqID(r.Context()),
				"duration", time.Since(start).String(),
			)
		})
	}
}

// Recoverer turns a panic in a handler into a 500 response in the usual error
// envelope. http.ErrAbortHandler is re-raised so the server can abort the connection.
func Recoverer(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr == http.ErrAbortHandler {
						panic(rvr)
					}
					logger.ErrorContext(r.Context(), "panic_recovered",
						"panic", fmt.Sprintf("%+v", rvr),
						"request_id", middleware.GetReqID(r.Context()),
					)
					apperror.WriteError(w, r, apperror.NewInternalError("internal server error", nil))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
