// Package server assembles the HTTP surface: the chi router, its middleware
// stack, the health check and the Swagger UI.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	// Registers the generated Swagger spec served at /swagger/doc.json.
	_ "github.com/user/taskmanager-go/docs"
	"github.com/user/taskmanager-go/tasks"
	"github.com/user/taskmanager-go/users"
)

// Pinger reports whether the storage backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options tune the router middleware.
type Options struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
}

// NewRouter wires every route of the API onto a chi router.
func NewRouter(taskHandlers *tasks.Handlers, userHandlers *users.Handlers, pinger Pinger, logger *slog.Logger, opts Options) http.Handler {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 60 * time.Second
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()

	// Chi requires all middleware to be registered before any routes.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(Recoverer(logger))
	r.Use(middleware.Timeout(opts.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Get("/healthz", HandleHealth(pinger, logger))

	r.Route("/api/tasks", taskHandlers.RegisterRoutes)

	r.Route("/api/users", func(r chi.Router) {
		r.Post("/register", userHandlers.HandleRegister())
		r.Route("/{userId}/tasks", taskHandlers.RegisterUserRoutes)
	})

	return r
}
