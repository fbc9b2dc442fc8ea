// This is the main entry point of the task manager service.
// It loads configuration, opens the configured storage, wires services and
// handlers, and serves the HTTP API with graceful shutdown. A `migrate`
// subcommand applies or rolls back the database schema.
//
// @title Task Manager API
// @version 1.0
// @description API for registering users and managing their tasks.
// @contact.name API Support
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @BasePath /
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/user/taskmanager-go/config"
	"github.com/user/taskmanager-go/db"
	"github.com/user/taskmanager-go/logging"
	"github.com/user/taskmanager-go/server"
	"github.com/user/taskmanager-go/tasks"
	"github.com/user/taskmanager-go/users"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		slog.Error("application_failed", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "taskmanager",
		Usage: "task management HTTP service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Value: ".env",
				Usage: "dotenv file loaded before reading the environment",
			},
		},
		Before: func(c *cli.Context) error {
			// Variables already set in the environment win over the file.
			if err := godotenv.Load(c.String("env-file")); err != nil {
				slog.Warn("env_file_not_loaded", "path", c.String("env-file"), "error", err)
			}
			return nil
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API",
				Action: serve,
			},
			{
				Name:  "migrate",
				Usage: "apply or roll back the database schema",
				Subcommands: []*cli.Command{
					{
						Name:   db.MigrateUp,
						Usage:  "apply all pending migrations",
						Action: migrateAction(db.MigrateUp),
					},
					{
						Name:   db.MigrateDown,
						Usage:  "roll back every migration",
						Action: migrateAction(db.MigrateDown),
					},
				},
			},
		},
	}
}

func loadConfig() (*config.AppConfig, *slog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger := logging.New(cfg.Log, os.Stdout)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func migrateAction(direction string) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Storage.Driver != config.DriverPostgres {
			return fmt.Errorf("migrations need STORAGE_DRIVER=%s, got %q", config.DriverPostgres, cfg.Storage.Driver)
		}
		if err := db.Migrate(cfg.Storage.DB, direction); err != nil {
			return err
		}
		logger.InfoContext(c.Context, "migrations_complete", "direction", direction)
		return nil
	}
}

func serve(c *cli.Context) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, err := db.Open(ctx, cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer repos.Close()

	// Services get their dependencies through constructors.
	userService := users.NewService(repos.Users(), logger)
	taskService := tasks.NewService(repos.Tasks(), repos.Users(), logger)

	router := server.NewRouter(
		tasks.NewHandlers(taskService),
		users.NewHandlers(userService),
		repos,
		logger,
		server.Options{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			RequestTimeout: cfg.Server.WriteTimeout,
		},
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server_starting", "addr", srv.Addr, "storage", cfg.Storage.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("server_shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logger.Info("server_stopped")
	return nil
}
