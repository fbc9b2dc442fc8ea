// Package db provides database connectivity and migration functionality for the task manager.
// It creates the pgx connection pool, applies the embedded schema migrations with
// golang-migrate, and vends repositories for whichever storage driver is configured.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	// lib/pq backs the database/sql connection golang-migrate's postgres driver runs on.
	_ "github.com/lib/pq"

	"github.com/user/taskmanager-go/apperror"
	"github.com/user/taskmanager-go/config"
	"github.com/user/taskmanager-go/db/migrations"
)

// Migration directions accepted by Migrate.
const (
	MigrateUp   = "up"
	MigrateDown = "down"
)

// NewPool establishes a pgxpool connection pool and verifies it with a ping.
func NewPool(ctx context.Context, cfg *config.PoolConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, apperror.NewDatabaseError(fmt.Sprintf("error parsing DSN for database %s", cfg.DBName), err)
	}

	poolConfig.MaxConns = int32(cfg.MaxSize)
	poolConfig.MaxConnIdleTime = 10 * time.Minute
	poolConfig.MaxConnLifetime = 30 * time.Minute

	createCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(createCtx, poolConfig)
	if err != nil {
		return nil, apperror.NewDatabaseError(fmt.Sprintf("error creating pgxpool for database %s", cfg.DBName), err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, apperror.NewDatabaseError(fmt.Sprintf("error connecting to the database %s with pgxpool", cfg.DBName), err)
	}

	return pool, nil
}

// Migrate applies (up) or rolls back (down) the embedded migrations.
// Having nothing to do is not an error.
func Migrate(cfg *config.PoolConfig, direction string) error {
	m, err := newMigrator(cfg)
	if err != nil {
		return err
	}
	defer func() {
		// Close reports source and database errors separately; neither changes the outcome.
		_, _ = m.Close()
	}()

	switch direction {
	case MigrateUp:
		err = m.Up()
	case MigrateDown:
		err = m.Down()
	default:
		return apperror.NewMigrationError(fmt.Sprintf("unknown migration direction %q", direction), nil)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return apperror.NewMigrationError("failed to run migrations "+direction, err)
	}
	return nil
}

func newMigrator(cfg *config.PoolConfig) (*migrate.Migrate, error) {
	sqlDB, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, apperror.NewMigrationError("failed to open migration connection", err)
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		sqlDB.Close()
		return nil, apperror.NewMigrationError("failed to create migration driver", err)
	}

	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		sqlDB.Close()
		return nil, apperror.NewMigrationError("failed to read embedded migrations", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		sqlDB.Close()
		return nil, apperror.NewMigrationError("failed to create migrator", err)
	}
	return m, nil
}
