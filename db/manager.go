package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/taskmanager-go/apperror"
	"github.com/user/taskmanager-go/config"
	"github.com/user/taskmanager-go/memstore"
	"github.com/user/taskmanager-go/tasks"
	"github.com/user/taskmanager-go/users"
)

// RepositoryManager vends the repositories for one storage backend and owns
// its connections.
type RepositoryManager interface {
	Users() users.Repository
	Tasks() tasks.Repository
	Ping(ctx context.Context) error
	Close()
}

// PostgresRepositoryManager vends pgx-backed repositories sharing one pool.
type PostgresRepositoryManager struct {
	pool  *pgxpool.Pool
	users *users.PostgresRepository
	tasks *tasks.PostgresRepository
}

// NewPostgresRepositoryManager wraps an open pool.
func NewPostgresRepositoryManager(pool *pgxpool.Pool) *PostgresRepositoryManager {
	return &PostgresRepositoryManager{
		pool:  pool,
		users: users.NewPostgresRepository(pool),
		tasks: tasks.NewPostgresRepository(pool),
	}
}

func (m *PostgresRepositoryManager) Users() users.Repository { return m.users }
func (m *PostgresRepositoryManager) Tasks() tasks.Repository { return m.tasks }

func (m *PostgresRepositoryManager) Ping(ctx context.Context) error {
	return m.pool.Ping(ctx)
}

func (m *PostgresRepositoryManager) Close() {
	m.pool.Close()
}

// Open builds the RepositoryManager selected by cfg.Driver. For Postgres it
// runs pending migrations first when cfg.MigrationsOnStart is set.
func Open(ctx context.Context, cfg *config.StorageConfig, logger *slog.Logger) (RepositoryManager, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		logger.WarnContext(ctx, "storage_in_memory", "note", "data is lost on restart")
		return memstore.New(), nil

	case config.DriverPostgres:
		if cfg.MigrationsOnStart {
			if err := Migrate(cfg.DB, MigrateUp); err != nil {
				return nil, err
			}
			logger.InfoContext(ctx, "migrations_applied")
		}
		pool, err := NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		logger.InfoContext(ctx, "database_connected",
			"host", cfg.DB.Host, "db", cfg.DB.DBName, "max_conns", cfg.DB.MaxSize)
		return NewPostgresRepositoryManager(pool), nil

	default:
		return nil, apperror.NewConfigError(fmt.Sprintf("unknown storage driver %q", cfg.Driver), nil)
	}
}
