package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/user/taskmanager-go/apperror"
	"github.com/user/taskmanager-go/dbx"
)

const taskColumns = `id, title, description, priority, due_date, completed, user_id`

// PostgresRepository stores tasks in the `tasks` table.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository binds a repository to a pool, connection or transaction.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY id`
	return r.list(ctx, query)
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1 ORDER BY id`
	return r.list(ctx, query, userID)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]Task, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list tasks", err)
	}
	defer rows.Close()

	tasks := []Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, apperror.NewDatabaseError("failed to scan task", err)
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to list tasks", err)
	}
	return tasks, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	t, err := scanTask(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound(id)
		}
		return nil, apperror.NewDatabaseError("failed to get task", err)
	}
	return t, nil
}

func (r *PostgresRepository) Create(ctx context.Context, task *Task) (*Task, error) {
	query := `
		INSERT INTO tasks (title, description, priority, due_date, completed, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	created := *task
	err := r.db.QueryRow(ctx, query,
		task.Title, task.Description, task.Priority, dateArg(task.DueDate), task.Completed, userIDArg(task.UserID),
	).Scan(&created.ID)
	if err != nil {
		if dbx.IsForeignKeyViolation(err) && task.UserID != nil {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("user with ID %d not found", *task.UserID), err)
		}
		return nil, apperror.NewDatabaseError("failed to create task", err)
	}
	return &created, nil
}

// Update writes every mutable column. user_id is not touched and is read back
// so the returned task carries its current owner.
func (r *PostgresRepository) Update(ctx context.Context, task *Task) (*Task, error) {
	query := `
		UPDATE tasks
		SET title = $1, description = $2, priority = $3, due_date = $4, completed = $5
		WHERE id = $6
		RETURNING user_id
	`
	updated := *task
	err := r.db.QueryRow(ctx, query,
		task.Title, task.Description, task.Priority, dateArg(task.DueDate), task.Completed, task.ID,
	).Scan(&updated.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound(task.ID)
		}
		return nil, apperror.NewDatabaseError("failed to update task", err)
	}
	return &updated, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return apperror.NewDatabaseError("failed to delete task", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound(id)
	}
	return nil
}

func scanTask(row pgx.Row) (*Task, error) {
	var (
		t   Task
		due *time.Time
	)
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Priority, &due, &t.Completed, &t.UserID); err != nil {
		return nil, err
	}
	if due != nil {
		d := DateOf(*due)
		t.DueDate = &d
	}
	return &t, nil
}

// dateArg and userIDArg turn nil pointers into untyped nil so the driver sends NULL.
func dateArg(d *Date) any {
	if d == nil {
		return nil
	}
	return d.Time
}

func userIDArg(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

func notFound(id int64) error {
	return apperror.NewNotFoundError(fmt.Sprintf("task with ID %d not found", id), nil)
}
