package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/user/taskmanager-go/apperror"
	"github.com/user/taskmanager-go/dbx"
)

// PostgresRepository stores users in the `users` table.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository binds a repository to a pool, connection or transaction.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *User) (*User, error) {
	query := `
		INSERT INTO users (username, password)
		VALUES ($1, $2)
		RETURNING id
	`
	created := *user
	err := r.db.QueryRow(ctx, query, user.Username, user.Password).Scan(&created.ID)
	if err != nil {
		if _, ok := dbx.IsUniqueViolation(err); ok {
			return nil, apperror.NewConflictError(fmt.Sprintf("username '%s' already exists", user.Username), err)
		}
		return nil, apperror.NewDatabaseError("failed to create user", err)
	}
	return &created, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	query := `SELECT id, username, password FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("user with ID %d not found", id), nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user", err)
	}
	return user, nil
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	query := `SELECT id, username, password FROM users WHERE username = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("user '%s' not found", username), nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user", err)
	}
	return user, nil
}

// Delete removes the user; the tasks.user_id foreign key cascades to its tasks.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return apperror.NewDatabaseError("failed to delete user", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("user with ID %d not found", id), nil)
	}
	return nil
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	if err := row.Scan(&u.ID, &u.Username, &u.Password); err != nil {
		return nil, err
	}
	return &u, nil
}
