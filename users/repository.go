package users

import "context"

// Repository is the persistence contract for users.
//
// Implementations return apperror NotFound errors for unknown ids or usernames
// and apperror Conflict errors when a username is already taken. Delete removes
// every task owned by the user as well.
type Repository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	Delete(ctx context.Context, id int64) error
}
