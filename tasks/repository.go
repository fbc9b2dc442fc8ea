package tasks

import "context"

// Repository is the persistence contract for tasks.
//
// Lists are never nil. GetByID, Update and Delete return apperror NotFound
// errors for unknown ids.
type Repository interface {
	List(ctx context.Context) ([]Task, error)
	ListByUser(ctx context.Context, userID int64) ([]Task, error)
	GetByID(ctx context.Context, id int64) (*Task, error)
	Create(ctx context.Context, task *Task) (*Task, error)
	Update(ctx context.Context, task *Task) (*Task, error)
	Delete(ctx context.Context, id int64) error
}
