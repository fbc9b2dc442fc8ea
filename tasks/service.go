// Package tasks is responsible for the task lifecycle: listing, creating,
// replacing and deleting tasks, and tying a task to the user that owns it.
// This file, `service.go`, contains the business logic; `handlers.go` maps it to HTTP.
package tasks

import (
	"context"
	"log/slog"

	"github.com/user/taskmanager-go/users"
)

// UserFinder resolves a user id. users.Repository satisfies it.
type UserFinder interface {
	GetByID(ctx context.Context, id int64) (*users.User, error)
}

// Service orchestrates tasks over a Repository and checks ownership through a UserFinder.
//
// Any caller can read, replace or delete any task by id; ownership is only
// enforced when a task is created for a user.
type Service struct {
	repo   Repository
	users  UserFinder
	logger *slog.Logger
}

// NewService creates a new task Service.
func NewService(repo Repository, userFinder UserFinder, logger *slog.Logger) *Service {
	return &Service{repo: repo, users: userFinder, logger: logger}
}

// List returns every task in the store.
func (s *Service) List(ctx context.Context) ([]Task, error) {
	return s.repo.List(ctx)
}

// ListByUser returns the tasks owned by userID. An unknown user simply owns nothing.
func (s *Service) ListByUser(ctx context.Context, userID int64) ([]Task, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Get returns the task with the given id or a NotFound error.
func (s *Service) Get(ctx context.Context, id int64) (*Task, error) {
	return s.repo.GetByID(ctx, id)
}

// Create persists a task with no owner.
func (s *Service) Create(ctx context.Context, req TaskRequest) (*Task, error) {
	task, err := s.repo.Create(ctx, req.ToTask())
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "task_created", "task_id", task.ID)
	return task, nil
}

// CreateForUser persists a task owned by userID. When the user does not exist
// it returns the lookup's NotFound error and nothing is written.
func (s *Service) CreateForUser(ctx context.Context, userID int64, req TaskRequest) (*Task, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	task := req.ToTask()
	task.UserID = &user.ID

	created, err := s.repo.Create(ctx, task)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "task_created", "task_id", created.ID, "user_id", user.ID)
	return created, nil
}

// Update replaces title, description, priority, due date and completed with
// the values in req. Fields left out of req are stored as their zero values.
func (s *Service) Update(ctx context.Context, id int64, req TaskRequest) (*Task, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Apply(req)

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "task_updated", "task_id", id)
	return updated, nil
}

// Delete removes the task or returns a NotFound error.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "task_deleted", "task_id", id)
	return nil
}
