// Package users encapsulates user registration.
// This file, `service.go`, holds the business logic; `handlers.go` exposes it over HTTP
// and `postgres_repository.go` persists it.
package users

import (
	"context"
	"log/slog"
)

// Service provides user operations. Registration is the only one exposed;
// reading, updating and deleting users are not part of the API.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new Service. Dependencies are injected explicitly.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Register persists a new user as given and returns it with its assigned id.
// The password is not hashed. A duplicate username comes back from the store
// as a Conflict error.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	user, err := s.repo.Create(ctx, &User{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "user_registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}
