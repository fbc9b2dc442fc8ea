package memstore

import (
	"context"
	"fmt"

	"github.com/user/taskmanager-go/apperror"
	"github.com/user/taskmanager-go/users"
)

type userRepo struct {
	s *Store
}

func (r *userRepo) Create(_ context.Context, user *users.User) (*users.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Username == user.Username {
			return nil, apperror.NewConflictError(fmt.Sprintf("username '%s' already exists", user.Username), nil)
		}
	}

	r.s.nextUserID++
	created := *user
	created.ID = r.s.nextUserID
	r.s.users[created.ID] = created
	return &created, nil
}

func (r *userRepo) GetByID(_ context.Context, id int64) (*users.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("user with ID %d not found", id), nil)
	}
	return &u, nil
}

func (r *userRepo) GetByUsername(_ context.Context, username string) (*users.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, apperror.NewNotFoundError(fmt.Sprintf("user '%s' not found", username), nil)
}

// Delete removes the user and every task it owns.
func (r *userRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return apperror.NewNotFoundError(fmt.Sprintf("user with ID %d not found", id), nil)
	}
	delete(r.s.users, id)
	for taskID, t := range r.s.tasks {
		if t.UserID != nil && *t.UserID == id {
			delete(r.s.tasks, taskID)
		}
	}
	return nil
}
