// Package memstore keeps users and tasks in process memory. It follows the
// same rules as the PostgreSQL schema: ids come from per-table sequences,
// usernames are unique, a task can only reference an existing user, and
// deleting a user deletes its tasks. Data is lost on restart.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/user/taskmanager-go/tasks"
	"github.com/user/taskmanager-go/users"
)

// Store holds both tables behind one mutex so cascades are atomic.
type Store struct {
	mu         sync.RWMutex
	users      map[int64]users.User
	tasks      map[int64]tasks.Task
	nextUserID int64
	nextTaskID int64
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		users: make(map[int64]users.User),
		tasks: make(map[int64]tasks.Task),
	}
}

// Users returns a users.Repository backed by the store.
func (s *Store) Users() users.Repository {
	return &userRepo{s: s}
}

// Tasks returns a tasks.Repository backed by the store.
func (s *Store) Tasks() tasks.Repository {
	return &taskRepo{s: s}
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error {
	return nil
}

// Close is a no-op.
func (s *Store) Close() {}

// sortedTasks returns the tasks accepted by keep, ordered by id.
// Callers must hold at least the read lock.
func (s *Store) sortedTasks(keep func(tasks.Task) bool) []tasks.Task {
	out := []tasks.Task{}
	for _, t := range s.tasks {
		if keep(t) {
			out = append(out, cloneTask(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// cloneTask copies the pointer fields so callers cannot mutate stored state.
func cloneTask(t tasks.Task) tasks.Task {
	if t.Description != nil {
		v := *t.Description
		t.Description = &v
	}
	if t.Priority != nil {
		v := *t.Priority
		t.Priority = &v
	}
	if t.DueDate != nil {
		v := *t.DueDate
		t.DueDate = &v
	}
	if t.UserID != nil {
		v := *t.UserID
		t.UserID = &v
	}
	return t
}
