package memstore

import (
	"context"
	"fmt"

	"github.com/user/taskmanager-go/apperror"
	"github.com/user/taskmanager-go/tasks"
)

type taskRepo struct {
	s *Store
}

func (r *taskRepo) List(_ context.Context) ([]tasks.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.s.sortedTasks(func(tasks.Task) bool { return true }), nil
}

func (r *taskRepo) ListByUser(_ context.Context, userID int64) ([]tasks.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.s.sortedTasks(func(t tasks.Task) bool {
		return t.UserID != nil && *t.UserID == userID
	}), nil
}

func (r *taskRepo) GetByID(_ context.Context, id int64) (*tasks.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tasks[id]
	if !ok {
		return nil, notFound(id)
	}
	t = cloneTask(t)
	return &t, nil
}

func (r *taskRepo) Create(_ context.Context, task *tasks.Task) (*tasks.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if task.UserID != nil {
		if _, ok := r.s.users[*task.UserID]; !ok {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("user with ID %d not found", *task.UserID), nil)
		}
	}

	r.s.nextTaskID++
	created := cloneTask(*task)
	created.ID = r.s.nextTaskID
	r.s.tasks[created.ID] = created

	out := cloneTask(created)
	return &out, nil
}

// Update replaces the mutable fields and keeps the stored owner.
func (r *taskRepo) Update(_ context.Context, task *tasks.Task) (*tasks.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.tasks[task.ID]
	if !ok {
		return nil, notFound(task.ID)
	}

	updated := cloneTask(*task)
	updated.UserID = stored.UserID
	r.s.tasks[task.ID] = updated

	out := cloneTask(updated)
	return &out, nil
}

func (r *taskRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tasks[id]; !ok {
		return notFound(id)
	}
	delete(r.s.tasks, id)
	return nil
}

func notFound(id int64) error {
	return apperror.NewNotFoundError(fmt.Sprintf("task with ID %d not found", id), nil)
}
