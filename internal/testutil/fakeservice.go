// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"dtask/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu    sync.RWMutex
	tasks []service.Task
	calls []string

	// Error injection for testing
	ListTasksErr  error
	CreateTaskErr error
	UpdateTaskErr error
	DeleteTaskErr error
}

// NewFakeService creates a new, empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{}
}

// AddTask seeds a task with a fixed id.
func (f *FakeService) AddTask(id, text, deadline string, completed bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, service.Task{
		ID:        id,
		Text:      text,
		Completed: completed,
		Deadline:  deadline,
	})
}

// Stored returns the stored task with the given id.
func (f *FakeService) Stored(id string) (service.Task, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, t := range f.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return service.Task{}, false
}

// Len returns the number of stored tasks.
func (f *FakeService) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.tasks)
}

// Calls returns the names of the service methods called so far, in order.
func (f *FakeService) Calls() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *FakeService) record(name string) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]service.Task, error) {
	f.record("ListTasks")
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]service.Task, len(f.tasks))
	copy(result, f.tasks)
	return result, nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, fields service.TaskFields) (string, error) {
	f.record("CreateTask")
	if f.CreateTaskErr != nil {
		return "", f.CreateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	id := uuid.NewString()
	f.tasks = append(f.tasks, service.Task{
		ID:        id,
		Text:      fields.Text,
		Completed: fields.Completed,
		Deadline:  fields.Deadline,
	})
	return id, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id string, patch service.TaskPatch) error {
	f.record("UpdateTask")
	if f.UpdateTaskErr != nil {
		return f.UpdateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks[i] = patch.Apply(t)
			return nil
		}
	}
	return service.ErrNotFound
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id string) error {
	f.record("DeleteTask")
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return service.ErrNotFound
}
