// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when the addressed document does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAuth is returned when the store rejects the credentials.
	ErrAuth = errors.New("token expired or revoked (run: dtask login)")
)

// Service defines the interface for task store operations.
// All document store calls go through this interface.
// Commands and the controller never import a store SDK directly.
type Service interface {
	// ListTasks returns every task in the collection in store order.
	ListTasks(ctx context.Context) ([]Task, error)

	// CreateTask stores a new task and returns the store-generated id.
	CreateTask(ctx context.Context, fields TaskFields) (string, error)

	// UpdateTask applies a partial update to the task with the given id.
	UpdateTask(ctx context.Context, id string, patch TaskPatch) error

	// DeleteTask deletes the task with the given id.
	DeleteTask(ctx context.Context, id string) error
}

// Closer is implemented by services holding connections that must be released.
type Closer interface {
	Close() error
}
