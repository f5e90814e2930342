package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"dtask/internal/service"
)

// openTestStorage connects to DTASK_TEST_POSTGRES_DSN and skips without it.
func openTestStorage(t *testing.T) *Storage {
	t.Helper()
	dsn := os.Getenv("DTASK_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("DTASK_TEST_POSTGRES_DSN not set")
	}
	table := fmt.Sprintf("tasks_test_%d", time.Now().UnixNano())
	s, err := New(context.Background(), dsn, table)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		s.pool.Exec(context.Background(), "DROP TABLE "+s.table)
		s.Close()
	})
	return s
}

func TestWrapError(t *testing.T) {
	if err := wrapError(nil); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	badLogin := &pgconn.PgError{Code: "28P01", Message: "password authentication failed"}
	if err := wrapError(fmt.Errorf("connect: %w", badLogin)); !errors.Is(err, service.ErrAuth) {
		t.Errorf("expected ErrAuth, got %v", err)
	}
	denied := &pgconn.PgError{Code: "42501", Message: "permission denied for table tasks"}
	if err := wrapError(denied); !errors.Is(err, service.ErrAuth) {
		t.Errorf("expected ErrAuth, got %v", err)
	}
	if err := wrapError(pgx.ErrNoRows); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := wrapError(context.DeadlineExceeded); err == nil || err.Error() != "request timed out" {
		t.Errorf("expected timeout message, got %v", err)
	}
	syntax := &pgconn.PgError{Code: "42601", Message: "syntax error"}
	if err := wrapError(syntax); errors.Is(err, service.ErrAuth) {
		t.Errorf("expected syntax error passed through, got %v", err)
	}
}

func TestStorage_CRUD(t *testing.T) {
	s := openTestStorage(t)
	ctx := context.Background()

	first, err := s.CreateTask(ctx, service.TaskFields{Text: "Buy bread", Deadline: "2030-01-01T10:00"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := s.CreateTask(ctx, service.TaskFields{Text: "Pay rent", Deadline: "2030-01-02T10:00"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if first == "" || first == second {
		t.Fatalf("expected distinct generated ids, got %q and %q", first, second)
	}

	done := true
	if err := s.UpdateTask(ctx, first, service.TaskPatch{Completed: &done}); err != nil {
		t.Fatalf("update: %v", err)
	}

	tasks, err := s.ListTasks(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 2 || tasks[0].ID != first || !tasks[0].Completed || tasks[0].Text != "Buy bread" {
		t.Fatalf("unexpected tasks: %+v", tasks)
	}

	if err := s.DeleteTask(ctx, first); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.UpdateTask(ctx, first, service.TaskPatch{Completed: &done}); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}
