// Package postgres implements the service.Service interface on a PostgreSQL
// table through a pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"dtask/internal/service"
)

// APITimeout is the timeout for each statement.
const APITimeout = 5 * time.Second

// Storage is a task store backed by one table.
type Storage struct {
	pool  *pgxpool.Pool
	table string
}

// New connects to the database at dsn and creates the table if needed.
// table must be a plain identifier.
func New(ctx context.Context, dsn, table string) (*Storage, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	s := &Storage{
		pool:  pool,
		table: pgx.Identifier{table}.Sanitize(),
	}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the pool.
func (s *Storage) Close() error {
	s.pool.Close()
	return nil
}

func (s *Storage) migrate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS `+s.table+` (
			id         TEXT PRIMARY KEY,
			text       TEXT NOT NULL,
			completed  BOOLEAN NOT NULL DEFAULT FALSE,
			deadline   TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`)
	if err != nil {
		return fmt.Errorf("migrate postgres: %w", wrapError(err))
	}
	return nil
}

// ListTasks returns every task in insertion order.
func (s *Storage) ListTasks(ctx context.Context) ([]service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx, `
		SELECT id, text, completed, deadline
		FROM `+s.table+`
		ORDER BY created_at, id;
	`)
	if err != nil {
		return nil, wrapError(err)
	}
	defer rows.Close()

	var tasks []service.Task
	for rows.Next() {
		var t service.Task
		if err := rows.Scan(&t.ID, &t.Text, &t.Completed, &t.Deadline); err != nil {
			return nil, wrapError(err)
		}
		tasks = append(tasks, t)
	}
	return tasks, wrapError(rows.Err())
}

// CreateTask inserts a task and returns the generated id.
func (s *Storage) CreateTask(ctx context.Context, fields service.TaskFields) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var id string
	err := s.pool.QueryRow(ctx, `
		INSERT INTO `+s.table+` (id, text, completed, deadline)
		VALUES ($1, $2, $3, $4) RETURNING id;
	`,
		uuid.NewString(),
		fields.Text,
		fields.Completed,
		fields.Deadline,
	).Scan(&id)
	if err != nil {
		return "", wrapError(err)
	}
	return id, nil
}

// UpdateTask updates the fields set in patch. Nil fields keep their value.
func (s *Storage) UpdateTask(ctx context.Context, id string, patch service.TaskPatch) error {
	if patch.IsEmpty() {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	tag, err := s.pool.Exec(ctx, `
		UPDATE `+s.table+`
		SET text = COALESCE($2, text),
			completed = COALESCE($3, completed),
			deadline = COALESCE($4, deadline)
		WHERE id = $1;
	`,
		id,
		patch.Text,
		patch.Completed,
		patch.Deadline,
	)
	if err != nil {
		return wrapError(err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrNotFound
	}
	return nil
}

// DeleteTask deletes a task. Deleting a missing task succeeds.
func (s *Storage) DeleteTask(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	_, err := s.pool.Exec(ctx, `DELETE FROM `+s.table+` WHERE id = $1;`, id)
	return wrapError(err)
}

func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out")
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return service.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && authCodes[pgErr.Code] {
		return fmt.Errorf("%w: %s", service.ErrAuth, pgErr.Message)
	}
	return err
}

// SQLSTATEs for rejected logins and missing privileges.
var authCodes = map[string]bool{
	"28000": true,
	"28P01": true,
	"42501": true,
}
