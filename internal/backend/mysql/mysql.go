// Package mysql implements the service.Service interface on a MySQL table.
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	driver "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"dtask/internal/service"
)

// APITimeout is the timeout for each statement.
const APITimeout = 5 * time.Second

// Store is a task store backed by one table.
type Store struct {
	db    *sql.DB
	table string
}

// New opens the database at dsn and creates the table if needed.
// table must be a plain identifier.
func New(ctx context.Context, dsn, table string) (*Store, error) {
	dsn, err := prepareDSN(dsn)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetConnMaxLifetime(5 * time.Minute)

	s := &Store{db: db, table: "`" + table + "`"}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// prepareDSN makes UPDATE report matched rows instead of changed rows,
// so re-saving an unchanged task is not mistaken for a missing one.
func prepareDSN(dsn string) (string, error) {
	cfg, err := driver.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse mysql_dsn: %w", err)
	}
	cfg.ClientFoundRows = true
	return cfg.FormatDSN(), nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("connect mysql: %w", err)
	}
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+s.table+` (
		id         CHAR(36) NOT NULL PRIMARY KEY,
		text       TEXT NOT NULL,
		completed  BOOLEAN NOT NULL DEFAULT FALSE,
		deadline   VARCHAR(64) NOT NULL,
		created_at TIMESTAMP(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6)
	)`)
	if err != nil {
		return fmt.Errorf("migrate mysql: %w", err)
	}
	return nil
}

// ListTasks returns every task in insertion order.
func (s *Store) ListTasks(ctx context.Context) ([]service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `SELECT id, text, completed, deadline FROM `+s.table+` ORDER BY created_at, id`)
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

// CreateTask inserts a task and returns its new id.
func (s *Store) CreateTask(ctx context.Context, fields service.TaskFields) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO `+s.table+` (id, text, completed, deadline) VALUES (?, ?, ?, ?)`,
		id, fields.Text, fields.Completed, fields.Deadline)
	if err != nil {
		return "", wrapError(err)
	}
	return id, nil
}

// UpdateTask updates the fields set in patch. Nil fields keep their value.
func (s *Store) UpdateTask(ctx context.Context, id string, patch service.TaskPatch) error {
	if patch.IsEmpty() {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `UPDATE `+s.table+`
		SET text = COALESCE(?, text), completed = COALESCE(?, completed), deadline = COALESCE(?, deadline)
		WHERE id = ?`,
		patch.Text, patch.Completed, patch.Deadline, id)
	if err != nil {
		return wrapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapError(err)
	}
	if n == 0 {
		return service.ErrNotFound
	}
	return nil
}

// DeleteTask deletes a task. Deleting a missing task succeeds.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `DELETE FROM `+s.table+` WHERE id = ?`, id)
	return wrapError(err)
}

func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out")
	}
	if errors.Is(err, sql.ErrNoRows) {
		return service.ErrNotFound
	}
	var myErr *driver.MySQLError
	if errors.As(err, &myErr) && (myErr.Number == 1045 || myErr.Number == 1142) {
		return fmt.Errorf("%w: %s", service.ErrAuth, myErr.Message)
	}
	return err
}
