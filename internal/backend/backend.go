// Package backend opens the task store selected in the configuration.
package backend

import (
	"context"
	"fmt"
	"regexp"

	"github.com/charmbracelet/log"

	"dtask/internal/backend/firestore"
	"dtask/internal/backend/mysql"
	"dtask/internal/backend/postgres"
	"dtask/internal/config"
	"dtask/internal/logging"
	"dtask/internal/service"
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Open creates the service for cfg.Backend.
func Open(ctx context.Context, cfg *config.Config, logger *log.Logger) (service.Service, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	switch cfg.Backend {
	case config.BackendFirestore:
		c, err := firestore.New(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return c, nil
	case config.BackendPostgres:
		if err := checkTable(cfg.Collection); err != nil {
			return nil, err
		}
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("postgres_dsn %w (set it in %s or DTASK_POSTGRES_DSN)", config.ErrNotConfigured, cfg.SettingsPath())
		}
		s, err := postgres.New(ctx, cfg.PostgresDSN, cfg.Collection)
		if err != nil {
			return nil, err
		}
		logger.Debug("postgres store opened", "table", cfg.Collection)
		return s, nil
	case config.BackendMySQL:
		if err := checkTable(cfg.Collection); err != nil {
			return nil, err
		}
		if cfg.MySQLDSN == "" {
			return nil, fmt.Errorf("mysql_dsn %w (set it in %s or DTASK_MYSQL_DSN)", config.ErrNotConfigured, cfg.SettingsPath())
		}
		s, err := mysql.New(ctx, cfg.MySQLDSN, cfg.Collection)
		if err != nil {
			return nil, err
		}
		logger.Debug("mysql store opened", "table", cfg.Collection)
		return s, nil
	default:
		return nil, fmt.Errorf("unknown backend: %s", cfg.Backend)
	}
}

// checkTable rejects collection names that are not plain SQL identifiers.
func checkTable(name string) error {
	if !tableName.MatchString(name) {
		return fmt.Errorf("invalid table name: %q", name)
	}
	return nil
}
