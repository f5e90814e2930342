// Package config handles the XDG configuration directory, credential paths and
// the optional config.toml file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	// AppName is the application directory name.
	AppName = "dtask"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"

	// SettingsFile is the optional TOML settings filename.
	SettingsFile = "config.toml"

	// DefaultBackend is the document store used when none is configured.
	DefaultBackend = "firestore"

	// DefaultCollection is the collection holding task documents.
	DefaultCollection = "tasks"

	// DefaultDatabaseID is the Firestore database used when none is configured.
	DefaultDatabaseID = "(default)"
)

// ErrNotConfigured is returned when the selected backend lacks a required setting.
var ErrNotConfigured = errors.New("not configured")

// Backend names accepted in config.toml, DTASK_BACKEND and --backend.
const (
	BackendFirestore = "firestore"
	BackendPostgres  = "postgres"
	BackendMySQL     = "mysql"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string `toml:"-"`

	// Debug enables debug logging.
	Debug bool `toml:"debug"`

	// Quiet suppresses informational output.
	Quiet bool `toml:"-"`

	// Backend selects the task store implementation.
	Backend string `toml:"backend"`

	// Collection is the collection (or table) holding task documents.
	Collection string `toml:"collection"`

	// ProjectID is the Google Cloud project hosting the Firestore database.
	ProjectID string `toml:"project_id"`

	// DatabaseID is the Firestore database id.
	DatabaseID string `toml:"database_id"`

	// EmulatorHost points the Firestore backend at a local emulator (host:port).
	// Requests to the emulator are sent without credentials.
	EmulatorHost string `toml:"emulator_host"`

	// PostgresDSN is the connection string for the postgres backend.
	PostgresDSN string `toml:"postgres_dsn"`

	// MySQLDSN is the data source name for the mysql backend.
	MySQLDSN string `toml:"mysql_dsn"`
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/dtask or $HOME/.config/dtask.
// Settings are layered: defaults, then config.toml in the directory (if present),
// then environment variables.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{Dir: dir}
	cfg.setDefaults()

	if err := cfg.loadFile(cfg.SettingsPath()); err != nil {
		return nil, err
	}
	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) setDefaults() {
	c.Backend = DefaultBackend
	c.Collection = DefaultCollection
	c.DatabaseID = DefaultDatabaseID
}

// loadFile decodes the TOML settings file over the current values.
// A missing file is not an error.
func (c *Config) loadFile(path string) error {
	_, err := toml.DecodeFile(path, c)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading config file %s: %w", path, err)
	}
	return nil
}

// loadFromEnv overrides settings from DTASK_* variables and FIRESTORE_EMULATOR_HOST.
func (c *Config) loadFromEnv() {
	if v := os.Getenv("DTASK_BACKEND"); v != "" {
		c.Backend = v
	}
	if v := os.Getenv("DTASK_COLLECTION"); v != "" {
		c.Collection = v
	}
	if v := os.Getenv("DTASK_PROJECT_ID"); v != "" {
		c.ProjectID = v
	}
	if v := os.Getenv("DTASK_DATABASE_ID"); v != "" {
		c.DatabaseID = v
	}
	if v := os.Getenv("DTASK_POSTGRES_DSN"); v != "" {
		c.PostgresDSN = v
	}
	if v := os.Getenv("DTASK_MYSQL_DSN"); v != "" {
		c.MySQLDSN = v
	}
	if v := os.Getenv("FIRESTORE_EMULATOR_HOST"); v != "" {
		c.EmulatorHost = v
	}
}

// Validate checks the backend name.
func (c *Config) Validate() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	switch c.Backend {
	case BackendFirestore, BackendPostgres, BackendMySQL:
		return nil
	default:
		return fmt.Errorf("unknown backend: %s", c.Backend)
	}
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// SettingsPath returns the path to config.toml.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, SettingsFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}

// NeedsOAuth reports whether the configured backend authenticates with the
// stored OAuth token. The SQL backends and the Firestore emulator do not.
func (c *Config) NeedsOAuth() bool {
	return c.Backend == BackendFirestore && c.EmulatorHost == ""
}
