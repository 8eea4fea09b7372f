package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/labstack/gommon/bytes"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	ErrorModeStrict = "strict"
	ErrorModeLegacy = "legacy"
)

// ServerConfig holds the HTTP server settings
type ServerConfig struct {
	Port      int    `toml:"port"`
	BodyLimit string `toml:"body_limit"` // Human readable size, e.g. "1MB"
	ErrorMode string `toml:"error_mode"`
}

// DatabaseConfig holds the connection settings for the post table
type DatabaseConfig struct {
	Driver       string        `toml:"driver"`
	Path         string        `toml:"path"` // SQLite only
	Host         string        `toml:"host"`
	Port         int           `toml:"port"`
	User         string        `toml:"user"`
	Password     string        `toml:"password"`
	Name         string        `toml:"name"`
	SSLMode      string        `toml:"sslmode"`
	QueryTimeout time.Duration `toml:"query_timeout"`
	InitSchema   bool          `toml:"init_schema"`
}

// ListingConfig holds the pagination settings
type ListingConfig struct {
	PerPage int `toml:"per_page"`
}

// Config represents the top-level configuration
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Listing  ListingConfig  `toml:"listing"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:      3000,
			BodyLimit: "4MB",
			ErrorMode: ErrorModeStrict,
		},
		Database: DatabaseConfig{
			Driver:       DriverSQLite,
			Path:         "posts.db",
			Host:         "localhost",
			Port:         5432,
			User:         "postapi",
			Password:     "postapi",
			Name:         "postapi",
			SSLMode:      "disable",
			QueryTimeout: 30 * time.Second,
		},
		Listing: ListingConfig{
			PerPage: 10,
		},
	}
}

// LoadConfig reads a TOML file on top of the defaults. An empty path
// returns the defaults.
func LoadConfig(path string) (*Config, error) {
	config := Default()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return config, nil
}

// Validate checks the values that cannot be fixed up at request time.
func (c *Config) Validate() error {
	if c.Listing.PerPage < 1 {
		return fmt.Errorf("listing per page must be at least 1, got %d", c.Listing.PerPage)
	}

	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("sqlite driver requires a database path")
		}
	case DriverPostgres:
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}

	switch c.Server.ErrorMode {
	case ErrorModeStrict, ErrorModeLegacy:
	default:
		return fmt.Errorf("unknown error mode %q", c.Server.ErrorMode)
	}

	if _, err := c.BodyLimitBytes(); err != nil {
		return err
	}

	return nil
}

// BodyLimitBytes parses the configured request body limit.
func (c *Config) BodyLimitBytes() (int, error) {
	n, err := bytes.Parse(c.Server.BodyLimit)
	if err != nil {
		return 0, fmt.Errorf("invalid body limit %q: %w", c.Server.BodyLimit, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("body limit must be positive, got %q", c.Server.BodyLimit)
	}
	return int(n), nil
}

// DataSourceName builds the driver specific connection string. PostgreSQL
// gets a URL so credentials with spaces or quotes survive escaping.
func (d DatabaseConfig) DataSourceName() string {
	if d.Driver == DriverPostgres {
		dsn := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(d.User, d.Password),
			Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
			Path:     "/" + d.Name,
			RawQuery: url.Values{"sslmode": {d.SSLMode}}.Encode(),
		}
		return dsn.String()
	}
	return fmt.Sprintf("%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", d.Path)
}
