// Package config loads the application configuration from a YAML file and
// environment overrides, and fans it out to the subsystem configs.
package config

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/h2go/h2reflect/internal/database"
	"github.com/h2go/h2reflect/internal/filestore"
	"github.com/h2go/h2reflect/internal/logger"
)

// Config is the top-level application configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig configures the catalog connection.
type DatabaseConfig struct {
	// DSN is the server-mode endpoint of the database,
	// e.g. "postgres://sa:sa@localhost:5435/~/test".
	DSN string `yaml:"dsn"`

	// DefaultSchema is used when a request names no schema. Empty means PUBLIC.
	DefaultSchema string `yaml:"default_schema"`

	MaxConns        int32         `yaml:"max_conns"`
	MinConns        int32         `yaml:"min_conns"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout"`
	QueryTimeout    time.Duration `yaml:"query_timeout"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// SnapshotConfig configures the object-storage snapshot archive.
// The archive is optional; it is wired only when Endpoint is set.
type SnapshotConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
}

// Enabled reports whether the snapshot archive should be wired.
func (c SnapshotConfig) Enabled() bool {
	return c.Endpoint != ""
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			MaxConns:        8,
			MinConns:        1,
			ConnectTimeout:  10 * time.Second,
			QueryTimeout:    30 * time.Second,
			MaxConnLifetime: time.Hour,
			MaxConnIdleTime: 30 * time.Minute,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Snapshot: SnapshotConfig{
			Bucket: "h2-schema-snapshots",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads a YAML config file, layers it over Default and validates the
// result. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// Environment wins over file for credentials.
	if v := os.Getenv("H2REFLECT_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("H2REFLECT_SNAPSHOT_ACCESS_KEY"); v != "" {
		cfg.Snapshot.AccessKey = v
	}
	if v := os.Getenv("H2REFLECT_SNAPSHOT_SECRET_KEY"); v != "" {
		cfg.Snapshot.SecretKey = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return fmt.Errorf("config: database.dsn is required")
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("config: database.max_conns must be at least 1")
	}
	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("config: database.min_conns exceeds max_conns")
	}
	if c.Snapshot.Enabled() && c.Snapshot.Bucket == "" {
		return fmt.Errorf("config: snapshot.bucket is required when snapshot.endpoint is set")
	}
	return nil
}

// DatabaseSettings builds the connection-layer config.
func (c *Config) DatabaseSettings() *database.Config {
	dc := database.DefaultConfig(c.Database.DSN)
	dc.MaxConns = c.Database.MaxConns
	dc.MinConns = c.Database.MinConns
	dc.ConnectTimeout = c.Database.ConnectTimeout
	dc.QueryTimeout = c.Database.QueryTimeout
	dc.MaxConnLifetime = c.Database.MaxConnLifetime
	dc.MaxConnIdleTime = c.Database.MaxConnIdleTime
	return dc
}

// SnapshotSettings builds the filestore config for the snapshot archive.
func (c *Config) SnapshotSettings() *filestore.Config {
	fc := filestore.DefaultConfig(c.Snapshot.Endpoint, c.Snapshot.AccessKey, c.Snapshot.SecretKey)
	fc.UseSSL = c.Snapshot.UseSSL
	fc.Region = c.Snapshot.Region
	if c.Snapshot.Bucket != "" {
		fc.Bucket = c.Snapshot.Bucket
	}
	return fc
}

// LogSettings builds the logger config.
func (c *Config) LogSettings() *logger.Config {
	lc := logger.DefaultConfig()
	if c.Log.Level != "" {
		lc.Level = c.Log.Level
	}
	if c.Log.Format != "" {
		lc.Format = c.Log.Format
	}
	return lc
}
