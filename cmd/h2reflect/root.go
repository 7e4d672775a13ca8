// h2reflect reflects table schemas out of a running H2 server and serves
// them over a CLI and an HTTP API. H2 must be started with its
// PostgreSQL-protocol endpoint enabled (java -cp h2.jar
// org.h2.tools.Server -pg).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/h2go/h2reflect/internal/config"
	"github.com/h2go/h2reflect/internal/database"
	"github.com/h2go/h2reflect/internal/database/h2"
	"github.com/h2go/h2reflect/internal/logger"
	"github.com/h2go/h2reflect/internal/schema"
)

var (
	configPath string
	flagDSN    string
	flagSchema string
)

var rootCmd = &cobra.Command{
	Use:   "h2reflect",
	Short: "Schema reflection for H2 databases",
	Long: `h2reflect connects to an H2 server and reflects table schemas
out of its INFORMATION_SCHEMA: columns, primary keys, foreign keys
and indexes, normalized into one JSON shape.

Use "h2reflect [command] --help" for more information about a command.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&flagDSN, "dsn", "", "Database connection string (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagSchema, "schema", "", "Schema to operate on (default PUBLIC)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig layers the --dsn flag over the config file.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		if flagDSN == "" {
			return nil, err
		}
		// No usable file, but the flag alone is enough.
		cfg = config.Default()
	}
	if flagDSN != "" {
		cfg.Database.DSN = flagDSN
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// engine bundles the wired components a command needs.
type engine struct {
	cfg       *config.Config
	conn      database.Conn
	inspector *schema.CachedInspector
	log       *logger.Logger
}

func (e *engine) close() {
	e.conn.Close()
}

// newEngine connects to the database and builds the cached inspector.
func newEngine(ctx context.Context) (*engine, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log := logger.New(cfg.LogSettings())

	conn, err := h2.New(ctx, cfg.DatabaseSettings())
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	inspector := schema.NewInspectorWithDefault(conn, cfg.Database.DefaultSchema)

	return &engine{
		cfg:       cfg,
		conn:      conn,
		inspector: schema.NewCachedInspector(inspector),
		log:       log,
	}, nil
}
