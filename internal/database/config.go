package database

import "time"

// Config holds all settings needed to connect to and pool an H2 server.
// H2 must be started with its PostgreSQL-protocol endpoint enabled
// (java -cp h2.jar org.h2.tools.Server -pg); the DSN points at that port.
type Config struct {
	// DSN is the full data source name / connection string.
	// Example: "postgres://sa:sa@localhost:5435/~/test"
	DSN string

	// Pool tuning
	MaxConns        int32         // maximum number of connections in the pool
	MinConns        int32         // minimum number of idle connections kept alive
	MaxConnLifetime time.Duration // maximum time a connection may be reused
	MaxConnIdleTime time.Duration // maximum time a connection may sit idle

	// Timeouts
	ConnectTimeout time.Duration // time limit for establishing a new connection
	QueryTimeout   time.Duration // default per-query deadline (applied by callers)
}

// DefaultConfig returns production-ready pool settings for the given DSN.
// Catalog reflection is read-heavy and bursty; a small pool is enough.
func DefaultConfig(dsn string) *Config {
	return &Config{
		DSN:             dsn,
		MaxConns:        8,
		MinConns:        1,
		MaxConnLifetime: 30 * time.Minute,
		MaxConnIdleTime: 5 * time.Minute,
		ConnectTimeout:  10 * time.Second,
		QueryTimeout:    30 * time.Second,
	}
}
