package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadLayersFileOverDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  dsn: postgres://sa:sa@localhost:5435/~/test
  default_schema: REPORTING
  max_conns: 4
server:
  addr: ":9090"
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://sa:sa@localhost:5435/~/test", cfg.Database.DSN)
	assert.Equal(t, "REPORTING", cfg.Database.DefaultSchema)
	assert.Equal(t, int32(4), cfg.Database.MaxConns)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)

	// Untouched values keep their defaults.
	assert.Equal(t, 30*time.Second, cfg.Database.QueryTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "h2-schema-snapshots", cfg.Snapshot.Bucket)
}

func TestLoadRequiresDSN(t *testing.T) {
	path := writeConfig(t, "server:\n  addr: \":9090\"\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.dsn")
}

func TestLoadRejectsBadPool(t *testing.T) {
	path := writeConfig(t, `
database:
  dsn: postgres://sa:sa@localhost:5435/~/test
  max_conns: 2
  min_conns: 5
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "min_conns")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, `
database:
  dsn: postgres://file@localhost:5435/~/test
snapshot:
  endpoint: localhost:9000
  access_key: file-access
  secret_key: file-secret
`)

	t.Setenv("H2REFLECT_DSN", "postgres://env@localhost:5435/~/test")
	t.Setenv("H2REFLECT_SNAPSHOT_ACCESS_KEY", "env-access")
	t.Setenv("H2REFLECT_SNAPSHOT_SECRET_KEY", "env-secret")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://env@localhost:5435/~/test", cfg.Database.DSN)
	assert.Equal(t, "env-access", cfg.Snapshot.AccessKey)
	assert.Equal(t, "env-secret", cfg.Snapshot.SecretKey)
}

func TestSnapshotEnabledOnlyWithEndpoint(t *testing.T) {
	cfg := Default()
	assert.False(t, cfg.Snapshot.Enabled())

	cfg.Snapshot.Endpoint = "localhost:9000"
	assert.True(t, cfg.Snapshot.Enabled())

	cfg.Snapshot.Bucket = ""
	cfg.Database.DSN = "postgres://sa:sa@localhost:5435/~/test"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "snapshot.bucket")
}

func TestSubsystemSettings(t *testing.T) {
	cfg := Default()
	cfg.Database.DSN = "postgres://sa:sa@localhost:5435/~/test"
	cfg.Database.MaxConns = 16
	cfg.Snapshot.Endpoint = "localhost:9000"
	cfg.Snapshot.UseSSL = true
	cfg.Log.Level = "warn"

	dc := cfg.DatabaseSettings()
	assert.Equal(t, cfg.Database.DSN, dc.DSN)
	assert.Equal(t, int32(16), dc.MaxConns)

	fc := cfg.SnapshotSettings()
	assert.Equal(t, "localhost:9000", fc.Endpoint)
	assert.True(t, fc.UseSSL)
	assert.Equal(t, "h2-schema-snapshots", fc.Bucket)

	lc := cfg.LogSettings()
	assert.Equal(t, "warn", lc.Level)
}
