package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
environment: production
databases:
  production:
    path: /var/lib/literi/app.db
    wal_mode: true
    busy_timeout: 10000
    foreign_keys: true
logging:
  level: warning
  format: console
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, EnvProduction, cfg.Environment)
	assert.Equal(t, "warning", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)

	db := cfg.Database()
	assert.Equal(t, "/var/lib/literi/app.db", db.Path)
	assert.Equal(t, 10000, db.BusyTimeout)
	assert.True(t, db.WALMode)

	// Entries not named in the file keep their defaults.
	testing_, ok := cfg.Databases[EnvTesting]
	require.True(t, ok)
	assert.Equal(t, ":memory:", testing_.Path)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeConfig(t, "environment: [unclosed")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LITERI_ENV", "testing")
	t.Setenv("LITERI_DATABASE_PATH", "/tmp/override.db")
	t.Setenv("LITERI_LOG_LEVEL", "debug")

	path := writeConfig(t, `
environment: development
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, EnvTesting, cfg.Environment)
	assert.Equal(t, "debug", cfg.Logging.Level)

	assert.Equal(t, "/tmp/override.db", cfg.DatabasePath())
}

func TestLoad_UnknownEnvironment(t *testing.T) {
	path := writeConfig(t, `
environment: staging
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "staging")
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	for _, env := range []string{EnvDevelopment, EnvTesting, EnvProduction} {
		db, ok := cfg.Databases[env]
		require.True(t, ok, env)
		assert.NotEmpty(t, db.Path)
	}
}
