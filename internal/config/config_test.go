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

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"
  shutdownTimeout: 3s
db:
  driver: postgres
  dsn: "host=localhost user=orders dbname=orders"
  maxOpenConns: 25
log:
  level: debug
`)

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, 25, cfg.DB.MaxOpenConns)
	assert.Equal(t, 5, cfg.DB.MaxIdleConns)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "dev", cfg.App.Env)
}

func TestEnvironmentOverride(t *testing.T) {
	path := writeConfig(t, "db:\n  driver: sqlite\n")
	t.Setenv("ORDERS_DB_DSN", "file::memory:")
	t.Setenv("ORDERS_SERVER_ADDR", ":7000")

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "file::memory:", cfg.DB.DSN)
	assert.Equal(t, ":7000", cfg.Server.Addr)
}

func TestValidate(t *testing.T) {
	path := writeConfig(t, "db:\n  driver: oracle\n")
	_, err := LoadConfigFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported db driver")

	cfg := Config{Server: ServerConfig{Addr: ":8080"}, DB: DBConfig{Driver: DriverMySQL, DSN: "  "}}
	assert.Error(t, cfg.Validate())

	cfg.DB.DSN = "orders:secret@tcp(localhost:3306)/orders?parseTime=true"
	assert.NoError(t, cfg.Validate())
}

func TestMissingExplicitFile(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
