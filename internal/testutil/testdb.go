package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matthieukhl/orders/internal/config"
	"github.com/matthieukhl/orders/internal/database"
)

// NewDB opens a private in-memory sqlite database with the schema migrated.
// Each test gets its own database, closed on cleanup.
func NewDB(t testing.TB) *database.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.NewConnection(&config.DBConfig{
		Driver:       config.DriverSQLite,
		DSN:          fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
		MaxOpenConns: 1,
		LogLevel:     "silent",
	})
	require.NoError(t, err, "failed to connect test database")
	require.NoError(t, db.Migrate(), "failed to auto-migrate models")

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}
