package migrations_test

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infralogger "github.com/jonesrussell/cityvoice/infrastructure/logger"
	"github.com/jonesrussell/cityvoice/internal/keywords"
	"github.com/jonesrussell/cityvoice/internal/migrations"
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open(migrations.DriverSQLite, filepath.Join(t.TempDir(), "cityvoice.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestUpDown_SQLite(t *testing.T) {
	t.Parallel()

	db := openSQLite(t)
	log := infralogger.NewNop()

	require.NoError(t, migrations.Up(db, migrations.DriverSQLite, log))
	// second run is a no-op
	require.NoError(t, migrations.Up(db, migrations.DriverSQLite, log))

	version, dirty, err := migrations.Version(db, migrations.DriverSQLite)
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
	assert.False(t, dirty)

	var seeded int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM keyword_rules").Scan(&seeded))
	want := len(keywords.DefaultCategoryTable().Rules()) + len(keywords.DefaultPriorityTable().Rules())
	assert.Equal(t, want, seeded)

	require.NoError(t, migrations.Down(db, migrations.DriverSQLite, 1, log))
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM keyword_rules").Scan(&seeded))
	assert.Zero(t, seeded)
}

func TestUnsupportedDriver(t *testing.T) {
	t.Parallel()

	err := migrations.Up(nil, "mysql", infralogger.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported migration driver")
}
