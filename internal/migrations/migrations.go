// Package migrations embeds the schema migrations for every supported driver
// and runs them through golang-migrate.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	infralogger "github.com/jonesrussell/cityvoice/infrastructure/logger"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

//go:embed postgres/*.sql sqlite3/*.sql
var files embed.FS

// Up applies all pending migrations. The database handle stays open.
func Up(db *sql.DB, driver string, log infralogger.Logger) error {
	m, err := newMigrate(db, driver)
	if err != nil {
		return err
	}

	if upErr := m.Up(); upErr != nil {
		if errors.Is(upErr, migrate.ErrNoChange) {
			log.Info("No pending migrations", infralogger.String("driver", driver))
			return nil
		}
		return fmt.Errorf("run migrations: %w", upErr)
	}

	version, _, _ := m.Version()
	log.Info("Migrations applied successfully",
		infralogger.String("driver", driver),
		infralogger.Int("version", int(version)),
	)
	return nil
}

// Down rolls back steps migrations (default 1).
func Down(db *sql.DB, driver string, steps int, log infralogger.Logger) error {
	m, err := newMigrate(db, driver)
	if err != nil {
		return err
	}

	if steps <= 0 {
		steps = 1
	}

	if downErr := m.Steps(-steps); downErr != nil {
		if errors.Is(downErr, migrate.ErrNoChange) {
			log.Info("No migrations to rollback", infralogger.String("driver", driver))
			return nil
		}
		return fmt.Errorf("rollback migrations: %w", downErr)
	}

	log.Info("Migrations rolled back successfully",
		infralogger.String("driver", driver),
		infralogger.Int("steps", steps),
	)
	return nil
}

// Version returns the current migration version. A database without
// migrations reports version 0.
func Version(db *sql.DB, driver string) (version uint, dirty bool, err error) {
	m, err := newMigrate(db, driver)
	if err != nil {
		return 0, false, err
	}

	version, dirty, err = m.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("get migration version: %w", err)
	}
	return version, dirty, nil
}

// newMigrate builds a migrator over the embedded files for driver. The
// returned instance is never closed: closing it would close db.
func newMigrate(db *sql.DB, driver string) (*migrate.Migrate, error) {
	var (
		target database.Driver
		err    error
	)
	switch driver {
	case DriverPostgres:
		target, err = postgres.WithInstance(db, &postgres.Config{})
	case DriverSQLite:
		target, err = sqlite3.WithInstance(db, &sqlite3.Config{})
	default:
		return nil, fmt.Errorf("unsupported migration driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s driver: %w", driver, err)
	}

	src, err := iofs.New(files, driver)
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, driver, target)
	if err != nil {
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}
	return m, nil
}
