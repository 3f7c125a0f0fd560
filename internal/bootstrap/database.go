package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	infralogger "github.com/jonesrussell/cityvoice/infrastructure/logger"
	"github.com/jonesrussell/cityvoice/infrastructure/retry"
	"github.com/jonesrussell/cityvoice/internal/config"
	"github.com/jonesrussell/cityvoice/internal/database"
	"github.com/jonesrussell/cityvoice/internal/migrations"
)

// SetupDatabase connects with retries and applies migrations when enabled.
func SetupDatabase(ctx context.Context, cfg *config.Config, log infralogger.Logger) (*sqlx.DB, error) {
	connect := retry.DefaultConfig()
	connect.OnRetry = func(attempt int, err error, delay time.Duration) {
		log.Warn("Database not ready, retrying",
			infralogger.String("driver", cfg.Database.Driver),
			infralogger.Int("attempt", attempt),
			infralogger.Duration("delay", delay),
			infralogger.Error(err),
		)
	}

	var db *sqlx.DB
	err := retry.Do(ctx, connect, func(ctx context.Context) error {
		var openErr error
		db, openErr = database.Open(ctx, cfg.Database)
		return openErr
	})
	if err != nil {
		return nil, fmt.Errorf("database connection: %w", err)
	}
	log.Info("Database connection established", infralogger.String("driver", cfg.Database.Driver))

	if cfg.Service.AutoMigrate {
		if migrateErr := migrations.Up(db.DB, cfg.Database.Driver, log); migrateErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply migrations: %w", migrateErr)
		}
	}
	return db, nil
}
