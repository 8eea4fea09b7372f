package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"postapi/config"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/lib/pq"
	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// Open creates the connection pool for the configured driver and waits
// until the database answers a ping.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open(cfg.Driver, cfg.DataSourceName())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Set connection pool settings
	if cfg.Driver == config.DriverSQLite {
		db.SetMaxOpenConns(1) // SQLite only supports one writer at a time
		db.SetMaxIdleConns(1)
	} else {
		db.SetMaxOpenConns(20)
		db.SetMaxIdleConns(10)
	}
	db.SetConnMaxLifetime(time.Hour) // Recreate connections after an hour
	db.SetConnMaxIdleTime(time.Hour) // Close idle connections after an hour

	if err := ping(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return db, nil
}

// ping retries with exponential backoff so the server can start before
// the database container is ready.
func ping(ctx context.Context, db *sql.DB) error {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 30 * time.Second

	return backoff.RetryNotify(func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return db.PingContext(pingCtx)
	}, backoff.WithContext(b, ctx), func(err error, next time.Duration) {
		log.WithFields(log.Fields{
			"error": err,
			"retry": next,
		}).Warn("Database not ready")
	})
}
