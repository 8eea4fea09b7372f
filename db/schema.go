package db

import (
	"context"
	"fmt"

	"postapi/config"

	log "github.com/sirupsen/logrus"
)

var schemas = map[string]string{
	config.DriverSQLite: `
		CREATE TABLE IF NOT EXISTS post (
			postId INTEGER PRIMARY KEY AUTOINCREMENT,
			author TEXT,
			title TEXT,
			content TEXT,
			image TEXT,
			published BOOLEAN
		)`,
	config.DriverPostgres: `
		CREATE TABLE IF NOT EXISTS post (
			postId BIGSERIAL PRIMARY KEY,
			author TEXT,
			title TEXT,
			content TEXT,
			image TEXT,
			published BOOLEAN
		)`,
}

// Init creates the post table if it does not exist yet.
func (p *Posts) Init(ctx context.Context) error {
	schema, ok := schemas[p.driver]
	if !ok {
		return fmt.Errorf("no schema for driver %q", p.driver)
	}

	log.WithFields(log.Fields{
		"driver": p.driver,
	}).Info("Ensuring post table")

	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create post table: %w", err)
	}
	return nil
}
