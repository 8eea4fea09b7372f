// Package testutil provides shared test helpers.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"postapi/config"
	"postapi/db"

	"github.com/stretchr/testify/require"
)

// Config returns the default configuration pointing at a fresh SQLite
// file in the test's temp dir.
func Config(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Database.Path = filepath.Join(t.TempDir(), "posts.db")
	return cfg
}

// Posts opens the database described by cfg and creates the post table.
// The pool is closed when the test ends.
func Posts(t *testing.T, cfg *config.Config) *db.Posts {
	t.Helper()

	conn, err := db.Open(context.Background(), cfg.Database)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	posts := db.NewPosts(conn, cfg.Database.Driver, cfg.Listing.PerPage, cfg.Database.QueryTimeout)
	require.NoError(t, posts.Init(context.Background()))
	return posts
}
