package database

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/noah-isme/slugtistics-api/pkg/config"
)

// SQLiteDSN renders a read-only DSN for the grade history file.
func SQLiteDSN(cfg config.GradesConfig) string {
	return fmt.Sprintf("file:%s?mode=ro&_query_only=true&cache=shared", url.PathEscape(cfg.Path))
}

// NewSQLite opens the grade history database read-only.
func NewSQLite(ctx context.Context, cfg config.GradesConfig) (*sqlx.DB, error) {
	db, err := open(ctx, "sqlite3", SQLiteDSN(cfg), poolSettings{maxOpen: 4})
	if err != nil {
		return nil, fmt.Errorf("open grade history %s: %w", cfg.Path, err)
	}
	return db, nil
}
