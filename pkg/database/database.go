// Package database opens the SQL stores behind the API: the Postgres course
// snapshot and the read-only SQLite grade history.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const pingTimeout = 5 * time.Second

type poolSettings struct {
	maxOpen     int
	maxIdle     int
	maxLifetime time.Duration
	maxIdleTime time.Duration
}

func open(ctx context.Context, driver, dsn string, pool poolSettings) (*sqlx.DB, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	if pool.maxOpen > 0 {
		db.SetMaxOpenConns(pool.maxOpen)
	}
	if pool.maxIdle > 0 {
		db.SetMaxIdleConns(pool.maxIdle)
	}
	if pool.maxLifetime > 0 {
		db.SetConnMaxLifetime(pool.maxLifetime)
	}
	if pool.maxIdleTime > 0 {
		db.SetConnMaxIdleTime(pool.maxIdleTime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return db, nil
}
