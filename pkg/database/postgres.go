package database

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/noah-isme/slugtistics-api/pkg/config"
)

// PostgresDSN renders the connection URL for the course snapshot database.
func PostgresDSN(cfg config.DatabaseConfig) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     cfg.Host + ":" + strconv.Itoa(cfg.Port),
		Path:     "/" + cfg.Name,
		RawQuery: url.Values{"sslmode": {sslMode}, "application_name": {"slugtistics-api"}}.Encode(),
	}
	return u.String()
}

// NewPostgres connects to the course snapshot database.
func NewPostgres(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	return open(ctx, "postgres", PostgresDSN(cfg), poolSettings{
		maxOpen:     cfg.MaxOpenConns,
		maxIdle:     cfg.MaxIdleConns,
		maxLifetime: time.Hour,
		maxIdleTime: 30 * time.Minute,
	})
}
