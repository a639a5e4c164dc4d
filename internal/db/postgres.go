package db

import (
	"context"
	"errors"
	"time"

	"backend-getyourextreme/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

var errNoURL = errors.New("postgres url is empty")

var (
	newPoolFn  = pgxpool.New
	pingPoolFn = func(ctx context.Context, pool *pgxpool.Pool) error { return pool.Ping(ctx) }
)

// ConnectPostgres opens the session-bound pool used for writes and
// user-scoped reads.
func ConnectPostgres(cfg config.Config) (*pgxpool.Pool, error) {
	return connect(cfg.PostgresURL)
}

// ConnectPostgresPublic opens the session-free pool. It is expected to log in
// as an anonymous reader so row-level policies never depend on who is signed in.
func ConnectPostgresPublic(cfg config.Config) (*pgxpool.Pool, error) {
	return connect(cfg.PostgresPublicURL)
}

func connect(url string) (*pgxpool.Pool, error) {
	if url == "" {
		return nil, errNoURL
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := newPoolFn(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := pingPoolFn(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
