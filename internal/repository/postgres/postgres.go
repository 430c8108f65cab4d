// Package postgres implements the repository interfaces on pgx/v5.
//
// Both remote stores speak the Postgres wire protocol: the identity store is
// CockroachDB, the application store is a hosted Postgres. Each gets its own
// pgxpool.Pool, opened once at startup with Open and closed on shutdown.
// Repositories take the narrow DBTX interface so tests can substitute pgxmock.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the subset of *pgxpool.Pool the repositories use.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ DBTX = (*pgxpool.Pool)(nil)

const (
	connectTimeout = 10 * time.Second
	pingTimeout    = 5 * time.Second
)

// Open parses dsn, connects a pool and pings it so a bad DSN fails at
// startup rather than on the first request.
//
// With verifyTLS false, TLS is still used when the DSN asks for it but the
// server certificate is not verified (managed databases with self-signed
// chains).
func Open(ctx context.Context, dsn string, verifyTLS bool) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: parsing database url: %w", err)
	}

	if !verifyTLS {
		relaxTLS(cfg.ConnConfig)
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: connecting: %w", err)
	}

	pingCtx, cancelPing := context.WithTimeout(ctx, pingTimeout)
	defer cancelPing()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: pinging: %w", err)
	}

	return pool, nil
}

func relaxTLS(cc *pgx.ConnConfig) {
	if cc.TLSConfig != nil {
		cc.TLSConfig.InsecureSkipVerify = true
	}
	for _, fb := range cc.Fallbacks {
		if fb.TLSConfig != nil {
			fb.TLSConfig.InsecureSkipVerify = true
		}
	}
}
