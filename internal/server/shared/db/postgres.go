// Package db opens the PostgreSQL connection pool used by the credential
// store.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

// PoolOptions bounds the connection pool. Zero values keep database/sql
// defaults.
type PoolOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnectTimeout  time.Duration
}

var DefaultPoolOptions = PoolOptions{
	MaxOpenConns:    10,
	MaxIdleConns:    10,
	ConnMaxLifetime: 30 * time.Minute,
	ConnectTimeout:  8 * time.Second,
}

// Open parses dsn, opens a pgx-backed *sql.DB and pings it once so that an
// unreachable server fails fast.
func Open(ctx context.Context, dsn string, opts PoolOptions) (*sql.DB, error) {
	cfg, err := ParseDSN(dsn)
	if err != nil {
		return nil, err
	}

	db := stdlib.OpenDB(*cfg)
	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	pingCtx := ctx
	if opts.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, opts.ConnectTimeout)
		defer cancel()
	}
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db connect: %w", err)
	}

	return db, nil
}

// ParseDSN accepts both URL (postgres://...) and keyword/value DSNs.
func ParseDSN(dsn string) (*pgx.ConnConfig, error) {
	if dsn == "" {
		return nil, fmt.Errorf("db parse dsn: empty database url")
	}
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("db parse dsn: %w", err)
	}
	return cfg, nil
}
