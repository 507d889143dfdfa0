// Package database connects the loader to PostgreSQL through a pgx pool.
package database

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/tseload/internal/config"
	"github.com/JonMunkholm/tseload/internal/core"
	"github.com/JonMunkholm/tseload/pkg/tseload"
)

// Connect parses cfg.URI, opens a pool capped at cfg.MaxConns and pings the
// server. Every failure wraps tseload.ErrIO, except a malformed URI which
// wraps tseload.ErrConfig.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URI)
	if err != nil {
		return nil, fmt.Errorf("%w: parse DB_URI: %w", tseload.ErrConfig, err)
	}

	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConns)
	}
	poolConfig.ConnConfig.OnNotice = func(_ *pgconn.PgConn, n *pgconn.Notice) {
		slog.Debug("postgres notice", "severity", n.Severity, "message", n.Message)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: connect to database: %w", tseload.ErrIO, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: ping database: %w", tseload.ErrIO, err)
	}

	slog.Info("connected to database",
		"name", Name(cfg.URI),
		"max_conns", poolConfig.MaxConns,
	)
	return pool, nil
}

// Name returns the database name of a postgres:// URI, or "" when it
// cannot be determined.
func Name(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme == "" {
		return ""
	}
	return strings.TrimPrefix(u.Path, "/")
}

// PoolStore adapts a pool to core.Store. Each Begin acquires one pooled
// connection, released again by Commit or Rollback.
type PoolStore struct {
	pool *pgxpool.Pool
}

var _ core.Store = (*PoolStore)(nil)

// NewStore wraps pool.
func NewStore(pool *pgxpool.Pool) *PoolStore {
	return &PoolStore{pool: pool}
}

// Begin starts a transaction on a pooled connection.
func (s *PoolStore) Begin(ctx context.Context) (core.Tx, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// CountRows returns the number of rows in each of tables.
func (s *PoolStore) CountRows(ctx context.Context, tables []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(tables))
	for _, t := range tables {
		var n int64
		if err := s.pool.QueryRow(ctx, "SELECT count(*) FROM "+pgx.Identifier{t}.Sanitize()).Scan(&n); err != nil {
			return nil, fmt.Errorf("%w: count %s: %w", tseload.ErrIO, t, err)
		}
		counts[t] = n
	}
	return counts, nil
}
