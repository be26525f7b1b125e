// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package postgres provides a managed PostgreSQL connection pool for the
// library API.
//
// # Architecture
//
// This package is part of the Infrastructure layer. It manages the physical
// database connections (pgxpool) and exposes them to the data accessors
// through the narrow [DB] interface.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/library-api/internal/platform/constants"
)

// Opinionated pool settings for the library workload.
const (
	// maxConnLifetime ensures connections are periodically recycled.
	maxConnLifetime = 60 * time.Minute
	// maxConnIdleTime closes connections that have been idle too long.
	maxConnIdleTime = 10 * time.Minute
	// healthCheckPeriod is the frequency of background connection health checks.
	healthCheckPeriod = 1 * time.Minute
	// connectTimeout is the maximum time allowed to establish a new connection.
	connectTimeout = 5 * time.Second
	// pingTimeout is the maximum duration for a health check ping.
	pingTimeout = 2 * time.Second
)

// Options carries the tunables of [NewPool].
type Options struct {
	// DSN is a libpq-compatible connection string or postgres:// URL.
	DSN string
	// MaxConns is the concurrency ceiling of the pool.
	MaxConns int32
	// MinConns keeps a warm set of connections to avoid cold-start latency.
	MinConns int32
	// AcquireTimeout bounds how long a caller waits for a free connection.
	// Zero means the wait is bounded only by the caller's context.
	AcquireTimeout time.Duration
}

// NewPool creates and validates a new PostgreSQL connection pool.
//
// The pool is pinged once before returning. A failed ping is returned as an
// error and the caller is expected to abort startup.
func NewPool(ctx context.Context, opts Options, logger *slog.Logger) (*Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid DSN: %w", err)
	}

	// Apply pool tuning parameters.
	if opts.MaxConns > 0 {
		poolConfig.MaxConns = opts.MaxConns
	}
	if opts.MinConns > 0 && opts.MinConns <= poolConfig.MaxConns {
		poolConfig.MinConns = opts.MinConns
	}
	poolConfig.MaxConnLifetime = maxConnLifetime
	poolConfig.MaxConnIdleTime = maxConnIdleTime
	poolConfig.HealthCheckPeriod = healthCheckPeriod
	poolConfig.ConnConfig.ConnectTimeout = connectTimeout

	// AfterConnect is called each time a new physical connection is established.
	poolConfig.AfterConnect = func(ctx context.Context, connection *pgx.Conn) error {
		// Per-connection statement timeout so runaway queries cannot outlive a request.
		timeoutQuery := fmt.Sprintf("SET statement_timeout = '%ds'", int(constants.GlobalRequestTimeout.Seconds()))
		_, err := connection.Exec(ctx, timeoutQuery)
		return err
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pgPool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create pool: %w", err)
	}

	pool := &Pool{pool: pgPool, acquireTimeout: opts.AcquireTimeout}

	// Validate that we can actually reach the database.
	if err := Ping(ctx, pool); err != nil {
		pgPool.Close()
		return nil, err
	}

	stats := pgPool.Stat()
	logger.Info("postgres pool connected",
		slog.Int("max_conns", int(stats.MaxConns())),
		slog.Int("total_conns", int(stats.TotalConns())),
		slog.Duration("acquire_timeout", opts.AcquireTimeout),
	)

	return pool, nil
}

// Pinger is satisfied by both [*Pool] and [*pgxpool.Pool].
type Pinger interface {
	Ping(ctx context.Context) error
}

// Ping verifies that the PostgreSQL connection pool is healthy.
func Ping(ctx context.Context, pool Pinger) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("postgres: ping failed: %w", err)
	}

	return nil
}

// ErrAcquireTimeout is returned when no connection became free within
// [Options.AcquireTimeout].
var ErrAcquireTimeout = errors.New("postgres: timed out waiting for a free connection")
