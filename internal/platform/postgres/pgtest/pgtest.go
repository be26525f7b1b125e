// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pgtest prepares a real PostgreSQL database for integration tests.
//
// Tests are skipped unless TEST_DATABASE_URL points at a disposable database.
// The schema is migrated up and every table is truncated before each test,
// and migrated down again once the test finishes. Packages share the
// database, so each test holds an advisory lock until it finishes.
package pgtest

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/library-api/internal/platform/migration"
	"github.com/taibuivan/library-api/internal/platform/postgres"
)

// EnvDatabaseURL names the variable holding the test database DSN.
const EnvDatabaseURL = "TEST_DATABASE_URL"

const lockKey = 7346121

// Open returns a migrated, empty database or skips the test.
func Open(t *testing.T) *postgres.Pool {
	t.Helper()

	dsn := os.Getenv(EnvDatabaseURL)
	if dsn == "" {
		t.Skip(EnvDatabaseURL + " not set")
	}

	ctx := context.Background()

	lockConn, err := pgx.Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = lockConn.Close(context.Background()) })

	_, err = lockConn.Exec(ctx, `SELECT pg_advisory_lock($1)`, lockKey)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, migration.RunUp(dsn, logger))
	t.Cleanup(func() {
		if err := migration.RunDown(dsn, logger); err != nil {
			t.Errorf("pgtest: migrate down: %v", err)
		}
	})

	pool, err := postgres.NewPool(ctx, postgres.Options{
		DSN:            dsn,
		MaxConns:       4,
		AcquireTimeout: 5 * time.Second,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `TRUNCATE books, authors RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	return pool
}
