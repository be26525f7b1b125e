// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"io"
	"log/slog"
	"net"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/library-api/internal/platform/config"
	"github.com/taibuivan/library-api/internal/platform/postgres/pgtest"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func runConfig(dsn string) *config.Config {
	return &config.Config{
		ServerPort:           "0",
		Environment:          "test",
		APIVersion:           "v1",
		DatabaseURL:          dsn,
		DBMaxConns:           2,
		DBAcquireTimeout:     time.Second,
		MigrateOnStart:       true,
		RateLimitWindow:      time.Minute,
		RateLimitMaxRequests: 100,
		CORSOrigin:           "*",
	}
}

func TestRun_InvalidDSNReturnsError(t *testing.T) {
	err := run(t.Context(), runConfig("postgres://%zz"), discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect to postgres")
}

func TestRun_ReturnsAfterStartupFailures(t *testing.T) {
	pgtest.Open(t)
	dsn := os.Getenv(pgtest.EnvDatabaseURL)

	t.Run("bad_redis_url", func(t *testing.T) {
		cfg := runConfig(dsn)
		cfg.RedisURL = "not-a-redis-url"

		err := run(t.Context(), cfg, discard)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connect to redis")
	})

	t.Run("port_in_use", func(t *testing.T) {
		listener, err := net.Listen("tcp", ":0")
		require.NoError(t, err)
		defer listener.Close()

		cfg := runConfig(dsn)
		cfg.ServerPort = strconv.Itoa(listener.Addr().(*net.TCPAddr).Port)

		err = run(t.Context(), cfg, discard)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "listen")
	})

	t.Run("clean_shutdown", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(t.Context(), 2*time.Second)
		defer cancel()

		assert.NoError(t, run(ctx, runConfig(dsn), discard))
	})
}
