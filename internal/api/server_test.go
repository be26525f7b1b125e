// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/library-api/internal/core/author"
	"github.com/taibuivan/library-api/internal/core/book"
	"github.com/taibuivan/library-api/internal/platform/config"
	"github.com/taibuivan/library-api/internal/platform/middleware"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func testConfig() *config.Config {
	return &config.Config{
		ServerPort:           "0",
		Environment:          "test",
		APIVersion:           "v1",
		AppVersion:           "1.2.3",
		RateLimitWindow:      time.Minute,
		RateLimitMaxRequests: 100,
		CORSOrigin:           "*",
	}
}

// newTestServer wires the router with handlers whose services have no
// storage behind them. Only paths rejected before the service runs are safe.
func newTestServer(t *testing.T, cfg *config.Config, deps HealthDependencies) http.Handler {
	t.Helper()

	limiter := middleware.NewMemoryLimiter(t.Context(), cfg.RateLimitMaxRequests, cfg.RateLimitWindow)
	liveness, readiness := NewHealthHandlers(deps, cfg.AppVersion, discard)

	server := NewServer(cfg, discard, limiter, Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Authors:   author.NewHandler(author.NewService(nil, nil, discard)),
		Books:     book.NewHandler(book.NewService(nil, nil, discard)),
	})
	return server.Handler()
}

func get(t *testing.T, handler http.Handler, method, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(method, path, nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body), recorder.Body.String())
	return recorder, body
}

func healthy(context.Context) error { return nil }

func TestServer_Welcome(t *testing.T) {
	handler := newTestServer(t, testConfig(), HealthDependencies{CheckDatabase: healthy})

	recorder, body := get(t, handler, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, recorder.Code)

	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Welcome to Library Management System API", body["message"])
	assert.Equal(t, "1.2.3", body["version"])
	assert.Equal(t, "v1", body["api_version"])
	assert.Equal(t, map[string]any{
		"health":  "/health",
		"authors": "/api/v1/authors",
		"books":   "/api/v1/books",
	}, body["endpoints"])

	assert.NotEmpty(t, recorder.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", recorder.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "100", recorder.Header().Get("RateLimit-Limit"))
}

func TestServer_Fallbacks(t *testing.T) {
	handler := newTestServer(t, testConfig(), HealthDependencies{CheckDatabase: healthy})

	t.Run("unknown_route", func(t *testing.T) {
		recorder, body := get(t, handler, http.MethodGet, "/api/v1/publishers?x=1")
		assert.Equal(t, http.StatusNotFound, recorder.Code)
		assert.Equal(t, map[string]any{
			"success": false,
			"message": "Route not found",
			"path":    "/api/v1/publishers?x=1",
		}, body)
	})

	t.Run("unknown_nested_route", func(t *testing.T) {
		recorder, body := get(t, handler, http.MethodGet, "/api/v1/books/1/reviews")
		assert.Equal(t, http.StatusNotFound, recorder.Code)
		assert.Equal(t, "Route not found", body["message"])
	})

	t.Run("wrong_method", func(t *testing.T) {
		recorder, body := get(t, handler, http.MethodDelete, "/api/v1/books")
		assert.Equal(t, http.StatusMethodNotAllowed, recorder.Code)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "METHOD_NOT_ALLOWED", body["code"])
	})

	t.Run("domain_routes_mounted", func(t *testing.T) {
		recorder, body := get(t, handler, http.MethodGet, "/api/v1/authors/abc")
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Equal(t, "Validation failed", body["message"])

		recorder, _ = get(t, handler, http.MethodPatch, "/api/v1/books/0/stock")
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestServer_Health(t *testing.T) {
	t.Run("database_up", func(t *testing.T) {
		handler := newTestServer(t, testConfig(), HealthDependencies{CheckDatabase: healthy})

		recorder, body := get(t, handler, http.MethodGet, "/health")
		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "Server is running", body["message"])
		assert.Equal(t, "connected", body["database"])
		assert.Equal(t, "1.2.3", body["version"])

		_, err := time.Parse(time.RFC3339Nano, body["timestamp"].(string))
		assert.NoError(t, err)
	})

	t.Run("database_down", func(t *testing.T) {
		handler := newTestServer(t, testConfig(), HealthDependencies{
			CheckDatabase: func(context.Context) error { return errors.New("connection refused") },
		})

		recorder, body := get(t, handler, http.MethodGet, "/health")
		assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "disconnected", body["database"])
	})
}

func TestServer_Ready(t *testing.T) {
	handler := newTestServer(t, testConfig(), HealthDependencies{
		CheckDatabase: healthy,
		CheckCache:    func(context.Context) error { return errors.New("redis down") },
	})

	recorder, body := get(t, handler, http.MethodGet, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.Equal(t, false, body["success"])

	data := body["data"].(map[string]any)
	assert.Equal(t, "degraded", data["status"])
	assert.Equal(t, []any{
		map[string]any{"name": "postgres", "ok": true},
		map[string]any{"name": "redis", "ok": false, "error": "redis down"},
	}, data["checks"])

	handler = newTestServer(t, testConfig(), HealthDependencies{CheckDatabase: healthy})
	recorder, body = get(t, handler, http.MethodGet, "/ready")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "ready", body["data"].(map[string]any)["status"])
}

func TestServer_RateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitMaxRequests = 2
	handler := newTestServer(t, cfg, HealthDependencies{CheckDatabase: healthy})

	for i := 0; i < 2; i++ {
		recorder, _ := get(t, handler, http.MethodGet, "/")
		require.Equal(t, http.StatusOK, recorder.Code)
	}

	recorder, body := get(t, handler, http.MethodGet, "/")
	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, recorder.Header().Get("Retry-After"))
}

func TestServer_RateLimitClientKey(t *testing.T) {
	tests := []struct {
		name       string
		trustProxy bool
		wantLast   int
	}{
		{"forwarding_headers_ignored_by_default", false, http.StatusTooManyRequests},
		{"forwarding_headers_honoured_behind_trusted_proxy", true, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.RateLimitMaxRequests = 2
			cfg.TrustProxy = tt.trustProxy
			handler := newTestServer(t, cfg, HealthDependencies{CheckDatabase: healthy})

			// One peer, a different claimed client on every request.
			var last int
			for i := 0; i < 3; i++ {
				request := httptest.NewRequest(http.MethodGet, "/", nil)
				request.RemoteAddr = "203.0.113.7:4100"
				request.Header.Set("X-Real-IP", fmt.Sprintf("10.0.0.%d", i+1))
				request.Header.Set("X-Forwarded-For", fmt.Sprintf("10.1.0.%d", i+1))

				recorder := httptest.NewRecorder()
				handler.ServeHTTP(recorder, request)
				last = recorder.Code
			}
			assert.Equal(t, tt.wantLast, last)
		})
	}
}
