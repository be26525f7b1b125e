// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/taibuivan/library-api/internal/platform/respond"
)

// HealthDependencies holds the injectable dependency checkers for /health and /ready.
type HealthDependencies struct {
	// CheckDatabase pings the PostgreSQL pool.
	CheckDatabase func(ctx context.Context) error

	// CheckCache pings the Redis client. Nil when Redis is not configured.
	CheckCache func(ctx context.Context) error
}

// healthResponse is the body of GET /health.
type healthResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Database  string `json:"database"`
	Version   string `json:"version"`
}

type checkResult struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type healthHandler struct {
	dependencies HealthDependencies
	version      string
	logger       *slog.Logger
	now          func() time.Time
}

// NewHealthHandlers creates the /health and /ready http.HandlerFuncs.
func NewHealthHandlers(deps HealthDependencies, version string, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{dependencies: deps, version: version, logger: logger, now: time.Now}
	return handler.liveness, handler.readiness
}

// liveness handles GET /health. It answers 503 while the database is unreachable.
func (handler *healthHandler) liveness(writer http.ResponseWriter, request *http.Request) {
	database := "connected"
	status := http.StatusOK

	if err := handler.check(request.Context(), "postgres", handler.dependencies.CheckDatabase); err != nil {
		database = "disconnected"
		status = http.StatusServiceUnavailable
	}

	respond.JSON(writer, status, healthResponse{
		Success:   status == http.StatusOK,
		Message:   "Server is running",
		Timestamp: handler.now().UTC().Format(time.RFC3339Nano),
		Database:  database,
		Version:   handler.version,
	})
}

// readiness handles GET /ready with one result per configured dependency.
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	checks := []struct {
		name  string
		check func(context.Context) error
	}{
		{"postgres", handler.dependencies.CheckDatabase},
		{"redis", handler.dependencies.CheckCache},
	}

	results := make([]checkResult, 0, len(checks))
	isSystemReady := true

	for _, c := range checks {
		if c.check == nil {
			continue
		}
		result := checkResult{Name: c.name, IsOK: true}
		if err := handler.check(request.Context(), c.name, c.check); err != nil {
			result.IsOK = false
			result.Error = err.Error()
			isSystemReady = false
		}
		results = append(results, result)
	}

	status := http.StatusOK
	responseStatus := "ready"
	if !isSystemReady {
		status = http.StatusServiceUnavailable
		responseStatus = "degraded"
	}

	respond.JSON(writer, status, respond.Envelope{
		Success: isSystemReady,
		Data: map[string]any{
			"status": responseStatus,
			"checks": results,
		},
	})
}

func (handler *healthHandler) check(ctx context.Context, name string, check func(context.Context) error) error {
	if check == nil {
		return nil
	}
	if err := check(ctx); err != nil {
		handler.logger.Error("health_check_failed", slog.String("dependency", name), slog.Any("error", err))
		return err
	}
	return nil
}
