// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/library-api/internal/core/author"
	"github.com/taibuivan/library-api/internal/core/book"
	"github.com/taibuivan/library-api/internal/platform/apperr"
	"github.com/taibuivan/library-api/internal/platform/config"
	"github.com/taibuivan/library-api/internal/platform/constants"
	"github.com/taibuivan/library-api/internal/platform/middleware"
	"github.com/taibuivan/library-api/internal/platform/respond"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups the HTTP handler sets mounted by [NewServer].
type Handlers struct {
	// Liveness is the /health handler.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler.
	Readiness http.HandlerFunc

	Authors *author.Handler
	Books   *book.Handler
}

// welcomeResponse is the body of GET /.
type welcomeResponse struct {
	Success       bool              `json:"success"`
	Message       string            `json:"message"`
	Version       string            `json:"version"`
	APIVersion    string            `json:"api_version"`
	Endpoints     map[string]string `json:"endpoints"`
	Documentation string            `json:"documentation"`
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups. Requests are rate limited per client IP by limiter.
func NewServer(cfg *config.Config, log *slog.Logger, limiter middleware.Limiter, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	if cfg.TrustProxy {
		// Rewrites RemoteAddr from X-Forwarded-For / X-Real-IP before the
		// logger and the rate limiter read it.
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.PanicRecovery())
	r.Use(middleware.ExposeErrors(cfg.IsDevelopment()))
	r.Use(middleware.SecureHeaders())
	r.Use(middleware.CORS(cfg.AllowedOrigins()))
	r.Use(middleware.RateLimit(limiter, cfg.RateLimitMaxRequests))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(chimw.CleanPath)

	r.NotFound(routeNotFound)
	r.MethodNotAllowed(methodNotAllowed)

	// # Infrastructure Endpoints
	r.Get("/", welcome(cfg))
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	r.Route(cfg.APIPrefix(), func(api chi.Router) {
		api.Route("/authors", h.Authors.RegisterRoutes)
		api.Route("/books", h.Books.RegisterRoutes)
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the fully wired router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Fallback Handlers

func welcome(cfg *config.Config) http.HandlerFunc {
	body := welcomeResponse{
		Success:    true,
		Message:    "Welcome to Library Management System API",
		Version:    cfg.AppVersion,
		APIVersion: cfg.APIVersion,
		Endpoints: map[string]string{
			"health":  "/health",
			"authors": cfg.APIPrefix() + "/authors",
			"books":   cfg.APIPrefix() + "/books",
		},
		Documentation: "Please refer to README.md for API documentation",
	}

	return func(writer http.ResponseWriter, _ *http.Request) {
		respond.JSON(writer, http.StatusOK, body)
	}
}

func routeNotFound(writer http.ResponseWriter, request *http.Request) {
	respond.JSON(writer, http.StatusNotFound, map[string]any{
		constants.FieldSuccess: false,
		constants.FieldMessage: "Route not found",
		constants.FieldPath:    request.URL.RequestURI(),
	})
}

func methodNotAllowed(writer http.ResponseWriter, request *http.Request) {
	respond.Error(writer, request, apperr.MethodNotAllowed(request.Method))
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
