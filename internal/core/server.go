// Package core provides the API chassis for the AQITrack service.
// It creates a chi router and enforces cross-cutting concerns -- security,
// logging, and error handling -- before requests reach domain-specific
// handlers.
package core

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"aqitrack/internal/config"
)

// RouteRegistrar attaches a group of domain handler routes to a router.
// Handler packages expose a RegisterRoutes method matching this signature;
// main.go collects them into Server.V1RouteRegistrars. This indirection
// avoids import cycles between core and handler packages.
type RouteRegistrar func(r chi.Router)

// Server encapsulates all dependencies for the AQITrack API, allowing for
// easy injection during testing and distinct configuration for different
// environments.
type Server struct {
	Config    *config.Config
	Logger    *slog.Logger
	Validator *Validator

	// HealthProbes are the subsystem checks executed by GET /health.
	HealthProbes []HealthProbe

	// V1RouteRegistrars are invoked under the /v1 route group during
	// MountRoutes.
	V1RouteRegistrars []RouteRegistrar

	// cleanup functions run during Shutdown, in registration order.
	cleanup []func()

	// Internal router
	router *chi.Mux
}

// NewServer initializes dependencies, sets up the router, and prepares the
// server for route mounting. It performs a "fail-fast" check on critical
// configuration.
//
// The caller is responsible for mounting routes (via MountRoutes) after
// construction. This separation allows tests to customize route registration.
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}

	s := &Server{
		Config:    cfg,
		Logger:    logger,
		Validator: NewValidator(logger),
		router:    chi.NewRouter(),
	}

	return s, nil
}

// Handler returns the http.Handler interface for the router, used by
// http.ListenAndServe.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Router returns the underlying chi.Mux for route registration.
// This is used internally by route-mounting methods and tests.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// RegisterCleanup registers fn to run during Shutdown. Used by main.go to
// close the database pool and other long-lived resources.
func (s *Server) RegisterCleanup(fn func()) {
	s.cleanup = append(s.cleanup, fn)
}

// Shutdown performs a graceful termination of server resources, running all
// registered cleanup functions in registration order.
func (s *Server) Shutdown(ctx context.Context) error {
	s.Logger.Info("server shutdown initiated")

	for _, fn := range s.cleanup {
		fn()
	}

	s.Logger.Info("server shutdown complete")
	return nil
}
