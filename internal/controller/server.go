// Package controller contains the controller-specific logic for the HTTP API.
package controller

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Saasvidu/agentic-engineering-workflow-automation/internal/artifacts"
	"github.com/Saasvidu/agentic-engineering-workflow-automation/internal/config"
	"github.com/Saasvidu/agentic-engineering-workflow-automation/internal/controller/handlers"
	"github.com/Saasvidu/agentic-engineering-workflow-automation/internal/controller/middleware"
)

// Server is the HTTP server for the controller API.
type Server struct {
	httpServer *http.Server
}

// New creates a new controller server.
func New(addr string, store handlers.Store, arts *artifacts.Service, cfg *config.Config, metricsHandler http.Handler, log *slog.Logger) *Server {
	h := handlers.New(store, arts, log)

	limitMW := middleware.RateLimit(cfg.RateLimit, cfg.RateLimitBurst)
	logMW := middleware.RequestLogging(log)

	limited := func(fn http.HandlerFunc) http.Handler {
		return limitMW(fn)
	}

	mux := http.NewServeMux()

	// Public API
	mux.Handle("POST /jobs", limited(h.CreateJob))
	mux.Handle("GET /jobs", limited(h.ListJobs))
	mux.Handle("GET /jobs/{id}", limited(h.GetJob))
	mux.Handle("PUT /jobs/{id}/status", limited(h.UpdateStatus))
	mux.Handle("GET /jobs/{id}/artifacts", limited(h.ArtifactURLs))

	// Internal endpoints, called by out-of-process worker agents. These
	// should run behind strict network rules.
	mux.HandleFunc("POST /internal/queue/claim", h.ClaimNext)

	mux.HandleFunc("GET /healthz", h.Health)
	if metricsHandler != nil {
		mux.Handle("GET /metrics", metricsHandler)
	}

	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      logMW(mux),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
	}
}

// Run starts the HTTP server. It blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		shutDownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return s.Shutdown(shutDownCtx)
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
