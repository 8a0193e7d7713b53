// Package api exposes the dashboard over HTTP: KPIs, summaries, exports and
// PDF reports for the filters given as query parameters.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/diillson/sales-dashboard-go/internal/domain/entity"
)

const (
	DefaultAddr            = ":8080"
	DefaultShutdownTimeout = 10 * time.Second
)

// Config configures the web API.
type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	// Defaults are applied before the query parameters of each request.
	Defaults entity.FilterSpec
}

// WebAPI serves the dashboard endpoints.
type WebAPI struct {
	router  *chi.Mux
	logger  *zerolog.Logger
	server  *http.Server
	timeout time.Duration
}

// ConfigureRouter builds the router with every endpoint mounted.
func ConfigureRouter(logger zerolog.Logger, svc DashboardService, defaults entity.FilterSpec) *chi.Mux {
	h := NewHandler(svc, defaults)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(Logger(&logger))
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Get("/kpis", h.GetKPIs)
		r.Get("/summary", h.GetSummary)
		r.Get("/export/{format}", h.GetExport)
		r.Get("/reports/{page}", h.GetReport)
	})

	return router
}

// NewWebAPI cria o servidor HTTP do dashboard.
func NewWebAPI(logger zerolog.Logger, svc DashboardService, config Config) *WebAPI {
	if config.Addr == "" {
		config.Addr = DefaultAddr
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = DefaultShutdownTimeout
	}

	router := ConfigureRouter(logger, svc, config.Defaults)
	return &WebAPI{
		router:  router,
		logger:  &logger,
		timeout: config.ShutdownTimeout,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler returns the HTTP handler, for tests and embedding.
func (w *WebAPI) Handler() http.Handler {
	return w.router
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (w *WebAPI) Start(ctx context.Context) error {
	serverErrors := make(chan error, 1)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), w.timeout)
		defer cancel()

		err := w.server.Shutdown(shutdownCtx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}
		return err
	}
}
