// Package server exposes the ranked lists and genre lists over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lepinkainen/bestlastyear/internal/catalog"
)

const shutdownTimeout = 10 * time.Second

// Ranker answers the list and genre queries.
type Ranker interface {
	BestLastYear(ctx context.Context, ct catalog.ContentType, filter catalog.GenreFilter) (catalog.ListResponse, error)
	Genres(ctx context.Context, ct catalog.ContentType) []catalog.GenreRef
}

// Config holds the dependencies of a Server.
type Config struct {
	Ranker Ranker
	// Logger receives request logs. Defaults to slog.Default().
	Logger *slog.Logger
}

// Server is the HTTP API.
type Server struct {
	ranker Ranker
	logger *slog.Logger
}

// New creates a Server.
func New(cfg Config) (*Server, error) {
	if cfg.Ranker == nil {
		return nil, errors.New("ranker is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{ranker: cfg.Ranker, logger: logger}, nil
}

// Routes returns the API handler with its middleware stack.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(httplog.RequestLogger(s.logger, &httplog.Options{
		Level:         slog.LevelInfo,
		Schema:        httplog.SchemaECS,
		RecoverPanics: true,
		Skip: func(req *http.Request, _ int) bool {
			return req.URL.Path == "/healthz" || req.URL.Path == "/metrics"
		},
	}))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))
	r.Use(instrument)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Detail: "Not Found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Detail: "Method Not Allowed"})
	})

	r.Method(http.MethodGet, "/healthz", Adapt(s.getHealth))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/genres", Adapt(s.getGenres(catalog.Movie)))
		r.Method(http.MethodGet, "/movies/best-last-year", Adapt(s.getBestLastYear(catalog.Movie)))
		r.Method(http.MethodGet, "/anime/genres", Adapt(s.getGenres(catalog.Anime)))
		r.Method(http.MethodGet, "/anime/best-last-year", Adapt(s.getBestLastYear(catalog.Anime)))
	})

	return r
}

// ListenAndServe serves the API on addr until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// master list builds page through upstream APIs
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("API server listening", "address", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
