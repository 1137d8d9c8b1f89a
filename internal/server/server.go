// Package server exposes the verdict pipeline and watchlist storage over
// HTTP.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/savvit/savvit-server/internal/pipeline"
	"github.com/savvit/savvit-server/internal/storage"
)

var startTime = time.Now()

// searchTimeout is generous because first-call warm-up latency of the
// external providers can exceed a minute.
const (
	searchTimeout  = 120 * time.Second
	defaultTimeout = 30 * time.Second
)

// Searcher runs the full product-search pipeline.
type Searcher interface {
	Search(ctx context.Context, req pipeline.SearchRequest) (*pipeline.SearchResponse, error)
}

// WatchlistStore persists tracked products.
type WatchlistStore interface {
	ListWatchlistItems(ctx context.Context, userID string) ([]storage.WatchlistItem, error)
	AddWatchlistItem(ctx context.Context, item *storage.WatchlistItem, maxItems int) error
	UpdateWatchlistItem(ctx context.Context, userID, itemID string, update storage.WatchlistUpdate) (*storage.WatchlistItem, error)
	DeleteWatchlistItem(ctx context.Context, userID, itemID string) error
	SaveVerdict(ctx context.Context, itemID string, v storage.StoredVerdict) error
}

// Config holds the server's runtime settings.
type Config struct {
	// APIToken protects the watchlist routes. Empty disables them.
	APIToken string
	// WatchlistLimit caps items per user; zero means unlimited.
	WatchlistLimit int
	// Version is reported by the health endpoint.
	Version string
}

// Server is the HTTP layer.
type Server struct {
	searcher Searcher
	store    WatchlistStore
	cfg      Config
	logger   *slog.Logger
	now      func() time.Time
}

// New creates a Server. The store may be nil when watchlist persistence is
// not configured; its routes then respond 503.
func New(searcher Searcher, store WatchlistStore, cfg Config, logger *slog.Logger) *Server {
	return &Server{
		searcher: searcher,
		store:    store,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// Router assembles the full route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	r.Get("/health", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.With(middleware.Timeout(searchTimeout)).Post("/search", s.handleSearch)
			r.With(middleware.Timeout(defaultTimeout)).Get("/sale-calendar", s.handleSaleCalendar)
			r.With(middleware.Timeout(defaultTimeout)).Get("/regions", s.handleRegions)
		})

		r.Route("/watchlist", func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.With(middleware.Timeout(defaultTimeout)).Get("/", s.handleWatchlistList)
			r.With(middleware.Timeout(defaultTimeout)).Post("/", s.handleWatchlistAdd)
			r.With(middleware.Timeout(defaultTimeout)).Patch("/{id}", s.handleWatchlistUpdate)
			r.With(middleware.Timeout(defaultTimeout)).Delete("/{id}", s.handleWatchlistDelete)
			// Refresh re-runs the search pipeline and needs the long budget.
			r.With(middleware.Timeout(searchTimeout)).Post("/{id}/refresh", s.handleWatchlistRefresh)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"service": "savvit-api",
		"version": s.cfg.Version,
		"uptime":  time.Since(startTime).String(),
	})
}

// corsMiddleware allows the mobile client's webview and dev tooling to call
// the API from any origin. Auth is bearer-token based, so permissive CORS
// does not widen the attack surface.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
