// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"

	"github.com/okian/reelrank/internal/domain/model"
	"github.com/okian/reelrank/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service package.
type Dependencies interface {
	Recommend(ctx context.Context, q model.Query) (model.Result, error)
	Genres(ctx context.Context) []string
	Languages(ctx context.Context) []model.Language
	GetStats(ctx context.Context) types.Stats

	// RequestRebuild queues a catalog rebuild and returns its request id.
	RequestRebuild(ctx context.Context, reason string) (string, error)
}

// Server wires HTTP routes for the catalog API.
type Server struct {
	healthHandler          *HealthHandler
	statsHandler           *StatsHandler
	recommendationsHandler *RecommendationsHandler
	catalogHandler         *CatalogHandler
	rebuildHandler         *RebuildHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Server{
		healthHandler:          NewHealthHandler(),
		statsHandler:           NewStatsHandler(deps),
		recommendationsHandler: NewRecommendationsHandler(deps),
		catalogHandler:         NewCatalogHandler(deps),
		rebuildHandler:         NewRebuildHandler(deps, o.rebuildPerMinute),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/recommendations", MetricsMiddleware(s.recommendationsHandler.HandleGetRecommendations, "recommendations"))
	mux.HandleFunc("/genres", MetricsMiddleware(s.catalogHandler.HandleGetGenres, "genres"))
	mux.HandleFunc("/languages", MetricsMiddleware(s.catalogHandler.HandleGetLanguages, "languages"))
	mux.HandleFunc("/rebuild", MetricsMiddleware(s.rebuildHandler.HandlePostRebuild, "rebuild"))
}

var validate = validator.New(validator.WithRequiredStructEnabled())

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

func wrap(op string, kind, err error) error {
	if err == nil {
		return fmt.Errorf("%s: %w", op, kind)
	}
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}
