package api

import (
	"context"
	"net/http"

	"github.com/okian/reelrank/internal/domain/model"
	"github.com/okian/reelrank/internal/domain/types"
)

// CatalogDependencies lists catalog facets.
type CatalogDependencies interface {
	Genres(ctx context.Context) []string
	Languages(ctx context.Context) []model.Language
}

// CatalogHandler serves genre and language listings.
type CatalogHandler struct {
	deps CatalogDependencies
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(deps CatalogDependencies) *CatalogHandler {
	return &CatalogHandler{deps: deps}
}

// HandleGetGenres handles GET /genres requests.
func (h *CatalogHandler) HandleGetGenres(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	genres := h.deps.Genres(r.Context())
	if genres == nil {
		genres = []string{}
	}
	writeJSON(w, http.StatusOK, types.Genres{Success: true, Genres: genres})
}

// HandleGetLanguages handles GET /languages requests.
func (h *CatalogHandler) HandleGetLanguages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	writeJSON(w, http.StatusOK, types.Languages{Success: true, Languages: h.deps.Languages(r.Context())})
}
