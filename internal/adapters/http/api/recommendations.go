package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	service "github.com/okian/reelrank/internal/app"
	"github.com/okian/reelrank/internal/domain/model"
	"github.com/okian/reelrank/internal/domain/recommend"
	"github.com/okian/reelrank/internal/domain/types"
)

// RecommendationDependencies defines the interface for recommendation queries.
type RecommendationDependencies interface {
	Recommend(ctx context.Context, q model.Query) (model.Result, error)
}

// RecommendationsHandler handles recommendation requests.
type RecommendationsHandler struct {
	deps RecommendationDependencies
}

// NewRecommendationsHandler creates a new recommendations handler.
func NewRecommendationsHandler(deps RecommendationDependencies) *RecommendationsHandler {
	return &RecommendationsHandler{deps: deps}
}

// recommendationRequest is the validated form of the query string.
type recommendationRequest struct {
	Language string   `validate:"required,max=16"`
	Genre    string   `validate:"max=64"`
	Exclude  []string `validate:"max=1000"`
}

// HandleGetRecommendations handles
// GET /recommendations?language=en&genre=Action&exclude=a,b&limit=3 requests.
func (h *RecommendationsHandler) HandleGetRecommendations(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_recommendations"
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	values := r.URL.Query()
	limit := 0
	if raw := strings.TrimSpace(values.Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid_limit", wrap(op, ErrBadRequest, recommend.ErrInvalidLimit))
			return
		}
		limit = n
	}

	req := recommendationRequest{
		Language: strings.TrimSpace(values.Get("language")),
		Genre:    strings.TrimSpace(values.Get("genre")),
		Exclude:  splitIDs(values["exclude"]),
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrap(op, ErrBadRequest, err))
		return
	}

	q := model.Query{
		Genre:       req.Genre,
		Language:    req.Language,
		ExcludedIDs: make(map[string]struct{}, len(req.Exclude)),
		Limit:       limit,
	}
	for _, id := range req.Exclude {
		q.ExcludedIDs[id] = struct{}{}
	}

	res, err := h.deps.Recommend(r.Context(), q)
	switch {
	case errors.Is(err, service.ErrLimitExceeded):
		writeError(w, http.StatusBadRequest, "limit_exceeded", wrap(op, ErrBadRequest, err))
		return
	case errors.Is(err, recommend.ErrInvalidLimit):
		writeError(w, http.StatusBadRequest, "invalid_limit", wrap(op, ErrBadRequest, err))
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", wrap(op, err, nil))
		return
	}
	writeJSON(w, http.StatusOK, types.FromResult(res))
}

// splitIDs flattens repeated and comma separated exclude parameters.
func splitIDs(raw []string) []string {
	var ids []string
	for _, v := range raw {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}
