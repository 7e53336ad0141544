package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/time/rate"

	service "github.com/okian/reelrank/internal/app"
	"github.com/okian/reelrank/internal/domain/types"
)

// RebuildDependencies defines the interface for queuing rebuilds.
type RebuildDependencies interface {
	RequestRebuild(ctx context.Context, reason string) (string, error)
}

// RebuildHandler handles rebuild requests.
type RebuildHandler struct {
	deps    RebuildDependencies
	limiter *rate.Limiter
}

// NewRebuildHandler creates a rebuild handler accepting perMinute requests
// per minute with a burst of one. Zero or less disables the limit.
func NewRebuildHandler(deps RebuildDependencies, perMinute int) *RebuildHandler {
	limit := rate.Inf
	if perMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(perMinute))
	}
	return &RebuildHandler{deps: deps, limiter: rate.NewLimiter(limit, 1)}
}

// rebuildRequest mirrors the OpenAPI schema for POST /rebuild. The body is optional.
type rebuildRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=128,printascii"`
}

// HandlePostRebuild handles POST /rebuild requests.
func (h *RebuildHandler) HandlePostRebuild(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_rebuild"
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	var req rebuildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_request", wrap(op, ErrBadRequest, err))
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrap(op, ErrBadRequest, err))
		return
	}
	if req.Reason == "" {
		req.Reason = "api"
	}

	if !h.limiter.Allow() {
		w.Header().Set("Retry-After", "60")
		writeError(w, http.StatusTooManyRequests, "rate_limited", wrap(op, ErrRateLimited, nil))
		return
	}

	id, err := h.deps.RequestRebuild(r.Context(), req.Reason)
	switch {
	case errors.Is(err, service.ErrRebuildBusy):
		writeError(w, http.StatusTooManyRequests, "backpressure", wrap(op, ErrBackpressure, err))
		return
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "not_ready", wrap(op, ErrNotReady, err))
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", wrap(op, err, nil))
		return
	}
	writeJSON(w, http.StatusAccepted, types.RebuildAccepted{ID: id, Status: "accepted"})
}
