package api

import (
	"context"
	"errors"
	"net/http"

	service "github.com/okian/roster/internal/app"
)

// ReloadDependencies defines the interface for on-demand ingestion.
type ReloadDependencies interface {
	Reload(ctx context.Context) (service.Report, error)
}

// ReloadHandler handles reload requests.
type ReloadHandler struct {
	deps ReloadDependencies
}

// NewReloadHandler creates a new reload handler.
func NewReloadHandler(deps ReloadDependencies) *ReloadHandler {
	return &ReloadHandler{deps: deps}
}

// HandleReload handles POST /reload requests. Partial failures are reported
// in the body with 200; a run where every source failed answers 502.
func (h *ReloadHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	const op = "api.reload"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	report, err := h.deps.Reload(r.Context())
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, report)
	case errors.Is(err, service.ErrAllSourcesFailed):
		writeJSON(w, http.StatusBadGateway, report)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrReloadFailed, err))
	}
}
