package api

import (
	"context"
	"net/http"
	"strings"

	service "github.com/okian/roster/internal/app"
)

// DetailDependencies defines the interface for participant detail lookups.
type DetailDependencies interface {
	Detail(ctx context.Context, id string) (service.Detail, error)
}

// DetailHandler handles participant detail requests.
type DetailHandler struct {
	deps DetailDependencies
}

// NewDetailHandler creates a new detail handler.
func NewDetailHandler(deps DetailDependencies) *DetailHandler {
	return &DetailHandler{deps: deps}
}

// HandleGetDetail handles GET /participants/{id} requests.
func (h *DetailHandler) HandleGetDetail(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_participant"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/participants/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	detail, err := h.deps.Detail(r.Context(), id)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, detail)
}
