package api

import (
	"context"
	"net/http"

	"github.com/okian/roster/internal/domain/model"
	"github.com/okian/roster/internal/domain/query"
)

// FiltersDependencies defines the interface for facet listing.
type FiltersDependencies interface {
	Facets(ctx context.Context, view model.View) query.Facets
}

// FiltersHandler handles facet requests.
type FiltersHandler struct {
	deps FiltersDependencies
}

// NewFiltersHandler creates a new filters handler.
func NewFiltersHandler(deps FiltersDependencies) *FiltersHandler {
	return &FiltersHandler{deps: deps}
}

// HandleGetFilters handles GET /filters?view= requests.
func (h *FiltersHandler) HandleGetFilters(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_filters"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	view, ok := viewParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Facets(r.Context(), view))
}
