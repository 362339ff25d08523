package api

import (
	"context"
	"net/http"

	"github.com/okian/roster/internal/domain/embed"
)

// EmbedDependencies defines the interface for video reference resolution.
type EmbedDependencies interface {
	ResolveEmbed(ctx context.Context, raw string) embed.Descriptor
}

// EmbedHandler handles embed resolution requests.
type EmbedHandler struct {
	deps EmbedDependencies
}

// NewEmbedHandler creates a new embed handler.
func NewEmbedHandler(deps EmbedDependencies) *EmbedHandler {
	return &EmbedHandler{deps: deps}
}

// HandleResolve handles GET /embed?ref= requests. A blank ref resolves to an empty descriptor.
func (h *EmbedHandler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.ResolveEmbed(r.Context(), r.URL.Query().Get("ref")))
}
