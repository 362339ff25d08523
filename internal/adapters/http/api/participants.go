package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/okian/roster/internal/domain/model"
)

// ParticipantsDependencies defines the interface for roster queries.
type ParticipantsDependencies interface {
	Query(ctx context.Context, view model.View, criteria model.Criteria) []model.Participant
}

// ParticipantsHandler handles roster listing requests.
type ParticipantsHandler struct {
	deps ParticipantsDependencies
}

// NewParticipantsHandler creates a new participants handler.
func NewParticipantsHandler(deps ParticipantsDependencies) *ParticipantsHandler {
	return &ParticipantsHandler{deps: deps}
}

type participantsResponse struct {
	View         model.View          `json:"view"`
	Count        int                 `json:"count"`
	Participants []model.Participant `json:"participants"`
}

// HandleList handles GET /participants?view=&q=&sport=&weight= requests.
func (h *ParticipantsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_participants"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	view, ok := viewParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request",
			WrapKind(op, ErrBadRequest, fmt.Errorf("unknown view %q", r.URL.Query().Get("view"))))
		return
	}
	q := r.URL.Query()
	criteria := model.Criteria{
		Search:    q.Get("q"),
		Sport:     q.Get("sport"),
		WeightKey: q.Get("weight"),
	}

	list := h.deps.Query(r.Context(), view, criteria)
	writeJSON(w, http.StatusOK, participantsResponse{View: view, Count: len(list), Participants: list})
}
