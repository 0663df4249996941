package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"motorlane/internal/leads"
)

// LeadsHandler accepts contact submissions from car listing pages. Capture
// is public so a visitor never has to sign in to reach a stand.
type LeadsHandler struct {
	leads  *leads.Service
	logger *slog.Logger
}

func NewLeadsHandler(leadsSvc *leads.Service, logger *slog.Logger) *LeadsHandler {
	return &LeadsHandler{leads: leadsSvc, logger: logger}
}

func (h *LeadsHandler) Register(r chi.Router) {
	r.Post("/leads", h.handleCapture)
}

func (h *LeadsHandler) handleCapture(w http.ResponseWriter, r *http.Request) {
	var lead leads.Lead
	if err := decodeJSON(r, &lead); err != nil {
		writeError(w, err)
		return
	}

	captured, err := h.leads.Capture(r.Context(), &lead)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, captured)
}
