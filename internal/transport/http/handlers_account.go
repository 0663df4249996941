package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"motorlane/internal/authz"
	"motorlane/internal/profiles"
)

// AccountHandler serves the signed-in client area.
type AccountHandler struct {
	profiles *profiles.Service
	source   authz.SessionSource
	logger   *slog.Logger
}

func NewAccountHandler(profilesSvc *profiles.Service, source authz.SessionSource, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{profiles: profilesSvc, source: source, logger: logger}
}

func (h *AccountHandler) Register(r chi.Router) {
	gate := authz.Gate(h.source, authz.RequiresAuth)
	r.With(gate).Get("/account", h.handleAccount)
	r.With(gate).Put("/account", h.handleUpdate)
}

func (h *AccountHandler) handleAccount(w http.ResponseWriter, r *http.Request) {
	current := h.source.Current()

	profile, err := h.profiles.FindByEmail(r.Context(), current.Email)
	if err != nil {
		// An admin signed in through the local fallback has no profile row.
		// The client area still renders from the session alone.
		writeJSON(w, http.StatusOK, map[string]any{
			"session": toSessionResponse(current),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"session": toSessionResponse(current),
		"profile": profile,
	})
}

func (h *AccountHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var upd profiles.DetailsUpdate
	if err := decodeJSON(r, &upd); err != nil {
		writeError(w, err)
		return
	}

	profile, err := h.profiles.UpdateOwn(r.Context(), h.source.Current().Email, upd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
