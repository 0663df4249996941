package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"motorlane/internal/admin"
	"motorlane/internal/authz"
	"motorlane/internal/blog"
	"motorlane/internal/leads"
	"motorlane/internal/moderation"
	"motorlane/internal/profiles"
	dErrors "motorlane/pkg/domain-errors"
)

// AdminHandler exposes the back office: user moderation, listing and article
// management, lead triage, and the dashboard overview. Every route sits
// behind the admin gate.
type AdminHandler struct {
	overview   *admin.Service
	profiles   *profiles.Service
	leads      *leads.Service
	moderation *moderation.Service
	source     authz.SessionSource
	logger     *slog.Logger
}

func NewAdminHandler(
	overviewSvc *admin.Service,
	profilesSvc *profiles.Service,
	leadsSvc *leads.Service,
	moderationSvc *moderation.Service,
	source authz.SessionSource,
	logger *slog.Logger,
) *AdminHandler {
	return &AdminHandler{
		overview:   overviewSvc,
		profiles:   profilesSvc,
		leads:      leadsSvc,
		moderation: moderationSvc,
		source:     source,
		logger:     logger,
	}
}

func (h *AdminHandler) Register(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(authz.Gate(h.source, authz.RequiresAdmin))

		r.Get("/overview", h.handleOverview)

		r.Get("/users", h.handleUsers)
		r.Post("/users/{id}/approve", h.handleApproveUser)
		r.Post("/users/{id}/reject", h.handleRejectUser)
		r.Delete("/users/{id}", h.handleDeleteUser)

		r.Delete("/listings/{id}", h.handleDeleteListing)

		r.Post("/articles", h.handleCreateArticle)
		r.Delete("/articles/{id}", h.handleDeleteArticle)

		r.Get("/leads", h.handleLeads)
		r.Put("/leads/{id}/status", h.handleLeadStatus)
		r.Delete("/leads/{id}", h.handleDeleteLead)
	})
}

func (h *AdminHandler) handleOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.overview.Fetch(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (h *AdminHandler) handleUsers(w http.ResponseWriter, r *http.Request) {
	var (
		list []*profiles.Profile
		err  error
	)
	if query := r.URL.Query().Get("q"); query != "" {
		list, err = h.profiles.Search(r.Context(), query)
	} else {
		list, err = h.profiles.List(r.Context())
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": list})
}

func (h *AdminHandler) handleApproveUser(w http.ResponseWriter, r *http.Request) {
	h.writeOutcome(w, r, func() (moderation.Outcome, error) {
		return h.moderation.ApproveProfile(r.Context(), chi.URLParam(r, "id"))
	})
}

func (h *AdminHandler) handleRejectUser(w http.ResponseWriter, r *http.Request) {
	h.writeOutcome(w, r, func() (moderation.Outcome, error) {
		return h.moderation.RejectProfile(r.Context(), chi.URLParam(r, "id"))
	})
}

func (h *AdminHandler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	h.writeOutcome(w, r, func() (moderation.Outcome, error) {
		return h.moderation.DeleteProfile(r.Context(), chi.URLParam(r, "id"))
	})
}

func (h *AdminHandler) handleDeleteListing(w http.ResponseWriter, r *http.Request) {
	h.writeOutcome(w, r, func() (moderation.Outcome, error) {
		return h.moderation.DeleteListing(r.Context(), chi.URLParam(r, "id"))
	})
}

func (h *AdminHandler) handleCreateArticle(w http.ResponseWriter, r *http.Request) {
	var post blog.Post
	if err := decodeJSON(r, &post); err != nil {
		writeError(w, err)
		return
	}

	outcome, err := h.moderation.CreateArticle(r.Context(), &post)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"outcome": string(outcome),
		"post":    post,
	})
}

func (h *AdminHandler) handleDeleteArticle(w http.ResponseWriter, r *http.Request) {
	h.writeOutcome(w, r, func() (moderation.Outcome, error) {
		return h.moderation.DeleteArticle(r.Context(), chi.URLParam(r, "id"))
	})
}

func (h *AdminHandler) handleLeads(w http.ResponseWriter, r *http.Request) {
	list, err := h.leads.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"leads": list})
}

func (h *AdminHandler) handleLeadStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	status, ok := leads.ParseStatus(req.Status)
	if !ok {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "unknown lead status"))
		return
	}

	h.writeOutcome(w, r, func() (moderation.Outcome, error) {
		return h.moderation.UpdateLeadStatus(r.Context(), chi.URLParam(r, "id"), status)
	})
}

func (h *AdminHandler) handleDeleteLead(w http.ResponseWriter, r *http.Request) {
	h.writeOutcome(w, r, func() (moderation.Outcome, error) {
		return h.moderation.DeleteLead(r.Context(), chi.URLParam(r, "id"))
	})
}

func (h *AdminHandler) writeOutcome(w http.ResponseWriter, r *http.Request, op func() (moderation.Outcome, error)) {
	outcome, err := op()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"outcome": string(outcome)})
}
