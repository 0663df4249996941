package httptransport

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"motorlane/internal/authz"
	"motorlane/internal/catalog"
	"motorlane/internal/moderation"
	"motorlane/internal/profiles"
	"motorlane/internal/session"
	dErrors "motorlane/pkg/domain-errors"
)

// CatalogHandler serves listings: public browsing plus the stand-facing
// dashboard and write endpoints.
type CatalogHandler struct {
	catalog    *catalog.Service
	profiles   *profiles.Service
	moderation *moderation.Service
	source     authz.SessionSource
	logger     *slog.Logger
}

func NewCatalogHandler(
	catalogSvc *catalog.Service,
	profilesSvc *profiles.Service,
	moderationSvc *moderation.Service,
	source authz.SessionSource,
	logger *slog.Logger,
) *CatalogHandler {
	return &CatalogHandler{
		catalog:    catalogSvc,
		profiles:   profilesSvc,
		moderation: moderationSvc,
		source:     source,
		logger:     logger,
	}
}

func (h *CatalogHandler) Register(r chi.Router) {
	r.Get("/listings", h.handleList)
	r.Get("/listings/options", h.handleOptions)
	r.Get("/listings/{id}", h.handleGet)
	r.Get("/stands", h.handleStands)
	r.Get("/stands/{id}", h.handleStand)

	gate := authz.Gate(h.source, authz.RequiresRole(session.RoleStand, session.RoleAdmin))
	standOnly := authz.Gate(h.source, authz.RequiresRole(session.RoleStand))
	r.With(gate).Get("/dashboard", h.handleDashboard)
	r.With(standOnly).Post("/listings", h.handleCreate)
	r.With(gate).Put("/listings/{id}", h.handleUpdate)
	r.With(gate).Delete("/listings/{id}", h.handleDelete)
}

func (h *CatalogHandler) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := catalog.Filter{
		Query:    q.Get("q"),
		Brand:    q.Get("brand"),
		Category: q.Get("category"),
	}
	if raw := q.Get("max_price"); raw != "" {
		maxPrice, err := strconv.ParseFloat(raw, 64)
		if err != nil || maxPrice < 0 {
			writeError(w, dErrors.New(dErrors.CodeBadRequest, "max_price is not valid"))
			return
		}
		filter.MaxPrice = maxPrice
	}

	cars, err := h.catalog.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"listings": cars})
}

func (h *CatalogHandler) handleOptions(w http.ResponseWriter, r *http.Request) {
	brands, categories, err := h.catalog.FilterOptions(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"brands":     brands,
		"categories": categories,
	})
}

func (h *CatalogHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	car, err := h.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, car)
}

func (h *CatalogHandler) handleStands(w http.ResponseWriter, r *http.Request) {
	stands, err := h.profiles.Stands(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"stands": stands})
}

func (h *CatalogHandler) handleStand(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profile, err := h.profiles.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	cars, err := h.catalog.ListByUser(ctx, profile.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"stand":    profile,
		"listings": cars,
	})
}

// handleDashboard returns the acting stand's own listings. Administrators
// see everything.
func (h *CatalogHandler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	current := h.source.Current()

	if current.Role == session.RoleAdmin {
		cars, err := h.catalog.List(ctx, catalog.Filter{})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"listings": cars})
		return
	}

	profile, err := h.profiles.FindByEmail(ctx, current.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	cars, err := h.catalog.ListByUser(ctx, profile.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"listings": cars})
}

func (h *CatalogHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var car catalog.Car
	if err := decodeJSON(r, &car); err != nil {
		writeError(w, err)
		return
	}

	profile, err := h.profiles.FindByEmail(ctx, h.source.Current().Email)
	if err != nil {
		writeError(w, err)
		return
	}
	car.UserID = profile.ID
	if car.StandName == "" {
		car.StandName = profile.StandName
	}

	created, err := h.catalog.Create(ctx, &car)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *CatalogHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if err := h.requireOwnershipOrAdmin(r, id); err != nil {
		writeError(w, err)
		return
	}

	var car catalog.Car
	if err := decodeJSON(r, &car); err != nil {
		writeError(w, err)
		return
	}
	car.ID = id

	updated, err := h.catalog.Update(ctx, &car)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *CatalogHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if err := h.requireOwnershipOrAdmin(r, id); err != nil {
		writeError(w, err)
		return
	}

	outcome, err := h.moderation.DeleteListing(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"outcome": string(outcome)})
}

func (h *CatalogHandler) requireOwnershipOrAdmin(r *http.Request, carID string) error {
	current := h.source.Current()
	if current.Role == session.RoleAdmin {
		return nil
	}
	profile, err := h.profiles.FindByEmail(r.Context(), current.Email)
	if err != nil {
		return dErrors.New(dErrors.CodeForbidden, "no profile for this account")
	}
	owned, err := h.catalog.OwnedBy(r.Context(), carID, profile.ID)
	if err != nil {
		return err
	}
	if !owned {
		return dErrors.New(dErrors.CodeForbidden, "listing belongs to another stand")
	}
	return nil
}
