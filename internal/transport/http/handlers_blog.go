package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"motorlane/internal/blog"
)

// BlogHandler serves the public article surface. Authoring goes through the
// admin endpoints.
type BlogHandler struct {
	blog   *blog.Service
	logger *slog.Logger
}

func NewBlogHandler(blogSvc *blog.Service, logger *slog.Logger) *BlogHandler {
	return &BlogHandler{blog: blogSvc, logger: logger}
}

func (h *BlogHandler) Register(r chi.Router) {
	r.Get("/blog", h.handleList)
	r.Get("/blog/{id}", h.handleGet)
}

func (h *BlogHandler) handleList(w http.ResponseWriter, r *http.Request) {
	if query := r.URL.Query().Get("q"); query != "" {
		posts, err := h.blog.Search(r.Context(), query)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"posts": posts})
		return
	}

	posts, err := h.blog.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

func (h *BlogHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	post, err := h.blog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}
