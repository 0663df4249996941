package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"motorlane/internal/session"
	dErrors "motorlane/pkg/domain-errors"
	"motorlane/pkg/requestcontext"
)

// AuthHandler exposes the sign-in surface backed by the session resolver.
type AuthHandler struct {
	resolver *session.Resolver
	logger   *slog.Logger
}

func NewAuthHandler(resolver *session.Resolver, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{resolver: resolver, logger: logger}
}

func (h *AuthHandler) Register(r chi.Router) {
	r.Post("/auth/login", h.handleLogin)
	r.Post("/auth/register", h.handleRegister)
	r.Post("/auth/logout", h.handleLogout)
	r.Get("/auth/session", h.handleSession)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	Role          string `json:"role"`
	Source        string `json:"source"`
	Email         string `json:"email,omitempty"`
}

func toSessionResponse(s session.Session) sessionResponse {
	return sessionResponse{
		Authenticated: s.IsAuthenticated,
		Role:          string(s.Role),
		Source:        string(s.Source),
		Email:         s.Email,
	}
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "email and password are required"))
		return
	}

	if _, err := h.resolver.Login(ctx, session.LoginRequest(req)); err != nil {
		h.logger.WarnContext(ctx, "login failed",
			"request_id", requestcontext.RequestID(ctx), "error", err.Error())
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(h.resolver.Current()))
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	FullName  string `json:"full_name"`
	StandName string `json:"stand_name"`
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "email and password are required"))
		return
	}

	_, err := h.resolver.Register(ctx, session.Registration{
		Email:     req.Email,
		Password:  req.Password,
		Role:      session.ParseRole(req.Role),
		FullName:  req.FullName,
		StandName: req.StandName,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "registration failed",
			"request_id", requestcontext.RequestID(ctx), "error", err.Error())
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSessionResponse(h.resolver.Current()))
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.resolver.Logout(r.Context())
	writeJSON(w, http.StatusOK, toSessionResponse(h.resolver.Current()))
}

func (h *AuthHandler) handleSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toSessionResponse(h.resolver.Current()))
}
