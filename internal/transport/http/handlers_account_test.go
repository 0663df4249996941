package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"motorlane/internal/profiles"
	"motorlane/internal/session"
)

func newAccountRouter(t *testing.T, source *stubSource) chi.Router {
	t.Helper()
	store := profiles.NewMemoryStore()
	require.NoError(t, store.Create(context.Background(), &profiles.Profile{
		ID: "u1", FullName: "Ana Silva", Email: "ana@example.pt",
		Role: session.RoleVisitor, Status: profiles.StatusApproved,
	}))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewAccountHandler(profiles.New(store), source, logger)
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func TestAccountRedirectsVisitors(t *testing.T) {
	router := newAccountRouter(t, newStubSource())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/account", nil))
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestAccountReturnsProfile(t *testing.T) {
	source := newStubSource()
	// Plain buyer accounts carry no elevated role; authentication alone
	// admits them to the client area.
	source.session = session.Session{
		IsAuthenticated: true, Role: session.RoleVisitor,
		Source: session.SourceRemoteProvider, Email: "ana@example.pt",
	}
	router := newAccountRouter(t, source)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/account", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Session sessionResponse   `json:"session"`
		Profile *profiles.Profile `json:"profile"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Session.Authenticated)
	require.NotNil(t, resp.Profile)
	assert.Equal(t, "Ana Silva", resp.Profile.FullName)
}

func TestAccountSelfUpdate(t *testing.T) {
	source := newStubSource()
	source.session = session.Session{
		IsAuthenticated: true, Role: session.RoleVisitor,
		Source: session.SourceRemoteProvider, Email: "ana@example.pt",
	}
	router := newAccountRouter(t, source)

	body, err := json.Marshal(profiles.DetailsUpdate{
		FullName: "Ana Sousa", Phone: "912345678",
	})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPut, "/account", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var updated profiles.Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "Ana Sousa", updated.FullName)
	assert.Equal(t, "912345678", updated.Phone)
	// Role and status are moderation-controlled and unchanged.
	assert.Equal(t, profiles.StatusApproved, updated.Status)
}

func TestAccountSelfUpdateRequiresName(t *testing.T) {
	source := newStubSource()
	source.session = session.Session{
		IsAuthenticated: true, Role: session.RoleVisitor,
		Source: session.SourceRemoteProvider, Email: "ana@example.pt",
	}
	router := newAccountRouter(t, source)

	req := httptest.NewRequest(http.MethodPut, "/account", bytes.NewReader([]byte(`{"phone":"1"}`)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAccountForFallbackAdmin(t *testing.T) {
	source := newStubSource()
	source.session = session.Session{
		IsAuthenticated: true, Role: session.RoleAdmin,
		Source: session.SourceLocalFallback, Email: "admin@facilitadorcar.pt",
	}
	router := newAccountRouter(t, source)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/account", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Session sessionResponse   `json:"session"`
		Profile *profiles.Profile `json:"profile"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Nil(t, resp.Profile)
	assert.Equal(t, "local_fallback", resp.Session.Source)
}
