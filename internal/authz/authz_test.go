package authz

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"motorlane/internal/session"
)

func visitor() session.Session {
	return session.Anonymous()
}

func authed(role session.Role) session.Session {
	return session.Session{
		IsAuthenticated: true,
		Role:            role,
		Source:          session.SourceRemoteProvider,
		Email:           string(role) + "@example.pt",
	}
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name     string
		sess     session.Session
		req      Requirement
		verdict  Verdict
		location string
	}{
		{"public admits visitor", visitor(), Public, Render, ""},
		{"public admits admin", authed(session.RoleAdmin), Public, Render, ""},

		{"auth rejects visitor", visitor(), RequiresAuth, Redirect, "/login"},
		{"auth admits stand", authed(session.RoleStand), RequiresAuth, Render, ""},
		{"auth admits admin", authed(session.RoleAdmin), RequiresAuth, Render, ""},

		{"role rejects visitor", visitor(), RequiresRole(session.RoleStand), Redirect, "/login"},
		{"role rejects wrong role", authed(session.RoleVisitor), RequiresRole(session.RoleStand), Redirect, "/login"},
		{"role admits match", authed(session.RoleStand), RequiresRole(session.RoleStand), Render, ""},
		{"role admits any of set", authed(session.RoleAdmin), RequiresRole(session.RoleStand, session.RoleAdmin), Render, ""},
		{"admin not admitted to stand-only", authed(session.RoleAdmin), RequiresRole(session.RoleStand), Redirect, "/login"},

		{"admin area rejects visitor to admin login", visitor(), RequiresAdmin, Redirect, "/admin/login"},
		{"admin area rejects stand to admin login", authed(session.RoleStand), RequiresAdmin, Redirect, "/admin/login"},
		{"admin area admits admin", authed(session.RoleAdmin), RequiresAdmin, Render, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(tt.sess, tt.req)
			assert.Equal(t, tt.verdict, d.Verdict)
			assert.Equal(t, tt.location, d.Location)
		})
	}
}

// A session whose authentication came from the local fallback must be
// treated exactly like a remote one.
func TestDecide_SourceDoesNotMatter(t *testing.T) {
	local := session.Session{
		IsAuthenticated: true,
		Role:            session.RoleAdmin,
		Source:          session.SourceLocalFallback,
		Email:           "admin@facilitadorcar.pt",
	}
	assert.Equal(t, Render, Decide(local, RequiresAdmin).Verdict)
	assert.Equal(t, Render, Decide(local, RequiresRole(session.RoleStand, session.RoleAdmin)).Verdict)
}

func TestRoutes_Table(t *testing.T) {
	byPattern := map[string]Requirement{}
	for _, rule := range Routes() {
		byPattern[rule.Pattern] = rule.Req
	}

	admin := authed(session.RoleAdmin)
	stand := authed(session.RoleStand)

	// Dashboard admits stand and admin, nobody else.
	assert.Equal(t, Render, Decide(stand, byPattern["/dashboard"]).Verdict)
	assert.Equal(t, Render, Decide(admin, byPattern["/dashboard"]).Verdict)
	assert.Equal(t, Redirect, Decide(visitor(), byPattern["/dashboard"]).Verdict)
	assert.Equal(t, Redirect, Decide(authed(session.RoleVisitor), byPattern["/dashboard"]).Verdict)

	// Listing creation is stand-only; even admin goes back to sign-in.
	assert.Equal(t, Render, Decide(stand, byPattern["/create-listing"]).Verdict)
	assert.Equal(t, Redirect, Decide(admin, byPattern["/create-listing"]).Verdict)

	// Editing admits both.
	assert.Equal(t, Render, Decide(stand, byPattern["/edit-listing/{id}"]).Verdict)
	assert.Equal(t, Render, Decide(admin, byPattern["/edit-listing/{id}"]).Verdict)

	// Back office is admin-only with its own sign-in page.
	d := Decide(stand, byPattern["/admin"])
	assert.Equal(t, Redirect, d.Verdict)
	assert.Equal(t, "/admin/login", d.Location)
	assert.Equal(t, Render, Decide(admin, byPattern["/admin"]).Verdict)

	// Client area admits any authenticated session.
	assert.Equal(t, Render, Decide(authed(session.RoleVisitor), byPattern["/client-area"]).Verdict)
	assert.Equal(t, Redirect, Decide(visitor(), byPattern["/client-area"]).Verdict)

	// The sign-in pages themselves stay public.
	assert.Equal(t, Render, Decide(visitor(), byPattern["/login"]).Verdict)
	assert.Equal(t, Render, Decide(visitor(), byPattern["/admin/login"]).Verdict)
}

type stubSource struct {
	sess  session.Session
	ready chan struct{}
}

func (s *stubSource) Current() session.Session { return s.sess }
func (s *stubSource) Ready() <-chan struct{}   { return s.ready }

func newReadySource(sess session.Session) *stubSource {
	ch := make(chan struct{})
	close(ch)
	return &stubSource{sess: sess, ready: ch}
}

func TestGate(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("grants matching role", func(t *testing.T) {
		source := newReadySource(authed(session.RoleStand))
		rec := httptest.NewRecorder()
		Gate(source, RequiresRole(session.RoleStand))(ok).
			ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("redirects visitor", func(t *testing.T) {
		source := newReadySource(visitor())
		rec := httptest.NewRecorder()
		Gate(source, RequiresRole(session.RoleStand))(ok).
			ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	})

	t.Run("redirects non-admin to admin login", func(t *testing.T) {
		source := newReadySource(authed(session.RoleStand))
		rec := httptest.NewRecorder()
		Gate(source, RequiresAdmin)(ok).
			ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/admin/login", rec.Header().Get("Location"))
	})
}

func TestLoadingGate(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("passes through once resolved", func(t *testing.T) {
		source := newReadySource(visitor())
		rec := httptest.NewRecorder()
		LoadingGate(source)(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("503 while resolution pending", func(t *testing.T) {
		source := &stubSource{sess: visitor(), ready: make(chan struct{})}
		rec := httptest.NewRecorder()
		LoadingGate(source)(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	})
}
