package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"motorlane/internal/platform/config"
	"motorlane/pkg/platform/sentinel"
)

func newTestProvider(baseURL string) *HTTPProvider {
	return NewHTTPProvider(config.AuthConfig{
		ProviderURL:    baseURL,
		PublishableKey: "pk-test",
		RequestTimeout: 2 * time.Second,
	})
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return token
}

func TestHTTPProvider_SignInWithPassword(t *testing.T) {
	accessToken := signedToken(t, jwt.MapClaims{
		"sub":           "u-1",
		"email":         "dealer@example.pt",
		"exp":           time.Now().Add(time.Hour).Unix(),
		"user_metadata": map[string]any{"role": "stand"},
	})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "pk-test", r.Header.Get("apikey"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "dealer@example.pt", body["email"])

		json.NewEncoder(w).Encode(map[string]any{
			"access_token": accessToken,
			"user": map[string]any{
				"id":            "u-1",
				"email":         "dealer@example.pt",
				"user_metadata": map[string]any{"role": "stand"},
			},
		})
	}))
	defer srv.Close()

	p := newTestProvider(srv.URL)
	remote, err := p.SignInWithPassword(context.Background(), "dealer@example.pt", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "u-1", remote.UserID)
	assert.Equal(t, "dealer@example.pt", remote.Email)
	assert.Equal(t, "stand", remote.Metadata["role"])

	// The stored token now backs GetSession.
	got, err := p.GetSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.UserID)
	assert.Equal(t, "dealer@example.pt", got.Email)
	assert.Equal(t, "stand", got.Metadata["role"])
}

func TestHTTPProvider_SignInRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	p := newTestProvider(srv.URL)
	_, err := p.SignInWithPassword(context.Background(), "dealer@example.pt", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestHTTPProvider_SignInServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := newTestProvider(srv.URL)
	_, err := p.SignInWithPassword(context.Background(), "dealer@example.pt", "s3cret")
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
}

func TestHTTPProvider_SignInNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	p := newTestProvider(srv.URL)
	_, err := p.SignInWithPassword(context.Background(), "dealer@example.pt", "s3cret")
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
}

func TestHTTPProvider_SignUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/signup", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		data, ok := body["data"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "stand", data["role"])
		assert.Equal(t, "AutoSilva", data["stand_name"])

		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "",
			"user": map[string]any{
				"id":            "u-9",
				"email":         "stand@example.pt",
				"user_metadata": map[string]any{"role": "stand"},
			},
		})
	}))
	defer srv.Close()

	p := newTestProvider(srv.URL)
	remote, err := p.SignUp(context.Background(), Registration{
		Email: "stand@example.pt", Password: "s3cret",
		Role: RoleStand, FullName: "Ana Silva", StandName: "AutoSilva",
	})
	require.NoError(t, err)
	assert.Equal(t, "u-9", remote.UserID)
}

func TestHTTPProvider_SignUpConflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	p := newTestProvider(srv.URL)
	_, err := p.SignUp(context.Background(), Registration{Email: "taken@example.pt", Password: "x", Role: RoleStand})
	assert.ErrorIs(t, err, sentinel.ErrConflict)
}

func TestHTTPProvider_GetSessionWithoutToken(t *testing.T) {
	p := newTestProvider("http://unused.invalid")
	_, err := p.GetSession(context.Background())
	assert.ErrorIs(t, err, sentinel.ErrNoSession)
}

func TestHTTPProvider_GetSessionExpiredToken(t *testing.T) {
	p := newTestProvider("http://unused.invalid")
	p.accessToken = signedToken(t, jwt.MapClaims{
		"sub":   "u-1",
		"email": "dealer@example.pt",
		"exp":   time.Now().Add(-time.Minute).Unix(),
	})

	_, err := p.GetSession(context.Background())
	assert.ErrorIs(t, err, sentinel.ErrNoSession)

	// Expiry clears the stored token for good.
	_, err = p.GetSession(context.Background())
	assert.ErrorIs(t, err, sentinel.ErrNoSession)
}

func TestHTTPProvider_SignOut(t *testing.T) {
	var sawLogout bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawLogout = true
		assert.Equal(t, "/auth/v1/logout", r.URL.Path)
		assert.Equal(t, "Bearer some-token", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	p := newTestProvider(srv.URL)
	p.accessToken = "some-token"

	require.NoError(t, p.SignOut(context.Background()))
	assert.True(t, sawLogout)

	// Nothing stored, nothing sent.
	sawLogout = false
	require.NoError(t, p.SignOut(context.Background()))
	assert.False(t, sawLogout)
}
