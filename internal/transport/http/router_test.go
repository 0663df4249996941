package httptransport

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"motorlane/internal/blog"
)

func newBlogHandler(t *testing.T) *BlogHandler {
	t.Helper()
	store := blog.NewMemoryStore()
	require.NoError(t, store.Create(context.Background(), &blog.Post{
		ID: "post-1", Title: "Primeiro artigo", Author: "Equipa", Date: time.Now(),
	}))
	return NewBlogHandler(blog.New(store), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRouterHoldsContentUntilSessionSettles(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	source := &stubSource{ready: make(chan struct{})}
	router := NewRouter(source, logger, newBlogHandler(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blog", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	close(source.ready)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blog", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterHealthAndMetricsBypassTheGate(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	source := &stubSource{ready: make(chan struct{})}
	router := NewRouter(source, logger, newBlogHandler(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterEchoesRequestID(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := NewRouter(newStubSource(), logger, newBlogHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/blog", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
}

func TestRouterGeneratesRequestID(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := NewRouter(newStubSource(), logger, newBlogHandler(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blog", nil))

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
