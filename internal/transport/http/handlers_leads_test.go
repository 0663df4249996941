package httptransport

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"motorlane/internal/leads"
	"motorlane/pkg/testutil"
)

func newLeadsRouter(t *testing.T) (chi.Router, *leads.MemoryStore) {
	t.Helper()
	store := leads.NewMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewLeadsHandler(leads.New(store, leads.WithLogger(logger)), logger)
	r := chi.NewRouter()
	h.Register(r)
	return r, store
}

func TestLeadCaptureIsPublic(t *testing.T) {
	router, store := newLeadsRouter(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/leads", map[string]string{
		"car_id":         "car-1",
		"customer_name":  "Rui Santos",
		"customer_email": "rui@example.pt",
		"message":        "Ainda disponível?",
		"status":         "sold",
	})
	rr := testutil.DoRequest(router, req)
	testutil.AssertStatus(t, rr, http.StatusCreated)

	captured := testutil.UnmarshalResponse[leads.Lead](t, rr)
	assert.NotEmpty(t, captured.ID)
	// Submitted status is ignored; every new lead starts pending.
	assert.Equal(t, leads.StatusPending, captured.Status)

	stored, err := store.Get(context.Background(), captured.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rui Santos", stored.CustomerName)
}

func TestLeadCaptureRejectsMissingContact(t *testing.T) {
	router, _ := newLeadsRouter(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/leads", map[string]string{
		"car_id":  "car-1",
		"message": "olá",
	})
	rr := testutil.DoRequest(router, req)
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
	testutil.AssertErrorCode(t, rr, "bad_request")
}
