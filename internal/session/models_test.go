package session

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"motorlane/pkg/platform/sentinel"
)

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleStand, ParseRole("stand"))
	assert.Equal(t, RoleAdmin, ParseRole("admin"))
	assert.Equal(t, RoleVisitor, ParseRole("visitor"))
	assert.Equal(t, RoleVisitor, ParseRole(""))
	assert.Equal(t, RoleVisitor, ParseRole("superuser"))
}

func TestAnonymous(t *testing.T) {
	s := Anonymous()
	assert.False(t, s.IsAuthenticated)
	assert.Equal(t, RoleVisitor, s.Role)
	assert.Equal(t, SourceNone, s.Source)
	assert.Empty(t, s.Email)
}

func TestFallbackMarkerJSONShape(t *testing.T) {
	m := FallbackMarker{Email: "admin@facilitadorcar.pt", Role: RoleAdmin, Timestamp: 1700000000000}
	raw, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"admin@facilitadorcar.pt","role":"admin","timestamp":1700000000000}`, string(raw))
}

func TestMemoryMarkerStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryMarkerStore()

	_, err := store.Get(ctx)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	marker := FallbackMarker{Email: "admin@facilitadorcar.pt", Role: RoleAdmin, Timestamp: 42}
	require.NoError(t, store.Set(ctx, marker))

	got, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, marker, got)

	require.NoError(t, store.Remove(ctx))
	_, err = store.Get(ctx)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	// Removing twice is fine.
	require.NoError(t, store.Remove(ctx))
}

func TestMemoryMarkerStore_Malformed(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryMarkerStore()
	store.SetRaw([]byte(`{"email": 17`))

	_, err := store.Get(ctx)
	assert.ErrorIs(t, err, ErrMalformedMarker)
}
