package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"motorlane/pkg/platform/sentinel"
)

// ErrMalformedMarker reports a persisted marker that failed to parse. The
// resolver discards the record and continues via the remote path.
var ErrMalformedMarker = errors.New("malformed fallback marker")

// MarkerStore persists the FallbackMarker under a single key.
// Get returns sentinel.ErrNotFound when no marker exists and
// ErrMalformedMarker when the stored record does not parse.
type MarkerStore interface {
	Get(ctx context.Context) (FallbackMarker, error)
	Set(ctx context.Context, marker FallbackMarker) error
	Remove(ctx context.Context) error
}

// MemoryMarkerStore keeps the marker in memory. Development and tests only;
// the record does not survive a restart. Raw bytes are stored so tests can
// inject malformed payloads the same way a corrupted backend would.
type MemoryMarkerStore struct {
	mu  sync.RWMutex
	raw []byte
}

func NewMemoryMarkerStore() *MemoryMarkerStore {
	return &MemoryMarkerStore{}
}

func (s *MemoryMarkerStore) Get(_ context.Context) (FallbackMarker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.raw == nil {
		return FallbackMarker{}, sentinel.ErrNotFound
	}
	var marker FallbackMarker
	if err := json.Unmarshal(s.raw, &marker); err != nil {
		return FallbackMarker{}, ErrMalformedMarker
	}
	return marker, nil
}

func (s *MemoryMarkerStore) Set(_ context.Context, marker FallbackMarker) error {
	raw, err := json.Marshal(marker)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raw = raw
	return nil
}

func (s *MemoryMarkerStore) Remove(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raw = nil
	return nil
}

// SetRaw stores an arbitrary payload, bypassing marshalling. Test hook for
// the malformed-marker path.
func (s *MemoryMarkerStore) SetRaw(raw []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raw = raw
}
