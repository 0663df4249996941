package leads

import (
	"context"
	"sort"
	"sync"

	"motorlane/pkg/platform/sentinel"
)

type MemoryStore struct {
	mu    sync.RWMutex
	leads map[string]*Lead
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{leads: make(map[string]*Lead)}
}

func (s *MemoryStore) List(_ context.Context) ([]*Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Lead, 0, len(s.leads))
	for _, l := range s.leads {
		copied := *l
		out = append(out, &copied)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.leads[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *l
	return &copied, nil
}

func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.leads), nil
}

func (s *MemoryStore) Create(_ context.Context, lead *Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.leads[lead.ID]; exists {
		return sentinel.ErrConflict
	}
	copied := *lead
	s.leads[lead.ID] = &copied
	return nil
}

func (s *MemoryStore) UpdateStatus(_ context.Context, id string, status Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.leads[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	l.Status = status
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.leads[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.leads, id)
	return nil
}
