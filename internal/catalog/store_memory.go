package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"

	"motorlane/pkg/platform/sentinel"
)

// MemoryStore keeps listings in memory. It is the serving working set;
// durable persistence, when configured, lives in PostgresStore.
type MemoryStore struct {
	mu   sync.RWMutex
	cars map[string]*Car
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cars: make(map[string]*Car)}
}

func (s *MemoryStore) List(_ context.Context, filter Filter) ([]*Car, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Car, 0, len(s.cars))
	for _, c := range s.cars {
		if filter.Matches(c) {
			copied := *c
			out = append(out, &copied)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Car, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.cars[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (s *MemoryStore) ListByUser(_ context.Context, userID string) ([]*Car, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Car
	for _, c := range s.cars {
		if c.UserID == userID {
			copied := *c
			out = append(out, &copied)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *MemoryStore) Brands(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return distinct(s.cars, func(c *Car) string { return c.Brand }), nil
}

func (s *MemoryStore) Categories(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return distinct(s.cars, func(c *Car) string { return c.Category }), nil
}

func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cars), nil
}

func (s *MemoryStore) Create(_ context.Context, car *Car) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.cars[car.ID]; exists {
		return sentinel.ErrConflict
	}
	copied := *car
	s.cars[car.ID] = &copied
	return nil
}

func (s *MemoryStore) Update(_ context.Context, car *Car) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cars[car.ID]; !ok {
		return sentinel.ErrNotFound
	}
	copied := *car
	s.cars[car.ID] = &copied
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cars[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.cars, id)
	return nil
}

func sortNewestFirst(cars []*Car) {
	sort.SliceStable(cars, func(i, j int) bool {
		return cars[i].CreatedAt.After(cars[j].CreatedAt)
	})
}

func distinct(cars map[string]*Car, key func(*Car) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, c := range cars {
		k := key(c)
		if k == "" {
			continue
		}
		lower := strings.ToLower(k)
		if _, dup := seen[lower]; dup {
			continue
		}
		seen[lower] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
