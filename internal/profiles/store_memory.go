package profiles

import (
	"context"
	"sort"
	"strings"
	"sync"

	"motorlane/internal/session"
	"motorlane/pkg/platform/sentinel"
)

type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[string]*Profile)}
}

func (s *MemoryStore) List(_ context.Context) ([]*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(*Profile) bool { return true }), nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (s *MemoryStore) FindByEmail(_ context.Context, email string) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.profiles {
		if strings.EqualFold(p.Email, email) {
			copied := *p
			return &copied, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *MemoryStore) Search(_ context.Context, query string) ([]*Profile, error) {
	q := strings.ToLower(query)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(p *Profile) bool {
		return strings.Contains(strings.ToLower(p.FullName), q) ||
			strings.Contains(strings.ToLower(p.Email), q)
	}), nil
}

func (s *MemoryStore) Stands(_ context.Context) ([]*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(p *Profile) bool {
		return p.Role == session.RoleStand && p.Status == StatusApproved
	}), nil
}

func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles), nil
}

func (s *MemoryStore) Create(_ context.Context, p *Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.profiles[p.ID]; exists {
		return sentinel.ErrConflict
	}
	for _, existing := range s.profiles {
		if strings.EqualFold(existing.Email, p.Email) {
			return sentinel.ErrConflict
		}
	}
	copied := *p
	s.profiles[p.ID] = &copied
	return nil
}

func (s *MemoryStore) UpdateDetails(_ context.Context, id, fullName, standName, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	p.FullName = fullName
	p.StandName = standName
	p.Phone = phone
	return nil
}

func (s *MemoryStore) UpdateStatus(_ context.Context, id string, status Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	p.Status = status
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.profiles, id)
	return nil
}

func (s *MemoryStore) collect(match func(*Profile) bool) []*Profile {
	var out []*Profile
	for _, p := range s.profiles {
		if match(p) {
			copied := *p
			out = append(out, &copied)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
