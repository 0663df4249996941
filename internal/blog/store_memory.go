package blog

import (
	"context"
	"sort"
	"strings"
	"sync"

	"motorlane/pkg/platform/sentinel"
)

type MemoryStore struct {
	mu    sync.RWMutex
	posts map[string]*Post
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{posts: make(map[string]*Post)}
}

func (s *MemoryStore) List(_ context.Context) ([]*Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(*Post) bool { return true }), nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (s *MemoryStore) Search(_ context.Context, query string) ([]*Post, error) {
	q := strings.ToLower(query)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(p *Post) bool {
		return strings.Contains(strings.ToLower(p.Title), q) ||
			strings.Contains(strings.ToLower(p.Author), q)
	}), nil
}

func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.posts), nil
}

func (s *MemoryStore) Create(_ context.Context, post *Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.posts[post.ID]; exists {
		return sentinel.ErrConflict
	}
	copied := *post
	s.posts[post.ID] = &copied
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.posts, id)
	return nil
}

func (s *MemoryStore) collect(match func(*Post) bool) []*Post {
	var out []*Post
	for _, p := range s.posts {
		if match(p) {
			copied := *p
			out = append(out, &copied)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}
