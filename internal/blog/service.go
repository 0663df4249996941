package blog

import (
	"context"
	"errors"

	dErrors "motorlane/pkg/domain-errors"
	"motorlane/pkg/platform/sentinel"
)

// Service serves articles from the working set. Creation and deletion are
// privileged writes and go through the moderation layer.
type Service struct {
	local Store
}

func New(local Store) *Service {
	return &Service{local: local}
}

func (s *Service) List(ctx context.Context) ([]*Post, error) {
	out, err := s.local.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list posts")
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Post, error) {
	p, err := s.local.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "post not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to get post")
	}
	return p, nil
}

func (s *Service) Search(ctx context.Context, query string) ([]*Post, error) {
	if query == "" {
		return s.List(ctx)
	}
	out, err := s.local.Search(ctx, query)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to search posts")
	}
	return out, nil
}
