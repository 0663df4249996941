package blog

import (
	"context"
)

// Store persists articles, newest first on list.
type Store interface {
	List(ctx context.Context) ([]*Post, error)
	Get(ctx context.Context, id string) (*Post, error)
	Search(ctx context.Context, query string) ([]*Post, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, post *Post) error
	Delete(ctx context.Context, id string) error
}
