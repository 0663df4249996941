package leads

import (
	"context"
)

// Store persists leads, newest first on list.
type Store interface {
	List(ctx context.Context) ([]*Lead, error)
	Get(ctx context.Context, id string) (*Lead, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, lead *Lead) error
	UpdateStatus(ctx context.Context, id string, status Status) error
	Delete(ctx context.Context, id string) error
}
