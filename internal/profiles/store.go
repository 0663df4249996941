package profiles

import (
	"context"
)

// Store persists profiles, newest first on list. Unknown ids yield
// sentinel.ErrNotFound; duplicate emails on create yield sentinel.ErrConflict.
type Store interface {
	List(ctx context.Context) ([]*Profile, error)
	Get(ctx context.Context, id string) (*Profile, error)
	FindByEmail(ctx context.Context, email string) (*Profile, error)
	Search(ctx context.Context, query string) ([]*Profile, error)
	Stands(ctx context.Context) ([]*Profile, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, p *Profile) error
	UpdateDetails(ctx context.Context, id, fullName, standName, phone string) error
	UpdateStatus(ctx context.Context, id string, status Status) error
	Delete(ctx context.Context, id string) error
}
