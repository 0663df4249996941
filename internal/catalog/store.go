package catalog

import (
	"context"
)

// Store persists listings. List and ListByUser return newest first.
// Get, Update, and Delete return sentinel.ErrNotFound for unknown ids.
type Store interface {
	List(ctx context.Context, filter Filter) ([]*Car, error)
	Get(ctx context.Context, id string) (*Car, error)
	ListByUser(ctx context.Context, userID string) ([]*Car, error)
	Brands(ctx context.Context) ([]string, error)
	Categories(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, car *Car) error
	Update(ctx context.Context, car *Car) error
	Delete(ctx context.Context, id string) error
}
