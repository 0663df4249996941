package catalog

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	dErrors "motorlane/pkg/domain-errors"
	"motorlane/pkg/platform/sentinel"
	"motorlane/pkg/requestcontext"
)

// Service orchestrates listing reads and stand-owned writes. Reads always
// come from the local working set; writes go to the durable backend first
// when one is configured, then to the working set.
type Service struct {
	local  Store
	remote Store
	logger *slog.Logger
}

type Option func(*Service)

func WithRemote(remote Store) Option {
	return func(s *Service) { s.remote = remote }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func New(local Store, opts ...Option) *Service {
	s := &Service{local: local, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) List(ctx context.Context, filter Filter) ([]*Car, error) {
	cars, err := s.local.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list cars")
	}
	return cars, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Car, error) {
	car, err := s.local.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "car not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to get car")
	}
	return car, nil
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]*Car, error) {
	cars, err := s.local.ListByUser(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list cars")
	}
	return cars, nil
}

// FilterOptions lists the distinct brands and categories present, for the
// search form.
func (s *Service) FilterOptions(ctx context.Context) (brands, categories []string, err error) {
	brands, err = s.local.Brands(ctx)
	if err != nil {
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list brands")
	}
	categories, err = s.local.Categories(ctx)
	if err != nil {
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list categories")
	}
	return brands, categories, nil
}

// Create publishes a new listing for the acting stand.
func (s *Service) Create(ctx context.Context, car *Car) (*Car, error) {
	if err := validateCar(car); err != nil {
		return nil, err
	}
	car.ID = uuid.NewString()
	car.CreatedAt = requestcontext.Now(ctx)

	if s.remote != nil {
		if err := s.remote.Create(ctx, car); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to save car")
		}
	}
	if err := s.local.Create(ctx, car); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save car")
	}
	s.logger.InfoContext(ctx, "car listing created",
		"car_id", car.ID, "brand", car.Brand, "user_id", car.UserID)
	return car, nil
}

// Update replaces a listing. Only the owning stand or an administrator may
// update; the caller resolves that via OwnedBy before invoking.
func (s *Service) Update(ctx context.Context, car *Car) (*Car, error) {
	if err := validateCar(car); err != nil {
		return nil, err
	}
	existing, err := s.local.Get(ctx, car.ID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "car not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to get car")
	}
	car.UserID = existing.UserID
	car.CreatedAt = existing.CreatedAt

	if s.remote != nil {
		if err := s.remote.Update(ctx, car); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to save car")
		}
	}
	if err := s.local.Update(ctx, car); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save car")
	}
	return car, nil
}

// OwnedBy reports whether the listing belongs to userID.
func (s *Service) OwnedBy(ctx context.Context, carID, userID string) (bool, error) {
	car, err := s.Get(ctx, carID)
	if err != nil {
		return false, err
	}
	return car.UserID == userID, nil
}

func validateCar(car *Car) error {
	if car == nil {
		return dErrors.New(dErrors.CodeBadRequest, "car is required")
	}
	if strings.TrimSpace(car.Brand) == "" || strings.TrimSpace(car.Model) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "brand and model are required")
	}
	if car.Price < 0 {
		return dErrors.New(dErrors.CodeBadRequest, "price must not be negative")
	}
	return nil
}
