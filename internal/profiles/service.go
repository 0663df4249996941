package profiles

import (
	"context"
	"errors"
	"log/slog"

	"motorlane/internal/session"
	dErrors "motorlane/pkg/domain-errors"
	"motorlane/pkg/platform/sentinel"
	"motorlane/pkg/requestcontext"
)

// Service serves profile reads from the working set and records new
// registrations against both the working set and the durable backend.
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

// RecordRegistration mirrors a successful provider sign-up into the profile
// collection. New stand accounts start pending until an administrator
// approves them.
func (s *Service) RecordRegistration(ctx context.Context, remote session.RemoteSession, reg session.Registration) error {
	status := StatusApproved
	if reg.Role == session.RoleStand {
		status = StatusPending
	}
	p := &Profile{
		ID:        remote.UserID,
		FullName:  reg.FullName,
		Email:     reg.Email,
		Role:      reg.Role,
		StandName: reg.StandName,
		Status:    status,
		CreatedAt: requestcontext.Now(ctx),
	}
	if s.remote != nil {
		if err := s.remote.Create(ctx, p); err != nil && !errors.Is(err, sentinel.ErrConflict) {
			return err
		}
	}
	if err := s.local.Create(ctx, p); err != nil && !errors.Is(err, sentinel.ErrConflict) {
		return err
	}
	s.logger.InfoContext(ctx, "profile recorded", "profile_id", p.ID, "role", p.Role)
	return nil
}

func (s *Service) List(ctx context.Context) ([]*Profile, error) {
	out, err := s.local.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list profiles")
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Profile, error) {
	p, err := s.local.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "profile not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to get profile")
	}
	return p, nil
}

func (s *Service) FindByEmail(ctx context.Context, email string) (*Profile, error) {
	p, err := s.local.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "profile not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to get profile")
	}
	return p, nil
}

func (s *Service) Search(ctx context.Context, query string) ([]*Profile, error) {
	if query == "" {
		return s.List(ctx)
	}
	out, err := s.local.Search(ctx, query)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to search profiles")
	}
	return out, nil
}

// DetailsUpdate carries the fields an account may change about itself.
// Role and status stay moderation-controlled.
type DetailsUpdate struct {
	FullName  string `json:"full_name"`
	StandName string `json:"stand_name"`
	Phone     string `json:"phone"`
}

// UpdateOwn applies a self-service edit to the profile behind email.
func (s *Service) UpdateOwn(ctx context.Context, email string, upd DetailsUpdate) (*Profile, error) {
	if upd.FullName == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "full name is required")
	}
	p, err := s.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if s.remote != nil {
		if err := s.remote.UpdateDetails(ctx, p.ID, upd.FullName, upd.StandName, upd.Phone); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to save profile")
		}
	}
	if err := s.local.UpdateDetails(ctx, p.ID, upd.FullName, upd.StandName, upd.Phone); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save profile")
	}

	p.FullName = upd.FullName
	p.StandName = upd.StandName
	p.Phone = upd.Phone
	s.logger.InfoContext(ctx, "profile updated", "profile_id", p.ID)
	return p, nil
}

// Stands lists approved stand profiles for the public directory.
func (s *Service) Stands(ctx context.Context) ([]*Profile, error) {
	out, err := s.local.Stands(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list stands")
	}
	return out, nil
}
