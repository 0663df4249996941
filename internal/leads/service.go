package leads

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"motorlane/internal/platform/metrics"
	dErrors "motorlane/pkg/domain-errors"
	"motorlane/pkg/platform/sentinel"
	"motorlane/pkg/requestcontext"
)

// Service captures and serves customer enquiries. Capture is a public
// operation reachable without a session.
type Service struct {
	local   Store
	remote  Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithRemote(remote Store) Option {
	return func(s *Service) { s.remote = remote }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(local Store, opts ...Option) *Service {
	s := &Service{local: local, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Capture records a new enquiry. New leads always start pending regardless
// of what the form submits.
func (s *Service) Capture(ctx context.Context, lead *Lead) (*Lead, error) {
	if lead == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "lead is required")
	}
	if strings.TrimSpace(lead.CustomerName) == "" || strings.TrimSpace(lead.CustomerEmail) == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "name and email are required")
	}
	if !strings.Contains(lead.CustomerEmail, "@") {
		return nil, dErrors.New(dErrors.CodeBadRequest, "email is not valid")
	}
	lead.ID = uuid.NewString()
	lead.Status = StatusPending
	lead.CreatedAt = requestcontext.Now(ctx)

	if s.remote != nil {
		if err := s.remote.Create(ctx, lead); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to save lead")
		}
	}
	if err := s.local.Create(ctx, lead); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save lead")
	}
	s.metrics.IncLeadsCaptured()
	s.logger.InfoContext(ctx, "lead captured", "lead_id", lead.ID, "car_id", lead.CarID)
	return lead, nil
}

func (s *Service) List(ctx context.Context) ([]*Lead, error) {
	out, err := s.local.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list leads")
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Lead, error) {
	l, err := s.local.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "lead not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to get lead")
	}
	return l, nil
}
