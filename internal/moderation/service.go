// Package moderation executes privileged administrative writes with a
// tagged outcome. Every write targets the durable backend first; when that
// write fails and the acting session rests on the local fallback marker, the
// change is applied to the working set only and the caller is told so.
package moderation

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"motorlane/internal/blog"
	"motorlane/internal/catalog"
	"motorlane/internal/leads"
	"motorlane/internal/platform/metrics"
	"motorlane/internal/profiles"
	"motorlane/internal/session"
	dErrors "motorlane/pkg/domain-errors"
	"motorlane/pkg/platform/audit"
	"motorlane/pkg/platform/sentinel"
	"motorlane/pkg/requestcontext"
)

// Outcome reports where a privileged write landed.
type Outcome string

const (
	// AppliedRemotely: the durable backend accepted the write.
	AppliedRemotely Outcome = "applied_remotely"
	// AppliedLocallyOnly: the backend write failed but the fallback marker
	// authorized a working-set-only change. It will not survive a restart.
	AppliedLocallyOnly Outcome = "applied_locally_only"
	// Rejected: the backend write failed and no fallback marker exists.
	// Nothing changed.
	Rejected Outcome = "rejected"
)

// Backends groups one store per moderated collection.
type Backends struct {
	Profiles profiles.Store
	Listings catalog.Store
	Articles blog.Store
	Leads    leads.Store
}

// MarkerChecker reports whether the local fallback marker is present.
type MarkerChecker interface {
	Get(ctx context.Context) (session.FallbackMarker, error)
}

// Service applies moderation writes. The local backends are required; the
// remote set may hold nils when no durable backend is configured, in which
// case writes apply to the working set directly and count as remote.
type Service struct {
	remote  Backends
	local   Backends
	markers MarkerChecker
	actor   func() string
	logger  *slog.Logger
	metrics *metrics.Metrics
	auditor audit.Publisher
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAuditPublisher(p audit.Publisher) Option {
	return func(s *Service) { s.auditor = p }
}

// WithActor supplies the acting identity recorded on audit events, normally
// the resolver's current session email.
func WithActor(actor func() string) Option {
	return func(s *Service) { s.actor = actor }
}

func New(remote, local Backends, markers MarkerChecker, opts ...Option) *Service {
	s := &Service{
		remote:  remote,
		local:   local,
		markers: markers,
		logger:  slog.Default(),
		auditor: audit.NopPublisher{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) ApproveProfile(ctx context.Context, id string) (Outcome, error) {
	return s.profileStatus(ctx, audit.ActionProfileApprove, id, profiles.StatusApproved)
}

func (s *Service) RejectProfile(ctx context.Context, id string) (Outcome, error) {
	return s.profileStatus(ctx, audit.ActionProfileReject, id, profiles.StatusRejected)
}

func (s *Service) profileStatus(ctx context.Context, action audit.Action, id string, status profiles.Status) (Outcome, error) {
	var remote func(context.Context) error
	if s.remote.Profiles != nil {
		remote = func(ctx context.Context) error { return s.remote.Profiles.UpdateStatus(ctx, id, status) }
	}
	return s.apply(ctx, action, id, remote, func(ctx context.Context) error {
		return s.local.Profiles.UpdateStatus(ctx, id, status)
	})
}

func (s *Service) DeleteProfile(ctx context.Context, id string) (Outcome, error) {
	var remote func(context.Context) error
	if s.remote.Profiles != nil {
		remote = func(ctx context.Context) error { return s.remote.Profiles.Delete(ctx, id) }
	}
	return s.apply(ctx, audit.ActionProfileDelete, id, remote, func(ctx context.Context) error {
		return s.local.Profiles.Delete(ctx, id)
	})
}

func (s *Service) DeleteListing(ctx context.Context, id string) (Outcome, error) {
	var remote func(context.Context) error
	if s.remote.Listings != nil {
		remote = func(ctx context.Context) error { return s.remote.Listings.Delete(ctx, id) }
	}
	return s.apply(ctx, audit.ActionListingDelete, id, remote, func(ctx context.Context) error {
		return s.local.Listings.Delete(ctx, id)
	})
}

func (s *Service) CreateArticle(ctx context.Context, post *blog.Post) (Outcome, error) {
	if post == nil || post.Title == "" {
		return Rejected, dErrors.New(dErrors.CodeBadRequest, "article title is required")
	}
	post.ID = uuid.NewString()
	if post.Date.IsZero() {
		post.Date = requestcontext.Now(ctx)
	}
	var remote func(context.Context) error
	if s.remote.Articles != nil {
		remote = func(ctx context.Context) error { return s.remote.Articles.Create(ctx, post) }
	}
	return s.apply(ctx, audit.ActionArticleCreate, post.ID, remote, func(ctx context.Context) error {
		return s.local.Articles.Create(ctx, post)
	})
}

func (s *Service) DeleteArticle(ctx context.Context, id string) (Outcome, error) {
	var remote func(context.Context) error
	if s.remote.Articles != nil {
		remote = func(ctx context.Context) error { return s.remote.Articles.Delete(ctx, id) }
	}
	return s.apply(ctx, audit.ActionArticleDelete, id, remote, func(ctx context.Context) error {
		return s.local.Articles.Delete(ctx, id)
	})
}

func (s *Service) DeleteLead(ctx context.Context, id string) (Outcome, error) {
	var remote func(context.Context) error
	if s.remote.Leads != nil {
		remote = func(ctx context.Context) error { return s.remote.Leads.Delete(ctx, id) }
	}
	return s.apply(ctx, audit.ActionLeadDelete, id, remote, func(ctx context.Context) error {
		return s.local.Leads.Delete(ctx, id)
	})
}

func (s *Service) UpdateLeadStatus(ctx context.Context, id string, status leads.Status) (Outcome, error) {
	var remote func(context.Context) error
	if s.remote.Leads != nil {
		remote = func(ctx context.Context) error { return s.remote.Leads.UpdateStatus(ctx, id, status) }
	}
	return s.apply(ctx, audit.ActionLeadStatus, id, remote, func(ctx context.Context) error {
		return s.local.Leads.UpdateStatus(ctx, id, status)
	})
}

// apply runs the remote write then mirrors the change into the working set.
// A nil remote means no durable backend is configured; the local write alone
// then carries the operation.
func (s *Service) apply(ctx context.Context, action audit.Action, subject string, remote, local func(context.Context) error) (Outcome, error) {
	outcome := AppliedRemotely
	if remote != nil {
		if err := remote(ctx); err != nil {
			// A definitive "no such record" is not a backend failure and
			// never falls back to a local-only write.
			if errors.Is(err, sentinel.ErrNotFound) {
				s.metrics.IncModerationWrite(string(Rejected))
				s.emit(ctx, action, subject, Rejected, err.Error())
				return Rejected, dErrors.New(dErrors.CodeNotFound, "record not found")
			}
			if !s.markerPresent(ctx) {
				s.metrics.IncModerationWrite(string(Rejected))
				s.emit(ctx, action, subject, Rejected, err.Error())
				s.logger.WarnContext(ctx, "moderation write rejected",
					"action", string(action), "subject", subject, "error", err)
				return Rejected, dErrors.Wrap(err, dErrors.CodeUnavailable, "backend rejected the change")
			}
			outcome = AppliedLocallyOnly
			s.logger.WarnContext(ctx, "moderation write applied locally only",
				"action", string(action), "subject", subject, "error", err)
		}
	}

	if err := local(ctx); err != nil {
		s.metrics.IncModerationWrite(string(Rejected))
		s.emit(ctx, action, subject, Rejected, err.Error())
		return Rejected, translateLocal(err)
	}

	s.metrics.IncModerationWrite(string(outcome))
	s.emit(ctx, action, subject, outcome, "")
	return outcome, nil
}

func (s *Service) markerPresent(ctx context.Context) bool {
	_, err := s.markers.Get(ctx)
	return err == nil
}

func (s *Service) emit(ctx context.Context, action audit.Action, subject string, outcome Outcome, reason string) {
	var actor string
	if s.actor != nil {
		actor = s.actor()
	}
	s.auditor.Emit(ctx, audit.Event{
		Timestamp: time.Now().UTC(),
		Action:    action,
		Actor:     actor,
		Subject:   subject,
		Outcome:   string(outcome),
		Reason:    reason,
		RequestID: requestcontext.RequestID(ctx),
		ClientIP:  requestcontext.ClientIP(ctx),
		Device:    requestcontext.Device(ctx),
	})
}

func translateLocal(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "record not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to apply change")
}
