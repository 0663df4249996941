package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"motorlane/internal/platform/metrics"
	dErrors "motorlane/pkg/domain-errors"
	"motorlane/pkg/platform/audit"
	"motorlane/pkg/platform/sentinel"
)

// ProfileRecorder receives successful registrations so a public profile row
// can be written alongside the provider account. Failures are tolerated: the
// provider metadata remains the fallback source of the role.
type ProfileRecorder interface {
	RecordRegistration(ctx context.Context, remote RemoteSession, reg Registration) error
}

// Resolver owns the process-wide Session. It reconciles the persisted
// fallback marker with the remote provider, serializes every mutation behind
// one mutex, and notifies subscribers on each change so route decisions are
// always made against current state.
type Resolver struct {
	provider Provider
	markers  MarkerStore
	profiles ProfileRecorder
	logger   *slog.Logger
	metrics  *metrics.Metrics
	auditor  audit.Publisher

	adminEmail string
	bypassHash string

	mu        sync.Mutex
	session   Session
	listeners []func(Session)

	readyOnce sync.Once
	ready     chan struct{}
}

type Option func(*Resolver)

func WithProfileRecorder(pr ProfileRecorder) Option {
	return func(r *Resolver) { r.profiles = pr }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Resolver) { r.metrics = m }
}

func WithAuditPublisher(p audit.Publisher) Option {
	return func(r *Resolver) { r.auditor = p }
}

func NewResolver(provider Provider, markers MarkerStore, adminEmail, bypassHash string, logger *slog.Logger, opts ...Option) *Resolver {
	r := &Resolver{
		provider:   provider,
		markers:    markers,
		logger:     logger,
		auditor:    audit.NopPublisher{},
		adminEmail: strings.ToLower(adminEmail),
		bypassHash: bypassHash,
		session:    Anonymous(),
		ready:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Current returns the session as of the last completed mutation.
func (r *Resolver) Current() Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session
}

// Subscribe registers fn to run after every session change. Registration is
// expected during wiring, before concurrent use.
func (r *Resolver) Subscribe(fn func(Session)) {
	r.listeners = append(r.listeners, fn)
}

// Ready is closed once the initial resolution has settled. The transport
// layer withholds routed content until then.
func (r *Resolver) Ready() <-chan struct{} {
	return r.ready
}

// ResolveInitial determines the starting session. It always terminates with
// a defined Session and never returns an error: an unreachable auth backend
// must not crash startup.
func (r *Resolver) ResolveInitial(ctx context.Context) Session {
	defer r.readyOnce.Do(func() { close(r.ready) })

	marker, err := r.markers.Get(ctx)
	switch {
	case err == nil:
		// Local fallback wins outright; the remote provider is not consulted.
		s := Session{
			IsAuthenticated: true,
			Role:            marker.Role,
			Source:          SourceLocalFallback,
			Email:           marker.Email,
		}
		r.setSession(s)
		r.metrics.IncSessionResolution(string(SourceLocalFallback))
		return s
	case errors.Is(err, ErrMalformedMarker):
		r.logger.WarnContext(ctx, "discarding malformed fallback marker")
		if rmErr := r.markers.Remove(ctx); rmErr != nil {
			r.logger.WarnContext(ctx, "failed to remove malformed fallback marker", "error", rmErr)
		}
	case !errors.Is(err, sentinel.ErrNotFound):
		r.logger.WarnContext(ctx, "fallback marker lookup failed", "error", err)
	}

	remote, err := r.provider.GetSession(ctx)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNoSession) {
			r.logger.WarnContext(ctx, "remote session check failed", "error", err)
		}
		s := Anonymous()
		r.setSession(s)
		r.metrics.IncSessionResolution(string(SourceNone))
		return s
	}

	s := r.remoteSession(remote)
	r.setSession(s)
	r.metrics.IncSessionResolution(string(SourceRemoteProvider))
	return s
}

// Run registers the remote change subscription for the process lifetime.
func (r *Resolver) Run(ctx context.Context) {
	r.provider.Subscribe(ctx, func(ev ChangeEvent) {
		r.HandleRemoteChange(ctx, ev)
	})
}

// HandleRemoteChange applies an asynchronous provider notification. It is
// idempotent and updates all session fields together; the last write wins.
func (r *Resolver) HandleRemoteChange(ctx context.Context, ev ChangeEvent) {
	if ev.Session != nil {
		r.setSession(r.remoteSession(ev.Session))
		return
	}

	// A remote sign-out does not override a live local fallback: the admin
	// bypass must survive spurious provider events.
	_, err := r.markers.Get(ctx)
	switch {
	case err == nil:
		return
	case errors.Is(err, sentinel.ErrNotFound), errors.Is(err, ErrMalformedMarker):
		r.setSession(Anonymous())
	default:
		// Marker state unknown; keep the session rather than revoke on a
		// backend hiccup.
		r.logger.WarnContext(ctx, "fallback marker check failed during remote sign-out", "error", err)
	}
}

// LoginRequest carries the credentials supplied at the login form.
type LoginRequest struct {
	Email    string
	Password string
}

// Login authenticates against the remote provider, with one designated
// bypass: the reserved admin pair falls back to a local-only Admin session
// when the remote sign-in fails. The session is updated before Login returns
// so an immediately following route decision sees the new role.
func (r *Resolver) Login(ctx context.Context, req LoginRequest) (Role, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if r.isBypassPair(email, req.Password) {
		remote, err := r.provider.SignInWithPassword(ctx, email, req.Password)
		if err == nil {
			s := r.remoteSession(remote)
			r.setSession(s)
			r.metrics.IncLogin("ok")
			r.audit(ctx, audit.ActionLogin, email, "")
			return s.Role, nil
		}

		r.logger.WarnContext(ctx, "remote auth failed for reserved admin, using local fallback", "error", err)
		marker := FallbackMarker{Email: email, Role: RoleAdmin, Timestamp: time.Now().UnixMilli()}
		if setErr := r.markers.Set(ctx, marker); setErr != nil {
			r.logger.ErrorContext(ctx, "failed to persist fallback marker", "error", setErr)
		}
		r.setSession(Session{
			IsAuthenticated: true,
			Role:            RoleAdmin,
			Source:          SourceLocalFallback,
			Email:           email,
		})
		r.metrics.IncLogin("fallback")
		r.audit(ctx, audit.ActionLoginFallback, email, "")
		return RoleAdmin, nil
	}

	remote, err := r.provider.SignInWithPassword(ctx, email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			r.metrics.IncLogin("invalid")
			return RoleVisitor, dErrors.New(dErrors.CodeInvalidCredentials, "invalid email or password")
		}
		r.metrics.IncLogin("unavailable")
		return RoleVisitor, dErrors.Wrap(err, dErrors.CodeUnavailable, "authentication service unavailable")
	}

	s := r.remoteSession(remote)
	r.setSession(s)
	r.metrics.IncLogin("ok")
	r.audit(ctx, audit.ActionLogin, email, "")
	return s.Role, nil
}

// Register creates an account with the remote provider. The reserved admin
// address is rejected before any remote call.
func (r *Resolver) Register(ctx context.Context, reg Registration) (Role, error) {
	email := strings.ToLower(strings.TrimSpace(reg.Email))
	if email == r.adminEmail {
		return RoleVisitor, dErrors.New(dErrors.CodeConflict, "accounts cannot be created with this email")
	}
	reg.Email = email
	reg.Role = ParseRole(string(reg.Role))

	remote, err := r.provider.SignUp(ctx, reg)
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrConflict):
			return RoleVisitor, dErrors.New(dErrors.CodeConflict, "an account with this email already exists")
		case errors.Is(err, ErrInvalidCredentials):
			return RoleVisitor, dErrors.New(dErrors.CodeBadRequest, "invalid registration details")
		default:
			return RoleVisitor, dErrors.Wrap(err, dErrors.CodeUnavailable, "authentication service unavailable")
		}
	}

	if r.profiles != nil {
		if recErr := r.profiles.RecordRegistration(ctx, *remote, reg); recErr != nil {
			// Metadata held by the provider remains the role fallback.
			r.logger.WarnContext(ctx, "profile record insert failed", "error", recErr)
		}
	}

	s := r.remoteSession(remote)
	r.setSession(s)
	r.audit(ctx, audit.ActionRegister, email, "")
	return s.Role, nil
}

// Logout clears the fallback marker, best-effort signs out remotely, and
// resets to Visitor. It never fails from the caller's perspective and is safe
// to call repeatedly.
func (r *Resolver) Logout(ctx context.Context) {
	email := r.Current().Email

	if err := r.markers.Remove(ctx); err != nil {
		r.logger.WarnContext(ctx, "failed to remove fallback marker on logout", "error", err)
	}
	if err := r.provider.SignOut(ctx); err != nil {
		r.logger.WarnContext(ctx, "remote sign-out failed", "error", err)
	}
	r.setSession(Anonymous())
	if email != "" {
		r.audit(ctx, audit.ActionLogout, email, "")
	}
}

func (r *Resolver) isBypassPair(email, password string) bool {
	if email != r.adminEmail || r.bypassHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(r.bypassHash), []byte(password)) == nil
}

// remoteSession derives the authoritative role for a remote identity:
// reserved admin email first, then the role metadata, then Visitor.
func (r *Resolver) remoteSession(remote *RemoteSession) Session {
	role := RoleVisitor
	if strings.EqualFold(remote.Email, r.adminEmail) {
		role = RoleAdmin
	} else if remote.Metadata != nil {
		role = ParseRole(remote.Metadata["role"])
	}
	return Session{
		IsAuthenticated: true,
		Role:            role,
		Source:          SourceRemoteProvider,
		Email:           strings.ToLower(remote.Email),
	}
}

func (r *Resolver) setSession(s Session) {
	r.mu.Lock()
	r.session = s
	listeners := r.listeners
	r.mu.Unlock()
	for _, fn := range listeners {
		fn(s)
	}
}

func (r *Resolver) audit(ctx context.Context, action audit.Action, actor, subject string) {
	r.auditor.Emit(ctx, audit.Event{Action: action, Actor: actor, Subject: subject})
}
