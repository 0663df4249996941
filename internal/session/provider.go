package session

import (
	"context"
	"errors"
)

// ErrInvalidCredentials reports a remote sign-in rejection. Distinct from
// sentinel.ErrUnavailable so the resolver can classify login failures.
var ErrInvalidCredentials = errors.New("invalid credentials")

// RemoteSession is the provider's view of an authenticated user.
type RemoteSession struct {
	UserID string
	Email  string
	// Metadata carries the free-form user metadata recorded at sign-up
	// (role, full_name, stand_name). Values are untrusted.
	Metadata map[string]string
}

// ChangeEvent is delivered by the provider subscription. A nil Session means
// the provider reports no active session (signed out or expired).
type ChangeEvent struct {
	Session *RemoteSession
}

// Registration is the sign-up payload. Role selection and the optional
// display/stand names are recorded as user metadata with the provider.
type Registration struct {
	Email     string
	Password  string
	Role      Role
	FullName  string
	StandName string
}

// Provider is the hosted auth service contract (§external collaborators).
// GetSession returns sentinel.ErrNoSession when no session is active and may
// return sentinel.ErrUnavailable-wrapped errors on network failure. SignOut
// is best-effort; callers ignore its error.
type Provider interface {
	GetSession(ctx context.Context) (*RemoteSession, error)
	SignInWithPassword(ctx context.Context, email, password string) (*RemoteSession, error)
	SignUp(ctx context.Context, reg Registration) (*RemoteSession, error)
	SignOut(ctx context.Context) error
	// Subscribe delivers remote session changes until ctx is cancelled.
	Subscribe(ctx context.Context, fn func(ChangeEvent))
}
