// Package authz decides whether the current session may reach a route.
// Decisions are pure functions of (session, requirement) so they can be
// tested exhaustively and reused by both the HTTP middleware and handlers.
package authz

import (
	"motorlane/internal/session"
)

// Requirement describes what a route demands of the session.
type Requirement struct {
	// Authenticated requires any signed-in session, regardless of role.
	Authenticated bool
	// Roles, when non-empty, lists the roles admitted. A role requirement
	// implies an authentication requirement.
	Roles []session.Role
	// AdminArea routes redirect to the dedicated admin login on denial.
	AdminArea bool
}

// Public admits everyone.
var Public = Requirement{}

// RequiresAuth admits any authenticated session.
var RequiresAuth = Requirement{Authenticated: true}

// RequiresRole admits only sessions holding one of the given roles.
func RequiresRole(roles ...session.Role) Requirement {
	return Requirement{Authenticated: true, Roles: roles}
}

// Verdict is the outcome of a route decision.
type Verdict int

const (
	// Render grants access to the route's content.
	Render Verdict = iota
	// Redirect denies access and names the sign-in location.
	Redirect
)

// Decision pairs a verdict with its redirect target when denied.
type Decision struct {
	Verdict  Verdict
	Location string
}

const (
	loginPath      = "/login"
	adminLoginPath = "/admin/login"
)

// Decide evaluates a requirement against a session. Denials never
// distinguish "not signed in" from "wrong role": both produce the same
// redirect, so the response does not leak whether an account exists.
func Decide(s session.Session, req Requirement) Decision {
	target := loginPath
	if req.AdminArea {
		target = adminLoginPath
	}

	if !req.Authenticated && len(req.Roles) == 0 {
		return Decision{Verdict: Render}
	}
	if !s.IsAuthenticated {
		return Decision{Verdict: Redirect, Location: target}
	}
	if len(req.Roles) == 0 {
		return Decision{Verdict: Render}
	}
	for _, role := range req.Roles {
		if s.Role == role {
			return Decision{Verdict: Render}
		}
	}
	return Decision{Verdict: Redirect, Location: target}
}
