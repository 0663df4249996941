package session

import "strings"

// Role is the closed set of roles a visitor can hold. Remote metadata is
// untrusted input: anything unrecognized parses to Visitor.
type Role string

const (
	RoleVisitor Role = "visitor"
	RoleStand   Role = "stand"
	RoleAdmin   Role = "admin"
)

// ParseRole maps a free-form role string onto the closed enum. Unrecognized
// or empty values become Visitor rather than propagating as-is.
func ParseRole(raw string) Role {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(RoleStand):
		return RoleStand
	case string(RoleAdmin):
		return RoleAdmin
	default:
		return RoleVisitor
	}
}

// Source records which authentication source produced the current Session.
type Source string

const (
	SourceNone           Source = "none"
	SourceLocalFallback  Source = "local_fallback"
	SourceRemoteProvider Source = "remote"
)

// Session is the resolved authentication/role state for the current visitor.
//
// Invariants:
//   - Role != Visitor implies IsAuthenticated
//   - Source == None implies Role == Visitor
//
// All three fields are always written together; the resolver never publishes
// a partially updated Session.
type Session struct {
	IsAuthenticated bool   `json:"is_authenticated"`
	Role            Role   `json:"role"`
	Source          Source `json:"source"`
	// Email is the authenticated identity when known. Empty for visitors.
	Email string `json:"email,omitempty"`
}

// Anonymous is the unauthenticated default every resolution falls back to.
func Anonymous() Session {
	return Session{IsAuthenticated: false, Role: RoleVisitor, Source: SourceNone}
}

// FallbackMarker is the persisted record granting Admin without remote
// verification. It exists only after a successful bypass login and is removed
// at logout.
type FallbackMarker struct {
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	Timestamp int64  `json:"timestamp"`
}
