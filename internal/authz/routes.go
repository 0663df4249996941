package authz

import (
	"motorlane/internal/session"
)

// RequiresAdmin gates the back office. Denials land on the dedicated admin
// sign-in page rather than the customer one.
var RequiresAdmin = Requirement{
	Authenticated: true,
	Roles:         []session.Role{session.RoleAdmin},
	AdminArea:     true,
}

// Rule binds a route pattern to its access requirement.
type Rule struct {
	Pattern string
	Req     Requirement
}

// Routes is the access table for every page route the service serves.
// Everything not listed as gated is public, including the sign-in pages
// themselves.
func Routes() []Rule {
	return []Rule{
		{Pattern: "/", Req: Public},
		{Pattern: "/cars", Req: Public},
		{Pattern: "/cars/{id}", Req: Public},
		{Pattern: "/stands", Req: Public},
		{Pattern: "/stands/{id}", Req: Public},
		{Pattern: "/blog", Req: Public},
		{Pattern: "/blog/{slug}", Req: Public},
		{Pattern: "/contact", Req: Public},
		{Pattern: "/login", Req: Public},
		{Pattern: "/register", Req: Public},
		{Pattern: "/admin/login", Req: Public},

		{Pattern: "/client-area", Req: RequiresAuth},
		{Pattern: "/dashboard", Req: RequiresRole(session.RoleStand, session.RoleAdmin)},
		{Pattern: "/create-listing", Req: RequiresRole(session.RoleStand)},
		{Pattern: "/edit-listing/{id}", Req: RequiresRole(session.RoleStand, session.RoleAdmin)},
		{Pattern: "/admin", Req: RequiresAdmin},
	}
}
