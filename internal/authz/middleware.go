package authz

import (
	"net/http"

	"motorlane/internal/session"
)

// SessionSource exposes the current session and the initial-resolution gate.
// *session.Resolver satisfies it.
type SessionSource interface {
	Current() session.Session
	Ready() <-chan struct{}
}

// Gate returns middleware enforcing req against the current session.
// Denied requests receive a 302 to the sign-in page appropriate for the
// route, never a bare 403, matching the page-flow the site presents.
func Gate(source SessionSource, req Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := Decide(source.Current(), req)
			if d.Verdict == Redirect {
				http.Redirect(w, r, d.Location, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LoadingGate withholds routed content until the initial session resolution
// has settled, so a gated route is never decided against a transient
// anonymous state during startup. Requests during the window get a 503 with
// Retry-After rather than a wrong redirect.
func LoadingGate(source SessionSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-source.Ready():
				next.ServeHTTP(w, r)
			default:
				w.Header().Set("Retry-After", "1")
				http.Error(w, "session resolution in progress", http.StatusServiceUnavailable)
			}
		})
	}
}
