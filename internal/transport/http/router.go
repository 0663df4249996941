package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"motorlane/internal/authz"
)

// Registrar is implemented by every handler in this package.
type Registrar interface {
	Register(r chi.Router)
}

// NewRouter assembles the middleware chain and mounts every handler. All
// routed content waits behind the loading gate until the initial session
// resolution has settled; /healthz and /metrics stay outside it so probes
// and scrapes work during startup.
func NewRouter(source authz.SessionSource, logger *slog.Logger, handlers ...Registrar) http.Handler {
	r := chi.NewRouter()
	r.Use(Recovery(logger))
	r.Use(RequestID)
	r.Use(ClientMetadata)
	r.Use(Logger(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(authz.LoadingGate(source))
		for _, h := range handlers {
			h.Register(r)
		}
	})

	return r
}
