package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	SessionResolutions *prometheus.CounterVec
	Logins             *prometheus.CounterVec
	ModerationWrites   *prometheus.CounterVec
	LeadsCaptured      prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		SessionResolutions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "motorlane_session_resolutions_total",
			Help: "Startup session resolutions by source (none, local_fallback, remote)",
		}, []string{"source"}),
		Logins: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "motorlane_logins_total",
			Help: "Login attempts by outcome (ok, fallback, invalid, unavailable)",
		}, []string{"outcome"}),
		ModerationWrites: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "motorlane_moderation_writes_total",
			Help: "Privileged writes by outcome (remote, local_only, rejected)",
		}, []string{"outcome"}),
		LeadsCaptured: promauto.NewCounter(prometheus.CounterOpts{
			Name: "motorlane_leads_captured_total",
			Help: "Total number of leads captured through the public form",
		}),
	}
}

func (m *Metrics) IncSessionResolution(source string) {
	if m == nil {
		return
	}
	m.SessionResolutions.WithLabelValues(source).Inc()
}

func (m *Metrics) IncLogin(outcome string) {
	if m == nil {
		return
	}
	m.Logins.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncModerationWrite(outcome string) {
	if m == nil {
		return
	}
	m.ModerationWrites.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncLeadsCaptured() {
	if m == nil {
		return
	}
	m.LeadsCaptured.Inc()
}
