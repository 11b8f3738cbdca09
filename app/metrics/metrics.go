package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	BankingRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lubycash",
		Subsystem: "banking",
		Name:      "requests_total",
		Help:      "Outbound requests to the banking service by status code and method.",
	}, []string{"code", "method"})

	BankingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "lubycash",
		Subsystem: "banking",
		Name:      "request_duration_seconds",
		Help:      "Latency of outbound requests to the banking service.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"code", "method"})

	ResetTokensIssued = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "lubycash",
		Subsystem: "auth",
		Name:      "reset_tokens_issued_total",
		Help:      "Password reset tokens created.",
	})

	RoleChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lubycash",
		Subsystem: "permission",
		Name:      "role_changes_total",
		Help:      "Role grants and revocations by role and action.",
	}, []string{"role", "action"})

	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lubycash",
		Subsystem: "events",
		Name:      "published_total",
		Help:      "Kafka messages published by topic and outcome.",
	}, []string{"topic", "outcome"})
)

// InstrumentTransport wraps next with the banking request counter and histogram.
func InstrumentTransport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return promhttp.InstrumentRoundTripperCounter(BankingRequests,
		promhttp.InstrumentRoundTripperDuration(BankingDuration, next),
	)
}

func Handler() http.Handler {
	return promhttp.Handler()
}
