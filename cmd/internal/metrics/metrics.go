// Package metrics exposes passage's Prometheus collectors.
//
// Auth counters are labeled by coarse outcome only. Rotation rejections are
// a single "rejected" bucket on purpose: the per-cause split must not exist
// anywhere observable, matching the uniform 401 on the wire.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values shared by the auth counters.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

var (
	// Registrations counts register attempts by outcome.
	Registrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "passage_registrations_total",
		Help: "Registration attempts by outcome.",
	}, []string{"outcome"})

	// Logins counts login attempts by outcome.
	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "passage_logins_total",
		Help: "Login attempts by outcome.",
	}, []string{"outcome"})

	// Rotations counts refresh-rotation attempts by outcome.
	Rotations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "passage_token_rotations_total",
		Help: "Refresh-token rotation attempts by outcome.",
	}, []string{"outcome"})

	// PurgedRecords counts refresh records removed by the expiry sweeper.
	PurgedRecords = promauto.NewCounter(prometheus.CounterOpts{
		Name: "passage_refresh_records_purged_total",
		Help: "Expired refresh-token records removed by the background sweep.",
	})

	// HTTPDuration observes request latency by method and status class.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "passage_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "status"})
)

// Handler returns the /metrics endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
