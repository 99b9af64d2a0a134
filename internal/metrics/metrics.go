// Package metrics provides Prometheus metrics for ddnsd.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace is the prefix for all ddnsd metrics.
const Namespace = "ddnsd"

var (
	// BuildInfo exposes the build version as a constant gauge.
	BuildInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "build_info",
		Help:      "Build information for the running ddnsd binary.",
	}, []string{"version", "go_version"})

	// UpdatesTotal counts reconciliation attempts by provider and outcome.
	// Outcomes: noop, updated, created, error.
	UpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "updates_total",
		Help:      "Total DNS update requests processed, by provider and outcome.",
	}, []string{"provider", "outcome"})

	// UpdateDuration observes end-to-end reconciliation latency in seconds.
	UpdateDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "update_duration_seconds",
		Help:      "Duration of DNS update reconciliation calls.",
		Buckets:   prometheus.DefBuckets,
	})

	// HTTPRequestsTotal counts inbound HTTP requests by route and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "http_requests_total",
		Help:      "Total inbound HTTP requests, by method, route and status code.",
	}, []string{"method", "route", "status"})
)

// SetBuildInfo records the running binary's build metadata.
func SetBuildInfo(version, goVersion string) {
	BuildInfo.WithLabelValues(version, goVersion).Set(1)
}
