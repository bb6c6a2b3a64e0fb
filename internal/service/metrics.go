package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts query traffic and violation output per label.
type Metrics struct {
	Queries       *prometheus.CounterVec
	Violations    *prometheus.CounterVec
	QueryDuration prometheus.Histogram
}

// NewMetrics registers the service metrics on the given registerer. Pass
// a fresh registry in tests to avoid duplicate registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Queries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fintrail_queries_total",
			Help: "Queries processed, labeled by classified intent.",
		}, []string{"intent"}),
		Violations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fintrail_violations_total",
			Help: "Policy violations detected, labeled by severity.",
		}, []string{"severity"}),
		QueryDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "fintrail_query_duration_seconds",
			Help:    "End-to-end query pipeline latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}
