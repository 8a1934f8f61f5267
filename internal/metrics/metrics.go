// Package metrics defines the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "careerpage_http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "careerpage_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	ApplicationsSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "careerpage_applications_submitted_total",
			Help: "Total number of job applications submitted",
		},
	)

	CareersCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "careerpage_careers_cache_lookups_total",
			Help: "Careers page cache lookups by result (hit or miss)",
		},
		[]string{"result"},
	)

	SectionOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "careerpage_section_operations_total",
			Help: "Section list edits by operation (add, update, remove, move, replace)",
		},
		[]string{"operation"},
	)
)

// Cache lookup results
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)
