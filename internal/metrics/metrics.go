// Package metrics exposes Prometheus collectors for the HTTP API and the
// upstream providers.
//
// Collectors are registered once with the default registry and served
// on GET /metrics.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "kwcluster"

// Provider call outcomes.
const (
	OutcomeSuccess        = "success"
	OutcomeUpstreamError  = "upstream_error"
	OutcomeTransportError = "transport_error"
	OutcomeDecodeError    = "decode_error"
)

var (
	// RequestsTotal counts HTTP requests by route and final status.
	RequestsTotal *prometheus.CounterVec

	// ProviderCallsTotal counts outbound provider calls by outcome.
	ProviderCallsTotal *prometheus.CounterVec

	// ProviderLatency observes outbound provider response time.
	ProviderLatency *prometheus.HistogramVec

	// QuestionsPerKeyword observes how many related questions a search returned.
	QuestionsPerKeyword prometheus.Histogram
)

func init() {
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"route", "status"},
	)

	ProviderCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "calls_total",
			Help:      "Total outbound provider calls",
		},
		[]string{"provider", "outcome"},
	)

	ProviderLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "latency_seconds",
			Help:      "Outbound provider response time in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"provider"},
	)

	QuestionsPerKeyword = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "cluster",
			Name:      "questions_per_keyword",
			Help:      "Related questions returned by the search provider per request",
			Buckets:   []float64{0, 1, 2, 4, 6, 8, 12, 20},
		},
	)

	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(ProviderCallsTotal)
	prometheus.MustRegister(ProviderLatency)
	prometheus.MustRegister(QuestionsPerKeyword)
}

// RecordRequest records a served HTTP request. route is the matched
// route pattern, never the raw URL.
func RecordRequest(route string, status int) {
	if route == "" {
		route = "unmatched"
	}
	RequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

// RecordProviderCall records one outbound provider call.
func RecordProviderCall(provider, outcome string, durationSec float64) {
	if outcome == "" {
		outcome = "unknown"
	}
	ProviderCallsTotal.WithLabelValues(provider, outcome).Inc()
	ProviderLatency.WithLabelValues(provider).Observe(durationSec)
}

// RecordQuestions records the number of questions a search returned.
func RecordQuestions(n int) {
	QuestionsPerKeyword.Observe(float64(n))
}
