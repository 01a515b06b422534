// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds every metric the service exports. A nil *Collector records nothing.
type Collector struct {
	namespace string

	// HTTP
	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec

	// Goals
	progressUpdates *prometheus.CounterVec
	goalCompletions prometheus.Counter

	// Transactions
	queryResults prometheus.Histogram
}

// NewCollector creates a new collector under namespace. Call Register before use.
func NewCollector(namespace string) *Collector {
	return &Collector{
		namespace: namespace,
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests per route, method and status code",
			},
			[]string{"method", "route", "status"},
		),
		httpLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency per route and method",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		progressUpdates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "goal_progress_updates_total",
				Help:      "Total number of applied goal progress deltas per direction",
			},
			[]string{"direction"},
		),
		goalCompletions: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "goal_completions_total",
				Help:      "Total number of goals moved from active to completed",
			},
		),
		queryResults: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "transaction_query_matches",
				Help:      "Number of transactions matched by a filtered query before pagination",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
			},
		),
	}
}

// Register registers all collectors with reg.
func (c *Collector) Register(reg prometheus.Registerer) error {
	for _, col := range []prometheus.Collector{
		c.httpRequests,
		c.httpLatency,
		c.progressUpdates,
		c.goalCompletions,
		c.queryResults,
	} {
		if err := reg.Register(col); err != nil {
			return err
		}
	}
	return nil
}

// ObserveRequest records one served HTTP request.
func (c *Collector) ObserveRequest(method, route string, status int, d time.Duration) {
	if c == nil {
		return
	}
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpLatency.WithLabelValues(method, route).Observe(d.Seconds())
}

// ProgressApplied records one goal progress delta; direction is "add" or "subtract".
func (c *Collector) ProgressApplied(direction string) {
	if c == nil {
		return
	}
	c.progressUpdates.WithLabelValues(direction).Inc()
}

// GoalCompleted records an active to completed transition.
func (c *Collector) GoalCompleted() {
	if c == nil {
		return
	}
	c.goalCompletions.Inc()
}

// QueryMatched records the total match count of a transaction query.
func (c *Collector) QueryMatched(total int) {
	if c == nil {
		return
	}
	c.queryResults.Observe(float64(total))
}
