// Package metrics provides Prometheus instrumentation for query submissions
// and history recording.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "nlnotebook"

// Submission outcomes used as label values.
const (
	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
	OutcomeRejected  = "rejected"
	OutcomeSkipped   = "skipped"
)

// Collector holds the application metrics on a private registry.
// A nil *Collector is valid and records nothing.
type Collector struct {
	registry    *prometheus.Registry
	submissions *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	inFlight    prometheus.Gauge
	recorded    prometheus.Counter
	malformed   *prometheus.CounterVec
}

// New creates a Collector with all metrics registered.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_submissions_total",
			Help:      "Query submissions by outcome.",
		}, []string{"outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Round-trip time of calls to the query service.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}, []string{"outcome"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "query_in_flight",
			Help:      "Query service calls currently outstanding.",
		}),
		recorded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_entries_recorded_total",
			Help:      "Replies recorded into a notebook history.",
		}),
		malformed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "malformed_replies_total",
			Help:      "Replies rejected at parse time, by policy.",
		}, []string{"policy"}),
	}

	c.registry.MustRegister(
		c.submissions,
		c.latency,
		c.inFlight,
		c.recorded,
		c.malformed,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Submission counts a submission that did not reach the service.
func (c *Collector) Submission(outcome string) {
	if c == nil {
		return
	}
	c.submissions.WithLabelValues(outcome).Inc()
}

// StartCall marks a service call as outstanding and returns a func that
// completes it with the given outcome.
func (c *Collector) StartCall() func(outcome string) {
	if c == nil {
		return func(string) {}
	}
	start := time.Now()
	c.inFlight.Inc()
	return func(outcome string) {
		c.inFlight.Dec()
		c.latency.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
		c.submissions.WithLabelValues(outcome).Inc()
	}
}

// Recorded counts a history entry.
func (c *Collector) Recorded() {
	if c == nil {
		return
	}
	c.recorded.Inc()
}

// Malformed counts a reply rejected at parse time.
func (c *Collector) Malformed(policy string) {
	if c == nil {
		return
	}
	c.malformed.WithLabelValues(policy).Inc()
}
