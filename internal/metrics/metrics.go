// Package metrics records fetch and write outcomes for pagestats.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace prefixes every pagestats metric.
const Namespace = "pagestats"

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"

	OperationCreated   = "created"
	OperationRefreshed = "refreshed"
)

// Metrics is nil-safe: every method on a nil *Metrics does nothing.
type Metrics struct {
	FetchTotal           *prometheus.CounterVec
	FetchDurationSeconds prometheus.Histogram
	PagesWrittenTotal    *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg, or on the default registry
// when reg is nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	m := &Metrics{
		FetchTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "fetch_total",
			Help:      "Page fetches by outcome.",
		}, []string{"outcome"}),
		FetchDurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Time spent fetching and extracting a page.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		PagesWrittenTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "pages_written_total",
			Help:      "Pages persisted, by operation.",
		}, []string{"operation"}),
	}

	// Pre-create label sets so the series exist before the first request.
	for _, o := range []string{OutcomeSuccess, OutcomeFailure} {
		m.FetchTotal.WithLabelValues(o)
	}
	for _, o := range []string{OperationCreated, OperationRefreshed} {
		m.PagesWrittenTotal.WithLabelValues(o)
	}

	return m
}

// ObserveFetch records one fetch attempt.
func (m *Metrics) ObserveFetch(d time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	m.FetchTotal.WithLabelValues(outcome).Inc()
	m.FetchDurationSeconds.Observe(d.Seconds())
}

// PageWritten records one successful insert or update.
func (m *Metrics) PageWritten(created bool) {
	if m == nil {
		return
	}
	op := OperationRefreshed
	if created {
		op = OperationCreated
	}
	m.PagesWrittenTotal.WithLabelValues(op).Inc()
}
