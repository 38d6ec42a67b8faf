// Package metrics exposes Prometheus collectors for allocations and quote fetching.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const prefix = "aporte_"

var allocationsCounter = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: prefix + "allocations_total",
		Help: "Number of completed allocation requests by outcome",
	},
	[]string{"reason"},
)

var allocationErrorsCounter = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: prefix + "allocation_errors_total",
		Help: "Number of allocation requests that failed",
	},
)

var greedyIterationsHist = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Name:    prefix + "greedy_iterations",
		Help:    "Units bought by the remainder distributor per allocation",
		Buckets: []float64{0, 1, 2, 3, 5, 10, 25, 50, 100},
	},
)

var leftoverGauge = promauto.NewGauge(
	prometheus.GaugeOpts{
		Name: prefix + "last_leftover",
		Help: "Unspent contribution of the most recent allocation",
	},
)

var quoteFailuresCounter = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: prefix + "quote_failures_total",
		Help: "Number of quote lookups that failed after retries",
	},
	[]string{"source"},
)

var quoteDurationHist = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    prefix + "quote_duration_seconds",
		Help:    "Time taken to fetch one quote including retries",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"source"},
)

var quoteCacheCounter = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: prefix + "quote_cache_lookups_total",
		Help: "Quote cache lookups by result",
	},
	[]string{"result"},
)

type Metrics struct{}

var m = &Metrics{}

func Get() *Metrics {
	return m
}

func (m *Metrics) RecordAllocation(reason string, iterations int, leftover float64) {
	allocationsCounter.WithLabelValues(reason).Inc()
	greedyIterationsHist.Observe(float64(iterations))
	leftoverGauge.Set(leftover)
}

func (m *Metrics) RecordAllocationError() {
	allocationErrorsCounter.Inc()
}

func (m *Metrics) RecordQuote(source string, duration time.Duration, err error) {
	quoteDurationHist.WithLabelValues(source).Observe(duration.Seconds())
	if err != nil {
		quoteFailuresCounter.WithLabelValues(source).Inc()
	}
}

func (m *Metrics) RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	quoteCacheCounter.WithLabelValues(result).Inc()
}
