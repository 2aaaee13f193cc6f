package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for lookup runs.
type Metrics struct {
	RunsStarted   prometheus.Counter
	RunsSucceeded prometheus.Counter
	RunsCancelled prometheus.Counter
	RunsFailed    prometheus.Counter
	RunDuration   prometheus.Histogram

	PricesStaged    prometheus.Counter
	PricesCommitted prometheus.Counter
}

// New creates and registers all metrics on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RunsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "fwlookup_runs_started_total",
			Help: "Total number of lookup runs started",
		}),
		RunsSucceeded: factory.NewCounter(prometheus.CounterOpts{
			Name: "fwlookup_runs_succeeded_total",
			Help: "Total number of lookup runs that completed normally",
		}),
		RunsCancelled: factory.NewCounter(prometheus.CounterOpts{
			Name: "fwlookup_runs_cancelled_total",
			Help: "Total number of lookup runs cancelled or ended by a closed browser",
		}),
		RunsFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "fwlookup_runs_failed_total",
			Help: "Total number of lookup runs that failed",
		}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "fwlookup_run_duration_seconds",
			Help:    "Duration of lookup runs",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
		PricesStaged: factory.NewCounter(prometheus.CounterOpts{
			Name: "fwlookup_prices_staged_total",
			Help: "Total number of price changes staged for review",
		}),
		PricesCommitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "fwlookup_prices_committed_total",
			Help: "Total number of price changes committed to the ledger",
		}),
	}
}
