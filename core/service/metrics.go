package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for service execution.
type Metrics struct {
	// CallsTotal counts executions by service and outcome: completed,
	// skipped, validation_failed, pre_run_failed, run_failed.
	CallsTotal *prometheus.CounterVec

	// CallDuration observes end-to-end Call duration per service.
	CallDuration *prometheus.HistogramVec
}

// NewMetrics creates a collector registered with the default registry.
func NewMetrics() *Metrics {
	return newMetrics(promauto.With(prometheus.DefaultRegisterer))
}

// NewMetricsWithRegistry creates a collector with a custom registry.
// Useful for testing to avoid global state.
func NewMetricsWithRegistry(reg prometheus.Registerer) *Metrics {
	return newMetrics(promauto.With(reg))
}

func newMetrics(factory promauto.Factory) *Metrics {
	return &Metrics{
		CallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "firepack",
				Name:      "service_calls_total",
				Help:      "Total number of service executions by outcome",
			},
			[]string{"service", "outcome"},
		),
		CallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "firepack",
				Name:      "service_call_duration_seconds",
				Help:      "Service execution duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"service"},
		),
	}
}
