package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of the optimize HTTP handler
	PrefetchOptimizeLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "prefetch_optimize_latency_seconds",
		Help:    "Latency of the prefetch optimize handler",
		Buckets: prometheus.DefBuckets,
	})

	// Total number of optimize requests served
	PrefetchOptimizeRequests = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "prefetch_optimize_requests_total",
		Help: "Total number of prefetch optimize requests",
	})

	// Persistence failures are swallowed by the engine, so this counter is
	// the only place they stay visible.
	PersistenceFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prefetch_persistence_failures_total",
			Help: "Count of swallowed persistence failures by component and operation.",
		},
		[]string{"component", "op"},
	)
)

func Init() {
	prometheus.MustRegister(
		PrefetchOptimizeLatency,
		PrefetchOptimizeRequests,
		PersistenceFailures,
	)
}
