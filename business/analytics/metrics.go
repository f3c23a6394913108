package analytics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	PrefetchEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prefetch_outcome_events_total",
			Help: "Count of prefetch outcome events by event type.",
		},
		[]string{"event_type"},
	)
)

func init() {
	prometheus.MustRegister(PrefetchEventsTotal)
}
