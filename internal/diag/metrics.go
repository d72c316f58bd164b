package diag

import "github.com/prometheus/client_golang/prometheus"

var diagEventsStored = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "tablo_diag_events_stored_total",
		Help: "Runtime events written to the diagnostics store, by type.",
	},
	[]string{"type"},
)

func init() {
	prometheus.MustRegister(diagEventsStored)
}

func countStored(eventType string) {
	diagEventsStored.WithLabelValues(eventType).Inc()
}
