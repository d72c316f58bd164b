package preview

import "github.com/prometheus/client_golang/prometheus"

var (
	previewConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "tablo_preview_connections",
			Help: "Current number of dashboard preview connections.",
		},
	)
	previewSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "tablo_preview_sessions",
			Help: "Current number of live preview sessions.",
		},
	)
	previewEventsDelivered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tablo_preview_events_delivered_total",
			Help: "Total runtime events delivered to preview clients.",
		},
	)
)

func init() {
	prometheus.MustRegister(previewConnections, previewSessions, previewEventsDelivered)
}

func incConnections() {
	previewConnections.Inc()
}

func decConnections() {
	previewConnections.Dec()
}

func setSessions(count int) {
	previewSessions.Set(float64(count))
}

func addDelivered(count int) {
	previewEventsDelivered.Add(float64(count))
}
