package embed

import "github.com/prometheus/client_golang/prometheus"

var (
	embedGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tablo_embed_codes_generated_total",
			Help: "Embed artifacts generated, by widget type and format.",
		},
		[]string{"widget_type", "format"},
	)
	embedFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tablo_embed_generate_failures_total",
			Help: "Generate calls that produced a failure comment, by reason.",
		},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(embedGenerated, embedFailures)
}

func countGenerated(t WidgetType, f Format) {
	embedGenerated.WithLabelValues(string(t), string(f)).Inc()
}

func countFailure(reason string) {
	embedFailures.WithLabelValues(reason).Inc()
}
