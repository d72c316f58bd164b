package protocol

import "github.com/prometheus/client_golang/prometheus"

var (
	protocolMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tablo_protocol_messages_total",
			Help: "Handshake messages that passed the trust boundary, by type.",
		},
		[]string{"type"},
	)
	protocolDrops = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tablo_protocol_drops_total",
			Help: "Handshake messages dropped at the trust boundary, by reason.",
		},
		[]string{"reason"},
	)
	protocolInstances = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "tablo_protocol_instances",
			Help: "Currently mounted widget instances.",
		},
	)
)

func init() {
	prometheus.MustRegister(protocolMessages, protocolDrops, protocolInstances)
}

func countMessage(t Type) {
	protocolMessages.WithLabelValues(string(t)).Inc()
}

func countDrop(reason DropReason) {
	protocolDrops.WithLabelValues(string(reason)).Inc()
}

func setInstances(count int) {
	protocolInstances.Set(float64(count))
}
