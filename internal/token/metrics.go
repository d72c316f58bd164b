package token

import "github.com/prometheus/client_golang/prometheus"

var issueTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "tablo_token_issue_total",
		Help: "Token issuance attempts against the signing service, by outcome.",
	},
	[]string{"outcome"},
)

func init() {
	prometheus.MustRegister(issueTotal)
}

func countIssue(outcome string) {
	issueTotal.WithLabelValues(outcome).Inc()
}
