package authz

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// decisionCounter counts authorization decisions by outcome and source.
	decisionCounter = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "authorization_decisions_total",
			Help: "Number of authorization decisions, differentiated by outcome and deciding source.",
		},
		[]string{"outcome", "source"},
	)
)

func observeDecision(d Decision) {
	outcome := "denied"
	if d.Allowed {
		outcome = "granted"
	}

	decisionCounter.WithLabelValues(outcome, string(d.Source)).Inc()
}
