package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for the handoff lifecycle.
type Metrics struct {
	NoncesIssued    prometheus.Counter
	RedirectsBuilt  *prometheus.CounterVec
	CallbackResults *prometheus.CounterVec
	Redemptions     *prometheus.CounterVec
	CallbackSeconds prometheus.Histogram
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		NoncesIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "relay_nonces_issued_total",
			Help: "Total client nonces issued",
		}),
		RedirectsBuilt: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "relay_redirects_built_total",
			Help: "Provider redirects built, by flow",
		}, []string{"flow"}),
		CallbackResults: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "relay_callbacks_total",
			Help: "Provider callbacks handled, by login status",
		}, []string{"status"}),
		Redemptions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "relay_redemptions_total",
			Help: "Client nonce redemptions, by outcome",
		}, []string{"outcome"}),
		CallbackSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "relay_callback_duration_seconds",
			Help:    "Latency of provider callback handling",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
}
