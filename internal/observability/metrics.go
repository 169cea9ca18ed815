// Package observability exposes Prometheus metrics about plan generation.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	plansGenerated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "intervalplan",
		Subsystem: "plans",
		Name:      "generated_total",
		Help:      "Number of plans generated, partitioned by the fallback tier that produced them.",
	}, []string{"tier"})

	suggestionFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "intervalplan",
		Subsystem: "plans",
		Name:      "suggestion_failures_total",
		Help:      "Number of suggestion tier failures absorbed by the fallback chain.",
	}, []string{"tier", "reason"})

	generationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "intervalplan",
		Subsystem: "plans",
		Name:      "generation_seconds",
		Help:      "Wall-clock time spent generating a plan, including suggestion calls.",
		Buckets:   []float64{0.005, 0.05, 0.25, 1, 2.5, 5, 10, 15, 20, 30},
	})
)

func init() {
	prometheus.MustRegister(plansGenerated, suggestionFailures, generationDuration)
}

// RecordPlanGenerated counts a plan produced by tier and observes how long it took.
func RecordPlanGenerated(tier string, took time.Duration) {
	plansGenerated.WithLabelValues(tier).Inc()
	generationDuration.Observe(took.Seconds())
}

// RecordSuggestionFailure counts a failed suggestion tier.
func RecordSuggestionFailure(tier, reason string) {
	suggestionFailures.WithLabelValues(tier, reason).Inc()
}

// Handler serves the default registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}
