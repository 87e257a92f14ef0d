package checkout

import "github.com/prometheus/client_golang/prometheus"

var (
	submissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_checkout_submissions_total",
			Help: "Checkout submissions by terminal state and reason.",
		},
		[]string{"state", "reason"},
	)

	submissionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "storefront_checkout_submission_duration_seconds",
			Help:    "Time spent waiting for the order desk.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(submissionsTotal, submissionDuration)
}

func observe(o Outcome) {
	reason := string(o.Reason)
	if reason == "" {
		reason = "none"
	}
	submissionsTotal.WithLabelValues(o.State.String(), reason).Inc()
}
