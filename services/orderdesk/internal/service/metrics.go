package service

import "github.com/prometheus/client_golang/prometheus"

// Order outcomes.
const (
	resultAccepted   = "accepted"
	resultReplayed   = "replayed"
	resultInProgress = "in_progress"
	resultInvalid    = "invalid"
	resultFailed     = "failed"
)

var (
	ordersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orderdesk_orders_total",
			Help: "Orders received by outcome.",
		},
		[]string{"result"},
	)

	emailsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orderdesk_emails_total",
			Help: "Order notifications by transport and status.",
		},
		[]string{"transport", "status"},
	)
)

func init() {
	prometheus.MustRegister(ordersTotal, emailsTotal)
}
