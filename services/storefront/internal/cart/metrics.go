package cart

import "github.com/prometheus/client_golang/prometheus"

var mutations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "storefront_cart_mutations_total",
		Help: "Cart mutations by operation.",
	},
	[]string{"op"},
)

func init() {
	prometheus.MustRegister(mutations)
}
