package gateway

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector counts gate outcomes by kind.
type Collector struct {
	registry   *prometheus.Registry
	allowed    prometheus.Counter
	redirected *prometheus.CounterVec
	denied     *prometheus.CounterVec
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		allowed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefront_gateway_allowed_total",
			Help: "Requests passed through the gateway.",
		}),
		redirected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_gateway_redirected_total",
			Help: "Requests redirected by the gateway, by destination.",
		}, []string{"target"}),
		denied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_gateway_denied_total",
			Help: "API requests denied by the gateway, by reason.",
		}, []string{"reason"}),
	}

	c.registry.MustRegister(c.allowed, c.redirected, c.denied)
	return c
}

func (c *Collector) RecordAllowed() {
	c.allowed.Inc()
}

func (c *Collector) RecordRedirect(target string) {
	c.redirected.WithLabelValues(target).Inc()
}

func (c *Collector) RecordDenied(reason string) {
	c.denied.WithLabelValues(reason).Inc()
}

// Handler exposes the metrics endpoint.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
