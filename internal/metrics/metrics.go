package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the storefront collectors on a private registry. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	Registry        *prometheus.Registry
	CartMutations   *prometheus.CounterVec
	WishlistToggles *prometheus.CounterVec
	StorageFailures *prometheus.CounterVec
	CarouselTicks   *prometheus.CounterVec
	RequestLatency  *prometheus.HistogramVec
}

func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		Registry: registry,
		CartMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_mutations_total",
			Help:      "Cart mutations by operation.",
		}, []string{"op"}),
		WishlistToggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wishlist_toggles_total",
			Help:      "Wishlist toggles by result.",
		}, []string{"result"}),
		StorageFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_failures_total",
			Help:      "Failed loads and saves by record key.",
		}, []string{"key", "kind"}),
		CarouselTicks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "carousel_ticks_total",
			Help:      "Autoplay ticks by carousel and outcome.",
		}, []string{"carousel", "outcome"}),
		RequestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Page host request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
	}

	registry.MustRegister(
		m.CartMutations,
		m.WishlistToggles,
		m.StorageFailures,
		m.CarouselTicks,
		m.RequestLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) CartMutation(op string) {
	if m == nil {
		return
	}
	m.CartMutations.WithLabelValues(op).Inc()
}

func (m *Metrics) WishlistToggle(added bool) {
	if m == nil {
		return
	}
	result := "removed"
	if added {
		result = "added"
	}
	m.WishlistToggles.WithLabelValues(result).Inc()
}

func (m *Metrics) StorageFailure(key, kind string) {
	if m == nil {
		return
	}
	m.StorageFailures.WithLabelValues(key, kind).Inc()
}

func (m *Metrics) CarouselTick(carousel string, wrapped bool) {
	if m == nil {
		return
	}
	outcome := "advance"
	if wrapped {
		outcome = "wrap"
	}
	m.CarouselTicks.WithLabelValues(carousel, outcome).Inc()
}

func (m *Metrics) ObserveRequest(route, method, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestLatency.WithLabelValues(route, method, status).Observe(d.Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
