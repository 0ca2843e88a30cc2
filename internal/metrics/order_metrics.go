package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Failure reasons recorded by the order service.
const (
	ReasonValidation    = "validation"
	ReasonUserNotFound  = "user_not_found"
	ReasonBooksNotFound = "books_not_found"
	ReasonStore         = "store"
)

// OrderMetrics tracks order creation. A nil *OrderMetrics records nothing.
type OrderMetrics struct {
	created        prometheus.Counter
	failures       *prometheus.CounterVec
	createDuration prometheus.Histogram
	lineItems      prometheus.Histogram
}

func NewOrderMetrics(registerer prometheus.Registerer) *OrderMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &OrderMetrics{
		created: register(registerer, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bookstore_orders_created_total",
			Help: "Total number of orders committed",
		})),
		failures: register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bookstore_order_failures_total",
			Help: "Total number of rejected or failed order creations by reason",
		}, []string{"reason"})),
		createDuration: register(registerer, prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "bookstore_order_create_duration_seconds",
			Help:    "Duration of successful order creations in seconds",
			Buckets: prometheus.DefBuckets,
		})),
		lineItems: register(registerer, prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "bookstore_order_line_items",
			Help:    "Number of line items per created order",
			Buckets: []float64{1, 2, 3, 5, 10, 20, 50},
		})),
	}
}

// register returns the already registered collector when one with the same
// descriptor exists, so constructing twice against one registry is safe.
func register[T prometheus.Collector](registerer prometheus.Registerer, collector T) T {
	if err := registerer.Register(collector); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := already.ExistingCollector.(T)
			if !ok {
				panic(fmt.Sprintf("collector already registered with unexpected type: %T", already.ExistingCollector))
			}
			return existing
		}
		panic(fmt.Sprintf("register collector: %v", err))
	}
	return collector
}

func (m *OrderMetrics) RecordCreated(lines int, duration time.Duration) {
	if m == nil {
		return
	}
	m.created.Inc()
	m.lineItems.Observe(float64(lines))
	m.createDuration.Observe(duration.Seconds())
}

func (m *OrderMetrics) RecordFailure(reason string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(reason).Inc()
}
