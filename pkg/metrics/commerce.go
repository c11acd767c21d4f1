package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CommerceMetrics records checkout and discount activity.
type CommerceMetrics struct {
	ordersCreated   *prometheus.CounterVec
	ordersCancelled prometheus.Counter
	orderValue      prometheus.Histogram
	discountApplied *prometheus.CounterVec
}

// NewCommerceMetrics registers the commerce metrics on the provided registerer.
func NewCommerceMetrics(reg prometheus.Registerer) *CommerceMetrics {
	if reg == nil {
		return &CommerceMetrics{}
	}
	ordersCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders created, by payment method.",
	}, []string{"payment_method"})
	ordersCancelled := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_cancelled_total",
		Help: "Orders cancelled by their owners.",
	})
	orderValue := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_value",
		Help:    "Final order totals after discounts.",
		Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 2500},
	})
	discountApplied := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "discount_applications_total",
		Help: "Discount code applications, by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(ordersCreated, ordersCancelled, orderValue, discountApplied)
	return &CommerceMetrics{
		ordersCreated:   ordersCreated,
		ordersCancelled: ordersCancelled,
		orderValue:      orderValue,
		discountApplied: discountApplied,
	}
}

// IncOrderCreated increments the order counter for the payment method and
// records the order total.
func (c *CommerceMetrics) IncOrderCreated(paymentMethod string, total float64) {
	if c == nil || c.ordersCreated == nil {
		return
	}
	c.ordersCreated.WithLabelValues(normalizeLabel(paymentMethod)).Inc()
	c.orderValue.Observe(total)
}

// IncOrderCancelled increments the cancelled order counter.
func (c *CommerceMetrics) IncOrderCancelled() {
	if c == nil || c.ordersCancelled == nil {
		return
	}
	c.ordersCancelled.Inc()
}

// IncDiscountApplied records a discount application outcome.
func (c *CommerceMetrics) IncDiscountApplied(outcome string) {
	if c == nil || c.discountApplied == nil {
		return
	}
	c.discountApplied.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
