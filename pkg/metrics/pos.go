package metrics

import (
	"context"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mamadbah2/acai-manager/internal/domain/models"
)

// POSMetrics records sale activity and persistence health.
type POSMetrics struct {
	sales           *prometheus.CounterVec
	revenue         *prometheus.CounterVec
	settlements     *prometheus.CounterVec
	persistFailures *prometheus.CounterVec
}

// NewPOSMetrics registers the POS metrics on the provided registerer. A nil
// registerer yields a no-op recorder.
func NewPOSMetrics(reg prometheus.Registerer) *POSMetrics {
	if reg == nil {
		return &POSMetrics{}
	}
	sales := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_sales_total",
		Help: "Finalized sales by payment method and initial status.",
	}, []string{"payment_method", "status"})
	revenue := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_sales_amount_total",
		Help: "Sum of finalized sale totals in BRL by payment method.",
	}, []string{"payment_method"})
	settlements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_settlements_total",
		Help: "Deferred sales settled, by collected payment method.",
	}, []string{"payment_method"})
	persistFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_persistence_failures_total",
		Help: "Failed snapshot loads and saves by collection key.",
	}, []string{"key", "op"})
	reg.MustRegister(sales, revenue, settlements, persistFailures)
	return &POSMetrics{
		sales:           sales,
		revenue:         revenue,
		settlements:     settlements,
		persistFailures: persistFailures,
	}
}

// SaleRecorded implements the ledger hook.
func (m *POSMetrics) SaleRecorded(_ context.Context, sale models.Sale) {
	if m == nil || m.sales == nil {
		return
	}
	method := normalizeLabel(sale.PaymentMethod.String())
	m.sales.WithLabelValues(method, normalizeLabel(sale.Status.String())).Inc()
	m.revenue.WithLabelValues(method).Add(sale.Total.InexactFloat64())
}

// SaleSettled implements the ledger hook.
func (m *POSMetrics) SaleSettled(_ context.Context, sale models.Sale) {
	if m == nil || m.settlements == nil {
		return
	}
	m.settlements.WithLabelValues(normalizeLabel(sale.PaymentMethod.String())).Inc()
}

// PersistenceFailed counts a failed load or save of a collection.
func (m *POSMetrics) PersistenceFailed(key, op string) {
	if m == nil || m.persistFailures == nil {
		return
	}
	m.persistFailures.WithLabelValues(normalizeLabel(key), normalizeLabel(op)).Inc()
}

func normalizeLabel(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return "unknown"
	}
	return value
}
