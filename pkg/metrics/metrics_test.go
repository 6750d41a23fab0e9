package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mamadbah2/acai-manager/internal/domain/models"
)

func TestPOSMetricsCountsSales(t *testing.T) {
	m := NewPOSMetrics(prometheus.NewRegistry())
	ctx := context.Background()

	m.SaleRecorded(ctx, models.Sale{PaymentMethod: models.PaymentMethodCash, Status: models.SaleStatusPaid, Total: decimal.RequireFromString("40")})
	m.SaleRecorded(ctx, models.Sale{PaymentMethod: models.PaymentMethodCash, Status: models.SaleStatusPaid, Total: decimal.RequireFromString("2.5")})
	m.SaleRecorded(ctx, models.Sale{PaymentMethod: models.PaymentMethodPosterior, Status: models.SaleStatusPending, Total: decimal.RequireFromString("45")})
	m.SaleSettled(ctx, models.Sale{PaymentMethod: models.PaymentMethodPix})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.sales.WithLabelValues("cash", "paid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sales.WithLabelValues("posterior", "pending")))
	assert.InDelta(t, 42.5, testutil.ToFloat64(m.revenue.WithLabelValues("cash")), 0.001)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.settlements.WithLabelValues("pix")))
}

func TestPOSMetricsPersistenceFailures(t *testing.T) {
	m := NewPOSMetrics(prometheus.NewRegistry())

	m.PersistenceFailed("acai_sales", "save")
	m.PersistenceFailed("acai_sales", "save")
	m.PersistenceFailed("", "load")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.persistFailures.WithLabelValues("acai_sales", "save")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.persistFailures.WithLabelValues("unknown", "load")))
}

func TestNilRecordersAreNoops(t *testing.T) {
	var nilPOS *POSMetrics
	var nilCron *CronJobMetrics
	ctx := context.Background()

	assert.NotPanics(t, func() {
		nilPOS.SaleRecorded(ctx, models.Sale{})
		nilPOS.SaleSettled(ctx, models.Sale{})
		nilPOS.PersistenceFailed("k", "save")
		NewPOSMetrics(nil).SaleRecorded(ctx, models.Sale{})

		nilCron.ObserveDuration("job", time.Second)
		nilCron.IncSuccess("job")
		nilCron.IncFailure("job")
		NewCronJobMetrics(nil).IncSuccess("job")
	})
}

func TestCronJobMetrics(t *testing.T) {
	m := NewCronJobMetrics(prometheus.NewRegistry())

	m.IncSuccess("daily_closing")
	m.IncFailure("daily_closing")
	m.IncFailure("daily_closing")
	m.ObserveDuration("daily_closing", 250*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.success.WithLabelValues("daily_closing")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.failure.WithLabelValues("daily_closing")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
}
