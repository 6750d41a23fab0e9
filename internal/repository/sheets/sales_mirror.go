package sheets

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/acai-manager/internal/domain/models"
)

const (
	salesWriteRange       = "Vendas!A:J"
	settlementsWriteRange = "Recebimentos!A:D"
	timestampFormat       = "2006-01-02 15:04:05"
	mirrorTimeout         = 15 * time.Second
)

// SalesMirror copies ledger events into a spreadsheet for the accountant.
// Rows are appended in the background; failures are only logged.
type SalesMirror struct {
	sheet  Appender
	logger *zap.Logger
	wg     sync.WaitGroup
}

// NewSalesMirror wires a mirror on top of a sheet repository.
func NewSalesMirror(sheet Appender, logger *zap.Logger) *SalesMirror {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SalesMirror{sheet: sheet, logger: logger}
}

// SaleRecorded appends one row per finalized sale.
func (m *SalesMirror) SaleRecorded(ctx context.Context, sale models.Sale) {
	m.append(ctx, salesWriteRange, SaleRow(sale))
}

// SaleSettled appends one row per collected deferred sale.
func (m *SalesMirror) SaleSettled(ctx context.Context, sale models.Sale) {
	m.append(ctx, settlementsWriteRange, []interface{}{
		time.Now().Format(timestampFormat),
		sale.ID,
		sale.PaymentMethod.Label(),
		sale.Total.StringFixed(2),
	})
}

// Wait blocks until every pending append has finished.
func (m *SalesMirror) Wait() {
	m.wg.Wait()
}

func (m *SalesMirror) append(ctx context.Context, sheetRange string, values []interface{}) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), mirrorTimeout)
		defer cancel()
		if err := m.sheet.AppendRow(writeCtx, sheetRange, values); err != nil {
			m.logger.Warn("failed to mirror row", zap.String("range", sheetRange), zap.Error(err))
		}
	}()
}

// SaleRow flattens a sale into spreadsheet columns.
func SaleRow(sale models.Sale) []interface{} {
	names := make([]string, 0, len(sale.Items))
	for _, item := range sale.Items {
		names = append(names, item.Product.Name)
	}
	return []interface{}{
		sale.Timestamp.Format(timestampFormat),
		sale.ID,
		strings.Join(names, ", "),
		sale.Subtotal.StringFixed(2),
		sale.DeliveryFee.StringFixed(2),
		sale.Total.StringFixed(2),
		sale.PaymentMethod.Label(),
		sale.DeliveryType.Label(),
		sale.CustomerName,
		sale.Status.Label(),
	}
}
