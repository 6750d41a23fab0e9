package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/mamadbah2/acai-manager/internal/domain/models"
)

var (
	// ErrAlreadySettled is returned when settling a sale that is already paid.
	ErrAlreadySettled = errors.New("sale already settled")
	// ErrInvalidSettlementMethod is returned when the collected method is unknown or deferred.
	ErrInvalidSettlementMethod = errors.New("invalid settlement payment method")
	// ErrDuplicateSale is returned when appending a sale whose id is already recorded.
	ErrDuplicateSale = errors.New("sale id already recorded")
)

// Writer persists the full sale collection after each mutation.
type Writer interface {
	SaveSales(ctx context.Context, sales []models.Sale)
}

// Hook observes ledger mutations. Hooks must not block for long; they run
// after the ledger lock is released.
type Hook interface {
	SaleRecorded(ctx context.Context, sale models.Sale)
	SaleSettled(ctx context.Context, sale models.Sale)
}

// Ledger is the append-only record of sales, most recent first.
type Ledger struct {
	mu      sync.RWMutex
	sales   []models.Sale
	version uint64

	// saveMu orders writes so an older snapshot never lands after a newer one.
	saveMu    sync.Mutex
	savedUpTo uint64

	writer Writer
	hooks  []Hook
	logger *zap.Logger
}

// New wires a ledger around previously loaded sales, expected most recent first.
func New(sales []models.Sale, writer Writer, logger *zap.Logger, hooks ...Hook) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{
		sales:  models.CloneSales(sales),
		writer: writer,
		hooks:  hooks,
		logger: logger,
	}
}

// Append records a new sale at the front of the ledger.
func (l *Ledger) Append(ctx context.Context, sale models.Sale) error {
	sale = sale.Clone()

	l.mu.Lock()
	for _, existing := range l.sales {
		if existing.ID == sale.ID {
			l.mu.Unlock()
			return fmt.Errorf("%w: %s", ErrDuplicateSale, sale.ID)
		}
	}
	l.sales = append([]models.Sale{sale}, l.sales...)
	l.version++
	snapshot, version := models.CloneSales(l.sales), l.version
	l.mu.Unlock()

	l.logger.Info("sale recorded",
		zap.String("sale_id", sale.ID),
		zap.String("payment_method", sale.PaymentMethod.String()),
		zap.String("status", sale.Status.String()),
		zap.String("total", sale.Total.StringFixed(2)))

	l.save(ctx, snapshot, version)
	for _, hook := range l.hooks {
		hook.SaleRecorded(ctx, sale.Clone())
	}
	return nil
}

// Settle marks a pending sale as paid with the method actually collected.
// An unknown id is a no-op and reports false.
func (l *Ledger) Settle(ctx context.Context, id string, method models.PaymentMethod) (models.Sale, bool, error) {
	if !method.IsValid() || method.IsDeferred() {
		return models.Sale{}, false, fmt.Errorf("%w: %q", ErrInvalidSettlementMethod, method)
	}

	l.mu.Lock()
	idx := l.indexOf(id)
	if idx < 0 {
		l.mu.Unlock()
		l.logger.Debug("settle ignored, sale not found", zap.String("sale_id", id))
		return models.Sale{}, false, nil
	}
	if !l.sales[idx].IsPending() {
		l.mu.Unlock()
		return models.Sale{}, false, fmt.Errorf("%w: %s", ErrAlreadySettled, id)
	}

	l.sales[idx].Status = models.SaleStatusPaid
	l.sales[idx].PaymentMethod = method
	settled := l.sales[idx].Clone()
	l.version++
	snapshot, version := models.CloneSales(l.sales), l.version
	l.mu.Unlock()

	l.logger.Info("sale settled",
		zap.String("sale_id", id),
		zap.String("payment_method", method.String()),
		zap.String("total", settled.Total.StringFixed(2)))

	l.save(ctx, snapshot, version)
	for _, hook := range l.hooks {
		hook.SaleSettled(ctx, settled.Clone())
	}
	return settled, true, nil
}

// Sales returns every sale, most recent first.
func (l *Ledger) Sales() []models.Sale {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return models.CloneSales(l.sales)
}

// Sale looks up a sale by id.
func (l *Ledger) Sale(id string) (models.Sale, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if idx := l.indexOf(id); idx >= 0 {
		return l.sales[idx].Clone(), true
	}
	return models.Sale{}, false
}

// Pending returns the sales awaiting collection, most recent first.
func (l *Ledger) Pending() []models.Sale {
	return l.filter(0, func(s models.Sale) bool { return s.IsPending() })
}

// PendingCount returns how many sales await collection.
func (l *Ledger) PendingCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	count := 0
	for _, s := range l.sales {
		if s.IsPending() {
			count++
		}
	}
	return count
}

// RecentPaid returns up to limit paid sales that were not deferred.
func (l *Ledger) RecentPaid(limit int) []models.Sale {
	return l.filter(limit, func(s models.Sale) bool {
		return s.Status == models.SaleStatusPaid && !s.PaymentMethod.IsDeferred()
	})
}

// Len returns the number of recorded sales.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.sales)
}

func (l *Ledger) filter(limit int, keep func(models.Sale) bool) []models.Sale {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]models.Sale, 0)
	for _, s := range l.sales {
		if !keep(s) {
			continue
		}
		out = append(out, s.Clone())
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func (l *Ledger) indexOf(id string) int {
	for i := range l.sales {
		if l.sales[i].ID == id {
			return i
		}
	}
	return -1
}

// save writes the snapshot taken at version unless a newer one was already
// written.
func (l *Ledger) save(ctx context.Context, sales []models.Sale, version uint64) {
	if l.writer == nil {
		return
	}
	l.saveMu.Lock()
	defer l.saveMu.Unlock()
	if version <= l.savedUpTo {
		l.logger.Debug("stale sales snapshot skipped", zap.Uint64("version", version))
		return
	}
	l.writer.SaveSales(ctx, sales)
	l.savedUpTo = version
}
