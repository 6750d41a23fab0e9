package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/acai-manager/internal/domain/models"
	"github.com/mamadbah2/acai-manager/internal/repository"
)

// Collection keys under which each snapshot is stored.
const (
	ProductsKey     = "acai_products"
	DeliveryFeesKey = "acai_deliveryFees"
	SalesKey        = "acai_sales"
)

const defaultSaveTimeout = 5 * time.Second

// Backend is a key/value store holding one JSON document per collection.
type Backend interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
}

// FailureRecorder is notified whenever a load or save fails.
type FailureRecorder interface {
	PersistenceFailed(key, op string)
}

// Snapshotter reads and writes whole collections as JSON arrays. Loads fall
// back to the provided defaults and saves never surface an error to callers.
type Snapshotter struct {
	backend     Backend
	logger      *zap.Logger
	failures    FailureRecorder
	saveTimeout time.Duration
}

// Option customizes a Snapshotter.
type Option func(*Snapshotter)

// WithFailureRecorder reports failed operations to recorder.
func WithFailureRecorder(recorder FailureRecorder) Option {
	return func(s *Snapshotter) {
		s.failures = recorder
	}
}

// WithSaveTimeout bounds every save call.
func WithSaveTimeout(timeout time.Duration) Option {
	return func(s *Snapshotter) {
		if timeout > 0 {
			s.saveTimeout = timeout
		}
	}
}

// NewSnapshotter wires a snapshotter on top of backend.
func NewSnapshotter(backend Backend, logger *zap.Logger, opts ...Option) *Snapshotter {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Snapshotter{backend: backend, logger: logger, saveTimeout: defaultSaveTimeout}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadState restores the three collections, substituting the defaults for any
// collection that is missing or unreadable.
func (s *Snapshotter) LoadState(ctx context.Context, products []models.Product, fees []models.DeliveryFee) models.AppState {
	sales := load(ctx, s, SalesKey, []models.Sale{})
	for i := range sales {
		models.NormalizeItems(sales[i].Items)
	}
	return models.AppState{
		Products:     load(ctx, s, ProductsKey, products),
		DeliveryFees: load(ctx, s, DeliveryFeesKey, fees),
		Sales:        sales,
	}
}

// SaveProducts persists the full product catalog.
func (s *Snapshotter) SaveProducts(ctx context.Context, products []models.Product) {
	s.save(ctx, ProductsKey, products)
}

// SaveFees persists the full delivery fee table.
func (s *Snapshotter) SaveFees(ctx context.Context, fees []models.DeliveryFee) {
	s.save(ctx, DeliveryFeesKey, fees)
}

// SaveSales persists the full ledger.
func (s *Snapshotter) SaveSales(ctx context.Context, sales []models.Sale) {
	s.save(ctx, SalesKey, sales)
}

func load[T any](ctx context.Context, s *Snapshotter, key string, fallback []T) []T {
	raw, err := s.backend.Load(ctx, key)
	if errors.Is(err, repository.ErrNotFound) {
		s.logger.Debug("no snapshot stored, using defaults", zap.String("key", key))
		return fallback
	}
	if err != nil {
		s.logger.Error("failed to load snapshot, using defaults", zap.String("key", key), zap.Error(err))
		s.recordFailure(key, "load")
		return fallback
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		s.logger.Error("corrupt snapshot, using defaults", zap.String("key", key), zap.Error(err))
		s.recordFailure(key, "decode")
		return fallback
	}
	if out == nil {
		return fallback
	}
	return out
}

func (s *Snapshotter) save(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		s.logger.Error("failed to encode snapshot", zap.String("key", key), zap.Error(err))
		s.recordFailure(key, "encode")
		return
	}
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.saveTimeout)
	defer cancel()
	if err := s.backend.Save(saveCtx, key, raw); err != nil {
		s.logger.Error("failed to save snapshot", zap.String("key", key), zap.Error(err))
		s.recordFailure(key, "save")
	}
}

func (s *Snapshotter) recordFailure(key, op string) {
	if s.failures != nil {
		s.failures.PersistenceFailed(key, op)
	}
}
