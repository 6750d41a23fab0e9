package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/acai-manager/internal/domain/models"
)

// ErrInvalidProduct indicates a registration payload that would break catalog invariants.
var ErrInvalidProduct = errors.New("invalid product")

// ErrInvalidFee indicates a delivery fee registration that would break catalog invariants.
var ErrInvalidFee = errors.New("invalid delivery fee")

// Writer persists catalog collections after each mutation. Implementations
// own their failures; the catalog never sees them.
type Writer interface {
	SaveProducts(ctx context.Context, products []models.Product)
	SaveFees(ctx context.Context, fees []models.DeliveryFee)
}

// Store owns the product menu and the delivery fee table.
type Store struct {
	mu              sync.RWMutex
	products        []models.Product
	fees            []models.DeliveryFee
	productsVersion uint64
	feesVersion     uint64

	productSaves orderedSaves
	feeSaves     orderedSaves

	writer Writer
	logger *zap.Logger
	newID  func() string
}

// NewStore wires a catalog around previously loaded collections.
func NewStore(products []models.Product, fees []models.DeliveryFee, writer Writer, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		products: append([]models.Product(nil), products...),
		fees:     append([]models.DeliveryFee(nil), fees...),
		writer:   writer,
		logger:   logger,
		newID:    func() string { return uuid.Must(uuid.NewV7()).String() },
	}
}

// Products returns a copy of the menu in registration order.
func (s *Store) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Product(nil), s.products...)
}

// Product looks up a product by id.
func (s *Store) Product(id string) (models.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

// Search filters the menu by a case-insensitive name fragment and an optional category.
func (s *Store) Search(query string, category models.Category) []models.Product {
	needle := strings.ToLower(strings.TrimSpace(query))

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		if needle != "" && !strings.Contains(strings.ToLower(p.Name), needle) {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}
		out = append(out, p)
	}
	return out
}

// AddProduct registers a new menu item with a fresh id.
func (s *Store) AddProduct(ctx context.Context, name string, price decimal.Decimal, category models.Category, unitType models.UnitType) (models.Product, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return models.Product{}, fmt.Errorf("%w: name is required", ErrInvalidProduct)
	case price.IsNegative():
		return models.Product{}, fmt.Errorf("%w: price must not be negative", ErrInvalidProduct)
	case !category.IsValid():
		return models.Product{}, fmt.Errorf("%w: unknown category", ErrInvalidProduct)
	case !unitType.IsValid():
		return models.Product{}, fmt.Errorf("%w: unknown unit type", ErrInvalidProduct)
	}

	product := models.Product{
		ID:       s.newID(),
		Name:     name,
		Price:    price,
		Category: category,
		UnitType: unitType,
	}

	s.mu.Lock()
	s.products = append(s.products, product)
	s.productsVersion++
	snapshot, version := append([]models.Product(nil), s.products...), s.productsVersion
	s.mu.Unlock()

	s.logger.Info("product registered", zap.String("id", product.ID), zap.String("name", product.Name))
	s.saveProducts(ctx, snapshot, version)
	return product, nil
}

// RemoveProduct deletes a product. Unknown ids are ignored.
func (s *Store) RemoveProduct(ctx context.Context, id string) {
	s.mu.Lock()
	kept := s.products[:0:0]
	for _, p := range s.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	removed := len(kept) != len(s.products)
	s.products = kept
	s.productsVersion++
	snapshot, version := append([]models.Product(nil), s.products...), s.productsVersion
	s.mu.Unlock()

	if !removed {
		s.logger.Debug("remove product ignored, id not found", zap.String("id", id))
		return
	}
	s.saveProducts(ctx, snapshot, version)
}

// SetProductPrice replaces the price of a product, clamping at zero.
func (s *Store) SetProductPrice(ctx context.Context, id string, price decimal.Decimal) (models.Product, bool) {
	return s.updatePrice(ctx, id, func(decimal.Decimal) decimal.Decimal { return price })
}

// AdjustProductPrice nudges a price by delta, clamping at zero.
func (s *Store) AdjustProductPrice(ctx context.Context, id string, delta decimal.Decimal) (models.Product, bool) {
	return s.updatePrice(ctx, id, func(current decimal.Decimal) decimal.Decimal { return current.Add(delta) })
}

func (s *Store) updatePrice(ctx context.Context, id string, next func(decimal.Decimal) decimal.Decimal) (models.Product, bool) {
	s.mu.Lock()
	var (
		updated models.Product
		found   bool
	)
	for i := range s.products {
		if s.products[i].ID != id {
			continue
		}
		s.products[i].Price = decimal.Max(decimal.Zero, next(s.products[i].Price))
		updated, found = s.products[i], true
	}
	s.productsVersion++
	snapshot, version := append([]models.Product(nil), s.products...), s.productsVersion
	s.mu.Unlock()

	if !found {
		s.logger.Debug("price update ignored, id not found", zap.String("id", id))
		return models.Product{}, false
	}

	s.logger.Info("product price updated", zap.String("id", id), zap.String("price", updated.Price.StringFixed(2)))
	s.saveProducts(ctx, snapshot, version)
	return updated, true
}

// Fees returns a copy of the delivery fee table.
func (s *Store) Fees() []models.DeliveryFee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.DeliveryFee(nil), s.fees...)
}

// Fee looks up a delivery fee by id.
func (s *Store) Fee(id string) (models.DeliveryFee, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.fees {
		if f.ID == id {
			return f, true
		}
	}
	return models.DeliveryFee{}, false
}

// AddFee registers a delivery region surcharge.
func (s *Store) AddFee(ctx context.Context, region string, value decimal.Decimal) (models.DeliveryFee, error) {
	region = strings.TrimSpace(region)
	if region == "" {
		return models.DeliveryFee{}, fmt.Errorf("%w: region is required", ErrInvalidFee)
	}
	if value.IsNegative() {
		return models.DeliveryFee{}, fmt.Errorf("%w: value must not be negative", ErrInvalidFee)
	}

	fee := models.DeliveryFee{ID: s.newID(), Region: region, Value: value}

	s.mu.Lock()
	s.fees = append(s.fees, fee)
	s.feesVersion++
	snapshot, version := append([]models.DeliveryFee(nil), s.fees...), s.feesVersion
	s.mu.Unlock()

	s.logger.Info("delivery fee registered", zap.String("id", fee.ID), zap.String("region", fee.Region))
	s.saveFees(ctx, snapshot, version)
	return fee, nil
}

// RemoveFee deletes a delivery fee. Unknown ids are ignored.
func (s *Store) RemoveFee(ctx context.Context, id string) {
	s.mu.Lock()
	kept := s.fees[:0:0]
	for _, f := range s.fees {
		if f.ID != id {
			kept = append(kept, f)
		}
	}
	removed := len(kept) != len(s.fees)
	s.fees = kept
	s.feesVersion++
	snapshot, version := append([]models.DeliveryFee(nil), s.fees...), s.feesVersion
	s.mu.Unlock()

	if !removed {
		s.logger.Debug("remove fee ignored, id not found", zap.String("id", id))
		return
	}
	s.saveFees(ctx, snapshot, version)
}

func (s *Store) saveProducts(ctx context.Context, products []models.Product, version uint64) {
	if s.writer == nil {
		return
	}
	s.productSaves.run(version, func() { s.writer.SaveProducts(ctx, products) })
}

func (s *Store) saveFees(ctx context.Context, fees []models.DeliveryFee, version uint64) {
	if s.writer == nil {
		return
	}
	s.feeSaves.run(version, func() { s.writer.SaveFees(ctx, fees) })
}

// orderedSaves serializes writes of one collection and drops snapshots older
// than the last one written.
type orderedSaves struct {
	mu        sync.Mutex
	savedUpTo uint64
}

func (o *orderedSaves) run(version uint64, save func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if version <= o.savedUpTo {
		return
	}
	save()
	o.savedUpTo = version
}
