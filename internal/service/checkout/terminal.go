package checkout

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/acai-manager/internal/domain/models"
	"github.com/mamadbah2/acai-manager/internal/service/cart"
)

var (
	// ErrUnknownProduct is returned when selecting a product id missing from the catalog.
	ErrUnknownProduct = errors.New("unknown product")
	// ErrUnknownFee is returned when choosing a delivery fee id missing from the catalog.
	ErrUnknownFee = errors.New("unknown delivery fee")
)

// Catalog is the read side of the catalog store used by the terminal.
type Catalog interface {
	Product(id string) (models.Product, bool)
	Fee(id string) (models.DeliveryFee, bool)
}

// View is what the POS screen shows for the sale in progress.
type View struct {
	Items         []models.CartItem `json:"items"`
	Subtotal      decimal.Decimal   `json:"subtotal"`
	DeliveryValue decimal.Decimal   `json:"deliveryValue"`
	Total         decimal.Decimal   `json:"total"`
	Selection     Selection         `json:"selection"`
	Pending       *cart.Entry       `json:"pendingEntry,omitempty"`
}

// SelectionRequest carries the operator's payment and delivery choices.
type SelectionRequest struct {
	PaymentMethod models.PaymentMethod
	DeliveryType  models.DeliveryType
	FeeID         string
	CustomerName  string
}

// Terminal is the single POS session: one cart plus its selection.
type Terminal struct {
	mu        sync.Mutex
	cart      *cart.Cart
	selection Selection
	catalog   Catalog
	engine    *Engine
	logger    *zap.Logger
}

// NewTerminal wires a terminal session around the catalog and the engine.
func NewTerminal(catalog Catalog, engine *Engine, logger *zap.Logger) *Terminal {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Terminal{
		cart:    cart.New(),
		catalog: catalog,
		engine:  engine,
		logger:  logger,
	}
}

// View returns the current cart, totals and selection.
func (t *Terminal) View() View {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.viewLocked()
}

// SelectProduct adds a UNIT product or opens the value entry of a WEIGHT product.
func (t *Terminal) SelectProduct(productID string) (View, error) {
	product, ok := t.catalog.Product(productID)
	if !ok {
		return View{}, ErrUnknownProduct
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.cart.SelectProduct(product)
	return t.viewLocked(), nil
}

// AddUnits adds quantity units of a UNIT product in one step.
func (t *Terminal) AddUnits(productID string, quantity int) (View, error) {
	product, ok := t.catalog.Product(productID)
	if !ok || product.IsWeighed() {
		return View{}, ErrUnknownProduct
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for i := 0; i < quantity; i++ {
		t.cart.SelectProduct(product)
	}
	return t.viewLocked(), nil
}

// AddWeighed opens, fills and confirms a value entry for a WEIGHT product.
// Any entry already open is replaced.
func (t *Terminal) AddWeighed(productID string, digits string) (View, error) {
	product, ok := t.catalog.Product(productID)
	if !ok || !product.IsWeighed() {
		return View{}, ErrUnknownProduct
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.cart.SelectProduct(product)
	if _, err := t.cart.EnterValue(digits); err != nil {
		return View{}, err
	}
	if _, err := t.cart.ConfirmValue(); err != nil {
		t.cart.CancelValue()
		return View{}, err
	}
	return t.viewLocked(), nil
}

// EnterValue updates the digits of the open value entry.
func (t *Terminal) EnterValue(raw string) (View, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := t.cart.EnterValue(raw); err != nil {
		return View{}, err
	}
	return t.viewLocked(), nil
}

// ConfirmValue appends the open value entry to the cart.
func (t *Terminal) ConfirmValue() (View, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := t.cart.ConfirmValue(); err != nil {
		return View{}, err
	}
	return t.viewLocked(), nil
}

// CancelValue discards the open value entry.
func (t *Terminal) CancelValue() View {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cart.CancelValue()
	return t.viewLocked()
}

// UpdateQuantity changes a UNIT line by delta.
func (t *Terminal) UpdateQuantity(index, delta int) View {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cart.UpdateQuantity(index, delta)
	return t.viewLocked()
}

// RemoveLine drops a cart line.
func (t *Terminal) RemoveLine(index int) View {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cart.RemoveLine(index)
	return t.viewLocked()
}

// Clear empties the cart and resets the selection.
func (t *Terminal) Clear() View {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cart.Clear()
	t.selection = Selection{}
	return t.viewLocked()
}

// Select replaces the payment and delivery choices.
func (t *Terminal) Select(req SelectionRequest) (View, error) {
	sel := Selection{
		PaymentMethod: req.PaymentMethod,
		DeliveryType:  req.DeliveryType,
		CustomerName:  req.CustomerName,
	}
	if req.FeeID != "" {
		fee, ok := t.catalog.Fee(req.FeeID)
		if !ok {
			return View{}, ErrUnknownFee
		}
		sel.Fee = &fee
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.selection = sel
	return t.viewLocked(), nil
}

// Finalize validates and records the sale, then resets the session. A refused
// finalization leaves the cart and selection as they were.
func (t *Terminal) Finalize(ctx context.Context) (models.Sale, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	sale, err := t.engine.Finalize(ctx, t.cart.Items(), t.selection)
	if err != nil {
		return models.Sale{}, err
	}

	t.cart.Clear()
	t.selection = Selection{}
	t.logger.Info("sale finalized", zap.String("sale_id", sale.ID), zap.Int("lines", len(sale.Items)))
	return sale, nil
}

func (t *Terminal) viewLocked() View {
	subtotal := t.cart.Subtotal()
	deliveryValue := t.selection.DeliveryValue()
	view := View{
		Items:         t.cart.Items(),
		Subtotal:      subtotal,
		DeliveryValue: deliveryValue,
		Total:         subtotal.Add(deliveryValue),
		Selection:     t.selection,
	}
	if entry, ok := t.cart.Pending(); ok {
		view.Pending = &entry
	}
	return view
}
