package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/acai-manager/internal/domain/models"
)

// ErrCannotFinalize wraps every finalization refusal.
var ErrCannotFinalize = errors.New("cannot finalize sale")

// Finalization refusals, checked in this order.
var (
	ErrEmptyCart             = fmt.Errorf("%w: cart is empty", ErrCannotFinalize)
	ErrPaymentMethodRequired = fmt.Errorf("%w: payment method not selected", ErrCannotFinalize)
	ErrDeliveryTypeRequired  = fmt.Errorf("%w: delivery type not selected", ErrCannotFinalize)
	ErrDeliveryFeeRequired   = fmt.Errorf("%w: delivery requires a region fee", ErrCannotFinalize)
	ErrCustomerNameRequired  = fmt.Errorf("%w: deferred payment requires a customer name", ErrCannotFinalize)
)

// Selection holds the payment and delivery choices of the sale in progress.
type Selection struct {
	PaymentMethod models.PaymentMethod `json:"paymentMethod,omitempty"`
	DeliveryType  models.DeliveryType  `json:"deliveryType,omitempty"`
	Fee           *models.DeliveryFee  `json:"fee,omitempty"`
	CustomerName  string               `json:"customerName,omitempty"`
}

// DeliveryValue is the fee charged for the current choices.
func (s Selection) DeliveryValue() decimal.Decimal {
	if s.DeliveryType == models.DeliveryTypeDelivery && s.Fee != nil {
		return s.Fee.Value
	}
	return decimal.Zero
}

// Validate checks the finalization preconditions in order.
func (s Selection) Validate(lines int) error {
	switch {
	case lines == 0:
		return ErrEmptyCart
	case !s.PaymentMethod.IsValid():
		return ErrPaymentMethodRequired
	case !s.DeliveryType.IsValid():
		return ErrDeliveryTypeRequired
	case s.DeliveryType == models.DeliveryTypeDelivery && s.Fee == nil:
		return ErrDeliveryFeeRequired
	case s.PaymentMethod.IsDeferred() && strings.TrimSpace(s.CustomerName) == "":
		return ErrCustomerNameRequired
	}
	return nil
}

// Recorder stores finalized sales.
type Recorder interface {
	Append(ctx context.Context, sale models.Sale) error
}

// Engine validates a cart and its selection and materializes the Sale.
type Engine struct {
	recorder Recorder
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

// NewEngine wires a finalization engine writing into recorder.
func NewEngine(recorder Recorder, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		recorder: recorder,
		logger:   logger,
		now:      time.Now,
		newID:    newSaleID,
	}
}

// Finalize builds the sale and records it. Nothing is recorded on error.
func (e *Engine) Finalize(ctx context.Context, items []models.CartItem, sel Selection) (models.Sale, error) {
	if err := sel.Validate(len(items)); err != nil {
		e.logger.Debug("finalization refused", zap.Error(err))
		return models.Sale{}, err
	}

	subtotal := models.SumItems(items)
	deliveryValue := sel.DeliveryValue()

	sale := models.Sale{
		ID:            e.newID(),
		Items:         models.CloneItems(items),
		Subtotal:      subtotal,
		DeliveryFee:   deliveryValue,
		Total:         subtotal.Add(deliveryValue),
		PaymentMethod: sel.PaymentMethod,
		DeliveryType:  sel.DeliveryType,
		Timestamp:     e.now(),
		Status:        models.InitialStatus(sel.PaymentMethod),
	}
	if sel.DeliveryType == models.DeliveryTypeDelivery {
		sale.Region = sel.Fee.Region
	}
	if sel.PaymentMethod.IsDeferred() {
		sale.CustomerName = strings.TrimSpace(sel.CustomerName)
	}

	if err := e.recorder.Append(ctx, sale); err != nil {
		return models.Sale{}, fmt.Errorf("record sale: %w", err)
	}
	return sale, nil
}

func newSaleID() string {
	return "V-" + uuid.Must(uuid.NewV7()).String()
}
