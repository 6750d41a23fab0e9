package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/acai-manager/internal/domain/models"
	"github.com/mamadbah2/acai-manager/internal/service/checkout"
	"github.com/mamadbah2/acai-manager/internal/service/reporting"
	"github.com/mamadbah2/acai-manager/internal/validation"
	"github.com/mamadbah2/acai-manager/pkg/clients/anthropic"
)

var (
	// ErrDisabled is returned when no assistant client is configured.
	ErrDisabled = errors.New("assistant is not configured")
	// ErrEmptyPrompt is returned for blank instructions.
	ErrEmptyPrompt = errors.New("prompt is required")
	// ErrMissingData is returned when an action needs a payload the reply lacks.
	ErrMissingData = errors.New("assistant reply has no data")
)

// Catalog is the subset of the catalog store the assistant can drive.
type Catalog interface {
	Products() []models.Product
	Product(id string) (models.Product, bool)
	Fees() []models.DeliveryFee
	AddProduct(ctx context.Context, name string, price decimal.Decimal, category models.Category, unitType models.UnitType) (models.Product, error)
	AddFee(ctx context.Context, region string, value decimal.Decimal) (models.DeliveryFee, error)
}

// Register is the POS terminal.
type Register interface {
	AddUnits(productID string, quantity int) (checkout.View, error)
	AddWeighed(productID string, digits string) (checkout.View, error)
}

// Reports answers summary queries.
type Reports interface {
	Summary(start, end string) (reporting.Summary, error)
	Today() reporting.Summary
}

// Result is what the operator sees after one instruction.
type Result struct {
	Reply   models.AssistantReply `json:"reply"`
	Applied bool                  `json:"applied"`
	Error   string                `json:"error,omitempty"`
	Product *models.Product       `json:"product,omitempty"`
	Fee     *models.DeliveryFee   `json:"fee,omitempty"`
	Cart    *checkout.View        `json:"cart,omitempty"`
	Summary *reporting.Summary    `json:"summary,omitempty"`
}

type addToCartData struct {
	ProductID   string          `json:"productId" validate:"required_without=ProductName"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity" validate:"gte=0,lte=50"`
	Value       decimal.Decimal `json:"value" validate:"gte=0"`
}

type registerProductData struct {
	Name     string          `json:"name" validate:"required,max=80"`
	Price    decimal.Decimal `json:"price" validate:"gte=0"`
	Category string          `json:"category" validate:"required,category"`
	UnitType string          `json:"unitType" validate:"required,unit_type"`
}

type registerFeeData struct {
	Region string          `json:"region" validate:"required,max=80"`
	Value  decimal.Decimal `json:"value" validate:"gte=0"`
}

type showReportData struct {
	Start string `json:"start" validate:"omitempty,datetime=2006-01-02"`
	End   string `json:"end" validate:"omitempty,datetime=2006-01-02"`
}

// Controller relays instructions to the assistant and applies the proposed
// action through the same operations the operator uses.
type Controller struct {
	client   anthropic.Client
	catalog  Catalog
	register Register
	reports  Reports
	history  *History
	logger   *zap.Logger
}

// NewController wires the assistant controller. A nil client disables it.
func NewController(client anthropic.Client, catalog Catalog, register Register, reports Reports, history *History, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	if history == nil {
		history = NewHistory(0)
	}
	return &Controller{
		client:   client,
		catalog:  catalog,
		register: register,
		reports:  reports,
		history:  history,
		logger:   logger,
	}
}

// Enabled reports whether an assistant client is configured.
func (c *Controller) Enabled() bool {
	return c.client != nil
}

// Handle sends prompt to the assistant and applies the returned action.
// Assistant and apply failures are reported inside the Result.
func (c *Controller) Handle(ctx context.Context, sessionID, prompt string) (Result, error) {
	if c.client == nil {
		return Result{}, ErrDisabled
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return Result{}, ErrEmptyPrompt
	}

	reply, err := c.client.Process(ctx, anthropic.Request{
		State: models.AppState{
			Products:     c.catalog.Products(),
			DeliveryFees: c.catalog.Fees(),
		},
		SalesToday: c.reports.Today().OrderCount,
		Prompt:     prompt,
		History:    c.history.Get(sessionID),
	})
	if err != nil {
		c.logger.Warn("assistant call failed", zap.Error(err))
		return Result{Reply: reply}, nil
	}
	c.history.Record(sessionID, prompt, reply.Message)

	return c.Apply(ctx, reply), nil
}

// Apply executes the mutation described by reply.
func (c *Controller) Apply(ctx context.Context, reply models.AssistantReply) Result {
	result := Result{Reply: reply}
	if reply.Action == models.ActionChatOnly || reply.Action == "" {
		return result
	}

	var err error
	switch reply.Action {
	case models.ActionAddToCart:
		err = c.addToCart(reply.Data, &result)
	case models.ActionRegisterProduct:
		err = c.registerProduct(ctx, reply.Data, &result)
	case models.ActionRegisterFee:
		err = c.registerFee(ctx, reply.Data, &result)
	case models.ActionShowReport:
		err = c.showReport(reply.Data, &result)
	default:
		err = fmt.Errorf("unsupported action %q", reply.Action)
	}

	if err != nil {
		c.logger.Warn("assistant action rejected", zap.String("action", string(reply.Action)), zap.Error(err))
		result.Error = err.Error()
		return result
	}
	result.Applied = true
	c.logger.Info("assistant action applied", zap.String("action", string(reply.Action)))
	return result
}

func (c *Controller) addToCart(data map[string]any, result *Result) error {
	var payload addToCartData
	if err := decode(data, &payload); err != nil {
		return err
	}

	product, ok := c.resolveProduct(payload)
	if !ok {
		return checkout.ErrUnknownProduct
	}

	var (
		view checkout.View
		err  error
	)
	if product.IsWeighed() {
		if !payload.Value.IsPositive() {
			return fmt.Errorf("%w: value must be positive for %s", validation.ErrInvalid, product.Name)
		}
		digits := payload.Value.Shift(2).Round(0).String()
		view, err = c.register.AddWeighed(product.ID, digits)
	} else {
		quantity := payload.Quantity
		if quantity == 0 {
			quantity = 1
		}
		view, err = c.register.AddUnits(product.ID, quantity)
	}
	if err != nil {
		return err
	}
	result.Cart = &view
	return nil
}

func (c *Controller) resolveProduct(payload addToCartData) (models.Product, bool) {
	if payload.ProductID != "" {
		return c.catalog.Product(payload.ProductID)
	}
	for _, product := range c.catalog.Products() {
		if strings.EqualFold(product.Name, strings.TrimSpace(payload.ProductName)) {
			return product, true
		}
	}
	return models.Product{}, false
}

func (c *Controller) registerProduct(ctx context.Context, data map[string]any, result *Result) error {
	var payload registerProductData
	if err := decode(data, &payload); err != nil {
		return err
	}
	product, err := c.catalog.AddProduct(ctx, payload.Name, payload.Price, models.Category(payload.Category), models.UnitType(payload.UnitType))
	if err != nil {
		return err
	}
	result.Product = &product
	return nil
}

func (c *Controller) registerFee(ctx context.Context, data map[string]any, result *Result) error {
	var payload registerFeeData
	if err := decode(data, &payload); err != nil {
		return err
	}
	fee, err := c.catalog.AddFee(ctx, payload.Region, payload.Value)
	if err != nil {
		return err
	}
	result.Fee = &fee
	return nil
}

func (c *Controller) showReport(data map[string]any, result *Result) error {
	var payload showReportData
	if data != nil {
		if err := decode(data, &payload); err != nil {
			return err
		}
	}
	summary, err := c.reports.Summary(payload.Start, payload.End)
	if err != nil {
		return err
	}
	result.Summary = &summary
	return nil
}

func decode(data map[string]any, dest any) error {
	if data == nil {
		return ErrMissingData
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode assistant data: %w", err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("%w: %v", validation.ErrInvalid, err)
	}
	return validation.Struct(dest)
}
