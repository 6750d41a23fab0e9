package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/acai-manager/internal/domain/models"
	"github.com/mamadbah2/acai-manager/internal/service/checkout"
)

// Terminal is the POS session driven by the cashier screen.
type Terminal interface {
	View() checkout.View
	SelectProduct(productID string) (checkout.View, error)
	EnterValue(raw string) (checkout.View, error)
	ConfirmValue() (checkout.View, error)
	CancelValue() checkout.View
	UpdateQuantity(index, delta int) checkout.View
	RemoveLine(index int) checkout.View
	Clear() checkout.View
	Select(req checkout.SelectionRequest) (checkout.View, error)
	Finalize(ctx context.Context) (models.Sale, error)
}

// POSHandler exposes the cart and checkout flow.
type POSHandler struct {
	terminal Terminal
	logger   *zap.Logger
}

// NewPOSHandler constructs the POS HTTP adapter.
func NewPOSHandler(terminal Terminal, logger *zap.Logger) *POSHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &POSHandler{terminal: terminal, logger: logger}
}

type selectProductRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

type enterValueRequest struct {
	Digits string `json:"digits" binding:"max=9"`
}

type updateLineRequest struct {
	Delta int `json:"delta" binding:"required"`
}

type selectionRequest struct {
	PaymentMethod string `json:"paymentMethod" binding:"omitempty,payment_method"`
	DeliveryType  string `json:"deliveryType" binding:"omitempty,delivery_type"`
	FeeID         string `json:"feeId"`
	CustomerName  string `json:"customerName" binding:"max=80"`
}

type awaitingValueResponse struct {
	checkout.View
	AwaitingValue bool `json:"awaitingValue"`
}

// View returns the sale in progress.
func (h *POSHandler) View(c *gin.Context) {
	c.JSON(http.StatusOK, h.terminal.View())
}

// SelectProduct adds a UNIT product or opens the value entry of a WEIGHT one.
func (h *POSHandler) SelectProduct(c *gin.Context) {
	var req selectProductRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	view, err := h.terminal.SelectProduct(req.ProductID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, awaitingValueResponse{View: view, AwaitingValue: view.Pending != nil})
}

// EnterValue replaces the cents typed into the open value entry.
func (h *POSHandler) EnterValue(c *gin.Context) {
	var req enterValueRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	h.respond(c)(h.terminal.EnterValue(req.Digits))
}

// ConfirmValue turns the open value entry into a cart line.
func (h *POSHandler) ConfirmValue(c *gin.Context) {
	h.respond(c)(h.terminal.ConfirmValue())
}

// CancelValue discards the open value entry.
func (h *POSHandler) CancelValue(c *gin.Context) {
	c.JSON(http.StatusOK, h.terminal.CancelValue())
}

// UpdateLine changes the quantity of a UNIT line.
func (h *POSHandler) UpdateLine(c *gin.Context) {
	index, ok := indexParam(c, h.logger)
	if !ok {
		return
	}
	var req updateLineRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	c.JSON(http.StatusOK, h.terminal.UpdateQuantity(index, req.Delta))
}

// RemoveLine drops a cart line.
func (h *POSHandler) RemoveLine(c *gin.Context) {
	index, ok := indexParam(c, h.logger)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.terminal.RemoveLine(index))
}

// ClearCart empties the cart and resets the selection.
func (h *POSHandler) ClearCart(c *gin.Context) {
	c.JSON(http.StatusOK, h.terminal.Clear())
}

// SetSelection records the payment and delivery choices.
func (h *POSHandler) SetSelection(c *gin.Context) {
	var req selectionRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	h.respond(c)(h.terminal.Select(checkout.SelectionRequest{
		PaymentMethod: models.PaymentMethod(req.PaymentMethod),
		DeliveryType:  models.DeliveryType(req.DeliveryType),
		FeeID:         req.FeeID,
		CustomerName:  req.CustomerName,
	}))
}

// Finalize records the sale and resets the terminal.
func (h *POSHandler) Finalize(c *gin.Context) {
	sale, err := h.terminal.Finalize(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, sale)
}

func (h *POSHandler) respond(c *gin.Context) func(checkout.View, error) {
	return func(view checkout.View, err error) {
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}
