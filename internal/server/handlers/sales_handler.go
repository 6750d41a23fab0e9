package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/acai-manager/internal/domain/models"
	"github.com/mamadbah2/acai-manager/internal/service/receipt"
)

const (
	defaultRecentPaid = 10
	maxListLimit      = 500
)

// Ledger is the sale history.
type Ledger interface {
	Sales() []models.Sale
	Sale(id string) (models.Sale, bool)
	Pending() []models.Sale
	PendingCount() int
	RecentPaid(limit int) []models.Sale
	Settle(ctx context.Context, id string, method models.PaymentMethod) (models.Sale, bool, error)
}

// ReceiptRenderer prints a finalized sale.
type ReceiptRenderer interface {
	Render(sale models.Sale) string
}

// SalesHandler exposes the ledger, settlements and receipts.
type SalesHandler struct {
	ledger   Ledger
	receipts ReceiptRenderer
	logger   *zap.Logger
}

// NewSalesHandler constructs the sales HTTP adapter.
func NewSalesHandler(ledger Ledger, receipts ReceiptRenderer, logger *zap.Logger) *SalesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SalesHandler{ledger: ledger, receipts: receipts, logger: logger}
}

type settleRequest struct {
	PaymentMethod string `json:"paymentMethod" binding:"required,payment_method"`
}

type pendingResponse struct {
	Count int           `json:"count"`
	Sales []models.Sale `json:"sales"`
}

// List returns every sale, most recent first.
func (h *SalesHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, nonNil(h.ledger.Sales()))
}

// Pending returns the sales awaiting deferred payment.
func (h *SalesHandler) Pending(c *gin.Context) {
	c.JSON(http.StatusOK, pendingResponse{
		Count: h.ledger.PendingCount(),
		Sales: nonNil(h.ledger.Pending()),
	})
}

// RecentPaid lists the latest settled or immediately paid sales.
func (h *SalesHandler) RecentPaid(c *gin.Context) {
	limit, ok := limitQuery(c, h.logger, defaultRecentPaid, maxListLimit)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, nonNil(h.ledger.RecentPaid(limit)))
}

// Get returns one sale.
func (h *SalesHandler) Get(c *gin.Context) {
	sale, ok := h.ledger.Sale(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, errorResponse{Error: "sale not found"})
		return
	}
	c.JSON(http.StatusOK, sale)
}

// Receipt returns the printable receipt of a sale as plain text.
func (h *SalesHandler) Receipt(c *gin.Context) {
	sale, ok := h.ledger.Sale(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, errorResponse{Error: "sale not found"})
		return
	}
	if c.Query("download") == "true" {
		c.Header("Content-Disposition", `attachment; filename="`+receipt.Filename(sale)+`"`)
	}
	c.String(http.StatusOK, h.receipts.Render(sale))
}

// Settle collects a deferred sale with the given method. Unknown ids are a
// no-op answered with 204.
func (h *SalesHandler) Settle(c *gin.Context) {
	var req settleRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}

	sale, found, err := h.ledger.Settle(c.Request.Context(), c.Param("id"), models.PaymentMethod(req.PaymentMethod))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if !found {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, sale)
}

func nonNil(sales []models.Sale) []models.Sale {
	if sales == nil {
		return []models.Sale{}
	}
	return sales
}
