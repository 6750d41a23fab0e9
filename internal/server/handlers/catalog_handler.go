package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/acai-manager/internal/domain/models"
)

// CatalogService is the product and delivery fee store.
type CatalogService interface {
	Search(query string, category models.Category) []models.Product
	AddProduct(ctx context.Context, name string, price decimal.Decimal, category models.Category, unitType models.UnitType) (models.Product, error)
	RemoveProduct(ctx context.Context, id string)
	SetProductPrice(ctx context.Context, id string, price decimal.Decimal) (models.Product, bool)
	AdjustProductPrice(ctx context.Context, id string, delta decimal.Decimal) (models.Product, bool)
	Fees() []models.DeliveryFee
	AddFee(ctx context.Context, region string, value decimal.Decimal) (models.DeliveryFee, error)
	RemoveFee(ctx context.Context, id string)
}

// CatalogHandler exposes menu and delivery fee maintenance.
type CatalogHandler struct {
	svc    CatalogService
	logger *zap.Logger
}

// NewCatalogHandler constructs the catalog HTTP adapter.
func NewCatalogHandler(svc CatalogService, logger *zap.Logger) *CatalogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogHandler{svc: svc, logger: logger}
}

type createProductRequest struct {
	Name     string          `json:"name" binding:"required,max=80"`
	Price    decimal.Decimal `json:"price" binding:"gte=0"`
	Category string          `json:"category" binding:"required,category"`
	UnitType string          `json:"unitType" binding:"required,unit_type"`
}

type priceRequest struct {
	Price decimal.Decimal `json:"price"`
}

type adjustPriceRequest struct {
	Delta decimal.Decimal `json:"delta"`
}

type createFeeRequest struct {
	Region string          `json:"region" binding:"required,max=80"`
	Value  decimal.Decimal `json:"value" binding:"gte=0"`
}

// ListProducts returns the menu, optionally filtered by ?q= and ?category=.
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	category := models.Category(c.Query("category"))
	if category != "" && !category.IsValid() {
		respondError(c, h.logger, invalidField("category", "is not a known category"))
		return
	}
	c.JSON(http.StatusOK, h.svc.Search(c.Query("q"), category))
}

// CreateProduct registers a new menu item.
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}

	product, err := h.svc.AddProduct(c.Request.Context(), req.Name, req.Price, models.Category(req.Category), models.UnitType(req.UnitType))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// SetPrice replaces a product price; negatives are clamped to zero.
func (h *CatalogHandler) SetPrice(c *gin.Context) {
	var req priceRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	product, ok := h.svc.SetProductPrice(c.Request.Context(), c.Param("id"), req.Price)
	h.respondProduct(c, product, ok)
}

// AdjustPrice nudges a product price by delta.
func (h *CatalogHandler) AdjustPrice(c *gin.Context) {
	var req adjustPriceRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	product, ok := h.svc.AdjustProductPrice(c.Request.Context(), c.Param("id"), req.Delta)
	h.respondProduct(c, product, ok)
}

// DeleteProduct removes a product. Unknown ids succeed silently.
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	h.svc.RemoveProduct(c.Request.Context(), c.Param("id"))
	c.Status(http.StatusNoContent)
}

// ListFees returns the delivery fee table.
func (h *CatalogHandler) ListFees(c *gin.Context) {
	fees := h.svc.Fees()
	if fees == nil {
		fees = []models.DeliveryFee{}
	}
	c.JSON(http.StatusOK, fees)
}

// CreateFee registers a delivery region.
func (h *CatalogHandler) CreateFee(c *gin.Context) {
	var req createFeeRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}

	fee, err := h.svc.AddFee(c.Request.Context(), req.Region, req.Value)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, fee)
}

// DeleteFee removes a delivery region. Unknown ids succeed silently.
func (h *CatalogHandler) DeleteFee(c *gin.Context) {
	h.svc.RemoveFee(c.Request.Context(), c.Param("id"))
	c.Status(http.StatusNoContent)
}

// Unknown ids on price updates are no-ops, answered with 204.
func (h *CatalogHandler) respondProduct(c *gin.Context, product models.Product, ok bool) {
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, product)
}
