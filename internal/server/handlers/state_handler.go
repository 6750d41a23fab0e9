package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/acai-manager/internal/domain/models"
)

// StateSource assembles the full application state.
type StateSource interface {
	Products() []models.Product
	Fees() []models.DeliveryFee
}

// SalesLister returns the ledger, most recent first.
type SalesLister interface {
	Sales() []models.Sale
}

// StateHandler exposes whole-state and enum lookups for the front end.
type StateHandler struct {
	catalog StateSource
	ledger  SalesLister
}

// NewStateHandler constructs the state HTTP adapter.
func NewStateHandler(catalog StateSource, ledger SalesLister) *StateHandler {
	return &StateHandler{catalog: catalog, ledger: ledger}
}

// State returns products, delivery fees and sales in one document.
func (h *StateHandler) State(c *gin.Context) {
	state := models.AppState{
		Products:     h.catalog.Products(),
		DeliveryFees: h.catalog.Fees(),
		Sales:        nonNil(h.ledger.Sales()),
	}
	if state.Products == nil {
		state.Products = []models.Product{}
	}
	if state.DeliveryFees == nil {
		state.DeliveryFees = []models.DeliveryFee{}
	}
	c.JSON(http.StatusOK, state)
}

// Enums returns every enum value with its display label.
func (h *StateHandler) Enums(c *gin.Context) {
	c.JSON(http.StatusOK, models.Enums())
}
