package models

import "github.com/shopspring/decimal"

// LineKind tags how a cart line derives its total.
type LineKind string

const (
	// LinePriced lines cost quantity * product price.
	LinePriced LineKind = "PRICED"
	// LineValueEntered lines carry the amount typed by the operator as their total.
	LineValueEntered LineKind = "VALUE_ENTERED"
)

// CartItem is one line of an in-progress or finalized sale. Product is a
// snapshot, never a reference into the catalog.
type CartItem struct {
	Kind       LineKind        `json:"kind" bson:"kind"`
	Product    Product         `json:"product" bson:"product"`
	Quantity   decimal.Decimal `json:"quantity" bson:"quantity"`
	TotalValue decimal.Decimal `json:"totalValue" bson:"total_value"`
}

// NewPricedItem builds a line whose total follows the product price.
func NewPricedItem(product Product, quantity decimal.Decimal) CartItem {
	return CartItem{Kind: LinePriced, Product: product, Quantity: quantity}
}

// NewValueEnteredItem builds a weight line from the amount the operator typed.
func NewValueEnteredItem(product Product, weight, amount decimal.Decimal) CartItem {
	return CartItem{Kind: LineValueEntered, Product: product, Quantity: weight, TotalValue: amount}
}

// Total returns the line total.
func (i CartItem) Total() decimal.Decimal {
	if i.LineKind() == LineValueEntered {
		return i.TotalValue
	}
	return i.Quantity.Mul(i.Product.Price)
}

// LineKind returns Kind, inferring it for lines stored without one: a line
// carrying a total value was entered by value.
func (i CartItem) LineKind() LineKind {
	if i.Kind != "" {
		return i.Kind
	}
	if !i.TotalValue.IsZero() {
		return LineValueEntered
	}
	return LinePriced
}

// NormalizeItems fills in the kind of lines stored without one.
func NormalizeItems(items []CartItem) {
	for idx := range items {
		items[idx].Kind = items[idx].LineKind()
	}
}

// SumItems adds up the totals of every line.
func SumItems(items []CartItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.Total())
	}
	return sum
}

// CloneItems copies the lines so the result shares nothing with the input.
func CloneItems(items []CartItem) []CartItem {
	if items == nil {
		return nil
	}
	out := make([]CartItem, len(items))
	copy(out, items)
	return out
}
