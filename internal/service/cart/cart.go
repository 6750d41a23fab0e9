package cart

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/acai-manager/internal/domain/models"
)

var (
	// ErrNoPendingEntry is returned when confirming with no weight entry open.
	ErrNoPendingEntry = errors.New("no value entry in progress")
	// ErrZeroValue is returned when a weight entry carries no amount.
	ErrZeroValue = errors.New("value entry must be greater than zero")
	// ErrInvalidPricePerKg is returned when a weighed product cannot derive a weight.
	ErrInvalidPricePerKg = errors.New("weighed product must have a positive price per kg")
)

var hundred = decimal.NewFromInt(100)

// Entry is the value-entry step opened by selecting a weighed product. The
// operator types the amount in cents.
type Entry struct {
	Product models.Product `json:"product"`
	Digits  string         `json:"digits"`
}

// Amount converts the typed cents into a currency amount.
func (e Entry) Amount() decimal.Decimal {
	cents, err := decimal.NewFromString(e.Digits)
	if err != nil {
		return decimal.Zero
	}
	return cents.Div(hundred)
}

// Cart is the working set of one sale in progress. It is not safe for
// concurrent use; the checkout terminal serializes access.
type Cart struct {
	items   []models.CartItem
	pending *Entry
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// SelectProduct adds one unit of a UNIT product, merging into its existing
// line. A WEIGHT product opens a value entry instead and reports true.
// Selecting a UNIT product abandons any open value entry.
func (c *Cart) SelectProduct(product models.Product) (awaitingValue bool) {
	if product.IsWeighed() {
		c.pending = &Entry{Product: product, Digits: "0"}
		return true
	}
	c.pending = nil

	for i := range c.items {
		item := &c.items[i]
		if item.Kind == models.LinePriced && item.Product.ID == product.ID && !item.Product.IsWeighed() {
			item.Quantity = item.Quantity.Add(decimal.NewFromInt(1))
			return false
		}
	}

	c.items = append(c.items, models.NewPricedItem(product, decimal.NewFromInt(1)))
	return false
}

// Pending returns the open value entry, if any.
func (c *Cart) Pending() (Entry, bool) {
	if c.pending == nil {
		return Entry{}, false
	}
	return *c.pending, true
}

// EnterValue replaces the typed amount of the open entry. Non-digits are
// dropped, leading zeros stripped, and empty input becomes "0".
func (c *Cart) EnterValue(raw string) (string, error) {
	if c.pending == nil {
		return "", ErrNoPendingEntry
	}
	c.pending.Digits = SanitizeDigits(raw)
	return c.pending.Digits, nil
}

// ConfirmValue turns the open entry into a cart line. On error the cart and
// the entry are left untouched.
func (c *Cart) ConfirmValue() (models.CartItem, error) {
	if c.pending == nil {
		return models.CartItem{}, ErrNoPendingEntry
	}
	if c.pending.Digits == "" || c.pending.Digits == "0" {
		return models.CartItem{}, ErrZeroValue
	}
	pricePerKg := c.pending.Product.Price
	if !pricePerKg.IsPositive() {
		return models.CartItem{}, ErrInvalidPricePerKg
	}

	amount := c.pending.Amount()
	weight := amount.Div(pricePerKg)
	item := models.NewValueEnteredItem(c.pending.Product, weight, amount)

	c.items = append(c.items, item)
	c.pending = nil
	return item, nil
}

// CancelValue discards the open entry without touching the cart.
func (c *Cart) CancelValue() {
	c.pending = nil
}

// UpdateQuantity adds delta units to a UNIT line. Weighed lines ignore it.
// Reaching zero removes the line.
func (c *Cart) UpdateQuantity(index int, delta int) {
	if index < 0 || index >= len(c.items) {
		return
	}
	item := &c.items[index]
	if item.Kind == models.LineValueEntered || item.Product.IsWeighed() {
		return
	}

	next := decimal.Max(decimal.Zero, item.Quantity.Add(decimal.NewFromInt(int64(delta))))
	if next.IsZero() {
		c.RemoveLine(index)
		return
	}
	item.Quantity = next
}

// RemoveLine drops a line unconditionally.
func (c *Cart) RemoveLine(index int) {
	if index < 0 || index >= len(c.items) {
		return
	}
	c.items = append(c.items[:index:index], c.items[index+1:]...)
}

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []models.CartItem {
	return models.CloneItems(c.items)
}

// Len returns the number of lines.
func (c *Cart) Len() int {
	return len(c.items)
}

// Subtotal sums every line total. It is recomputed on each call.
func (c *Cart) Subtotal() decimal.Decimal {
	return models.SumItems(c.items)
}

// Clear empties the cart and discards any open entry.
func (c *Cart) Clear() {
	c.items = nil
	c.pending = nil
}

// SanitizeDigits normalizes raw keypad input into a cents digit string.
func SanitizeDigits(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := strings.TrimLeft(b.String(), "0")
	if digits == "" {
		return "0"
	}
	return digits
}
