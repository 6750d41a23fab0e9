package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod describes how a sale was (or will be) paid.
type PaymentMethod string

const (
	PaymentMethodCredit    PaymentMethod = "CREDIT"
	PaymentMethodDebit     PaymentMethod = "DEBIT"
	PaymentMethodPix       PaymentMethod = "PIX"
	PaymentMethodCash      PaymentMethod = "CASH"
	PaymentMethodPosterior PaymentMethod = "POSTERIOR"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodCredit,
	PaymentMethodDebit,
	PaymentMethodPix,
	PaymentMethodCash,
	PaymentMethodPosterior,
}

// PaymentMethods returns every known method in display order.
func PaymentMethods() []PaymentMethod {
	return append([]PaymentMethod(nil), validPaymentMethods...)
}

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// IsDeferred reports whether the sale is collected later.
func (p PaymentMethod) IsDeferred() bool {
	return p == PaymentMethodPosterior
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}

// DeliveryType describes how the order leaves the shop.
type DeliveryType string

const (
	DeliveryTypeOnSite   DeliveryType = "ON_SITE"
	DeliveryTypePickup   DeliveryType = "PICKUP"
	DeliveryTypeDelivery DeliveryType = "DELIVERY"
)

var validDeliveryTypes = []DeliveryType{
	DeliveryTypeOnSite,
	DeliveryTypePickup,
	DeliveryTypeDelivery,
}

// DeliveryTypes returns every known delivery type.
func DeliveryTypes() []DeliveryType {
	return append([]DeliveryType(nil), validDeliveryTypes...)
}

// String implements fmt.Stringer.
func (d DeliveryType) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DeliveryType.
func (d DeliveryType) IsValid() bool {
	for _, candidate := range validDeliveryTypes {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDeliveryType converts raw input into a DeliveryType.
func ParseDeliveryType(value string) (DeliveryType, error) {
	for _, candidate := range validDeliveryTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery type %q", value)
}

// SaleStatus tracks whether the money has been collected.
type SaleStatus string

const (
	SaleStatusPaid    SaleStatus = "PAID"
	SaleStatusPending SaleStatus = "PENDING"
)

// String implements fmt.Stringer.
func (s SaleStatus) String() string {
	return string(s)
}

// InitialStatus returns the status a sale is born with for the given method.
func InitialStatus(method PaymentMethod) SaleStatus {
	if method.IsDeferred() {
		return SaleStatusPending
	}
	return SaleStatusPaid
}

// Sale is a finalized order. Only settlement mutates it after creation.
type Sale struct {
	ID            string          `json:"id" bson:"id"`
	Items         []CartItem      `json:"items" bson:"items"`
	Subtotal      decimal.Decimal `json:"subtotal" bson:"subtotal"`
	DeliveryFee   decimal.Decimal `json:"deliveryFee" bson:"delivery_fee"`
	Total         decimal.Decimal `json:"total" bson:"total"`
	PaymentMethod PaymentMethod   `json:"paymentMethod" bson:"payment_method"`
	DeliveryType  DeliveryType    `json:"deliveryType" bson:"delivery_type"`
	Region        string          `json:"region,omitempty" bson:"region,omitempty"`
	Timestamp     time.Time       `json:"timestamp" bson:"timestamp"`
	CustomerName  string          `json:"customerName,omitempty" bson:"customer_name,omitempty"`
	Status        SaleStatus      `json:"status" bson:"status"`
}

// IsPending reports whether the sale still awaits collection.
func (s Sale) IsPending() bool {
	return s.Status == SaleStatusPending
}

// Clone returns a copy whose item slice is not shared with s.
func (s Sale) Clone() Sale {
	out := s
	out.Items = CloneItems(s.Items)
	return out
}

// CloneSales copies every sale in the slice.
func CloneSales(sales []Sale) []Sale {
	out := make([]Sale, len(sales))
	for i, sale := range sales {
		out[i] = sale.Clone()
	}
	return out
}
