package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Category groups menu items on the POS grid.
type Category string

const (
	CategoryAcaiCremes Category = "ACAI_CREMES"
	CategorySnacks     Category = "SNACKS"
	CategoryDrinks     Category = "DRINKS"
)

var validCategories = []Category{
	CategoryAcaiCremes,
	CategorySnacks,
	CategoryDrinks,
}

// Categories returns every known category in display order.
func Categories() []Category {
	return append([]Category(nil), validCategories...)
}

// String implements fmt.Stringer.
func (c Category) String() string {
	return string(c)
}

// IsValid reports whether the value is a known Category.
func (c Category) IsValid() bool {
	for _, candidate := range validCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCategory converts raw input into a Category.
func ParseCategory(value string) (Category, error) {
	for _, candidate := range validCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid category %q", value)
}

// UnitType tells how a product is priced.
type UnitType string

const (
	// UnitTypeUnit products are sold per piece.
	UnitTypeUnit UnitType = "UNIT"
	// UnitTypeWeight products are priced per kilogram and entered by cash value.
	UnitTypeWeight UnitType = "WEIGHT"
)

var validUnitTypes = []UnitType{UnitTypeUnit, UnitTypeWeight}

// UnitTypes returns every known unit type.
func UnitTypes() []UnitType {
	return append([]UnitType(nil), validUnitTypes...)
}

// String implements fmt.Stringer.
func (u UnitType) String() string {
	return string(u)
}

// IsValid reports whether the value is a known UnitType.
func (u UnitType) IsValid() bool {
	for _, candidate := range validUnitTypes {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUnitType converts raw input into a UnitType.
func ParseUnitType(value string) (UnitType, error) {
	for _, candidate := range validUnitTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid unit type %q", value)
}

// Product is a menu item. For WEIGHT products Price is the price per kilogram.
type Product struct {
	ID       string          `json:"id" bson:"id"`
	Name     string          `json:"name" bson:"name"`
	Price    decimal.Decimal `json:"price" bson:"price"`
	Category Category        `json:"category" bson:"category"`
	UnitType UnitType        `json:"unitType" bson:"unit_type"`
}

// IsWeighed reports whether the product is entered through the value-entry step.
func (p Product) IsWeighed() bool {
	return p.UnitType == UnitTypeWeight
}

// DeliveryFee is the surcharge applied to deliveries into a region.
type DeliveryFee struct {
	ID     string          `json:"id" bson:"id"`
	Region string          `json:"region" bson:"region"`
	Value  decimal.Decimal `json:"value" bson:"value"`
}
