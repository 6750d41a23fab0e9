package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/acai-manager/internal/domain/models"
)

// DefaultProducts is the menu a fresh installation starts with.
func DefaultProducts() []models.Product {
	p := func(id, name, price string, category models.Category, unit models.UnitType) models.Product {
		return models.Product{ID: id, Name: name, Price: decimal.RequireFromString(price), Category: category, UnitType: unit}
	}

	return []models.Product{
		p("1", "Açaí Premium (Self-Service)", "52.00", models.CategoryAcaiCremes, models.UnitTypeWeight),
		p("2", "Sorvetes (Self-Service)", "52.00", models.CategoryAcaiCremes, models.UnitTypeWeight),
		p("3", "Hamburguer Normal", "14.00", models.CategorySnacks, models.UnitTypeUnit),
		p("4", "X-Baicon", "17.00", models.CategorySnacks, models.UnitTypeUnit),
		p("5", "X-Tudo", "20.00", models.CategorySnacks, models.UnitTypeUnit),
		p("6", "X-frango", "20.00", models.CategorySnacks, models.UnitTypeUnit),
		p("7", "Salgados", "10.00", models.CategorySnacks, models.UnitTypeUnit),
		p("8", "Coca-cola 2L", "15.00", models.CategoryDrinks, models.UnitTypeUnit),
		p("9", "Coca-cola 1L", "10.00", models.CategoryDrinks, models.UnitTypeUnit),
		p("10", "Coca-cola LT 350ml", "6.00", models.CategoryDrinks, models.UnitTypeUnit),
		p("11", "São Geraldo 2L", "15.00", models.CategoryDrinks, models.UnitTypeUnit),
		p("12", "São Geraldo 1L", "10.00", models.CategoryDrinks, models.UnitTypeUnit),
		p("13", "São Geraldo LT 350ml", "10.00", models.CategoryDrinks, models.UnitTypeUnit),
		p("14", "Água mineral", "3.00", models.CategoryDrinks, models.UnitTypeUnit),
	}
}

// DefaultFees is the delivery table a fresh installation starts with.
func DefaultFees() []models.DeliveryFee {
	return []models.DeliveryFee{
		{ID: "f1", Region: "Centro", Value: decimal.RequireFromString("5.00")},
		{ID: "f2", Region: "Vila Nova", Value: decimal.RequireFromString("8.00")},
	}
}
