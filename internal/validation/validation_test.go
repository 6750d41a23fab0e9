package validation

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type productInput struct {
	Name     string          `json:"name" validate:"required"`
	Price    decimal.Decimal `json:"price" validate:"gt=0"`
	Category string          `json:"category" validate:"required,category"`
	UnitType string          `json:"unitType" validate:"required,unit_type"`
	Method   string          `json:"paymentMethod" validate:"omitempty,payment_method"`
}

func TestStructAcceptsValidInput(t *testing.T) {
	err := Struct(productInput{
		Name:     "Açaí 1L",
		Price:    decimal.RequireFromString("35.00"),
		Category: "ACAI_CREMES",
		UnitType: "UNIT",
		Method:   "PIX",
	})
	assert.NoError(t, err)
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	err := Struct(productInput{
		Price:    decimal.RequireFromString("-1"),
		Category: "SOUP",
		UnitType: "UNIT",
		Method:   "BITCOIN",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))

	var fieldErr *FieldError
	require.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, "is required", fieldErr.Fields["name"])
	assert.Equal(t, "must be greater than 0", fieldErr.Fields["price"])
	assert.Equal(t, "is not a known category", fieldErr.Fields["category"])
	assert.Equal(t, "is not a known payment method", fieldErr.Fields["paymentMethod"])
	assert.NotContains(t, fieldErr.Fields, "unitType")
}

func TestEnumTagsAreCaseSensitive(t *testing.T) {
	err := Struct(productInput{
		Name:     "Coxinha",
		Price:    decimal.RequireFromString("8"),
		Category: "snacks",
		UnitType: "UNIT",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "category")
}
