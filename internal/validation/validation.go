package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/acai-manager/internal/domain/models"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("validation failed")

// FieldError lists the offending fields keyed by their JSON name.
type FieldError struct {
	Fields map[string]string
}

func (e *FieldError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for key := range e.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+" "+e.Fields[key])
	}
	return fmt.Sprintf("%s: %s", ErrInvalid, strings.Join(parts, "; "))
}

func (e *FieldError) Unwrap() error {
	return ErrInvalid
}

var validate = New()

// New builds a validator that reports JSON field names and understands the
// shop's enums and decimal amounts.
func New() *validator.Validate {
	v := validator.New()
	Register(v)
	return v
}

// Register installs the field naming and custom tags on v. It is also used on
// gin's binding engine so request structs share the same rules.
func Register(v *validator.Validate) {
	v.RegisterTagNameFunc(jsonFieldName)
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	_ = v.RegisterValidation("category", enumValidator(func(s string) bool { return models.Category(s).IsValid() }))
	_ = v.RegisterValidation("unit_type", enumValidator(func(s string) bool { return models.UnitType(s).IsValid() }))
	_ = v.RegisterValidation("payment_method", enumValidator(func(s string) bool { return models.PaymentMethod(s).IsValid() }))
	_ = v.RegisterValidation("delivery_type", enumValidator(func(s string) bool { return models.DeliveryType(s).IsValid() }))
}

// Struct validates s with the package validator.
func Struct(s any) error {
	if err := validate.Struct(s); err != nil {
		return Format(err)
	}
	return nil
}

// Format converts validator errors into a FieldError.
func Format(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	fields := make(map[string]string, len(errs))
	for _, fieldErr := range errs {
		fields[fieldErr.Field()] = message(fieldErr)
	}
	return &FieldError{Fields: fields}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max", "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "category", "unit_type", "payment_method", "delivery_type":
		return "is not a known " + strings.ReplaceAll(fe.Tag(), "_", " ")
	}
	return "is invalid"
}

func jsonFieldName(f reflect.StructField) string {
	tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if tag == "" || tag == "-" {
		return f.Name
	}
	return tag
}

func decimalValue(field reflect.Value) any {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.InexactFloat64()
	}
	return nil
}

func enumValidator(valid func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true
		}
		return valid(value)
	}
}
