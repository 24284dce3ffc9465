package checkout

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ShippingDetails is the address collected at the shipping step. Every field
// is required before the flow may advance to payment.
type ShippingDetails struct {
	FullName    string `json:"fullName" validate:"required"`
	Phone       string `json:"phone" validate:"required"`
	AddressLine string `json:"addressLine" validate:"required"`
	City        string `json:"city" validate:"required"`
	State       string `json:"state" validate:"required"`
	PostalCode  string `json:"postalCode" validate:"required"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func shippingValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// missingFields returns the JSON names of empty required fields, in struct
// declaration order.
func (d ShippingDetails) missingFields() []string {
	err := shippingValidator().Struct(d)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{"shipping"}
	}

	missing := make([]string, 0, len(verrs))
	for _, fieldErr := range verrs {
		missing = append(missing, fieldErr.Field())
	}
	return missing
}
