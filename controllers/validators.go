package controllers

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var skuPattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9-]*$`)

// RegisterValidators installs the custom binding rules and makes JSON binding reject
// unknown fields.
func RegisterValidators() error {
	binding.EnableDecoderDisallowUnknownFields = true
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		return v.RegisterValidation("sku", func(fl validator.FieldLevel) bool {
			return skuPattern.MatchString(fl.Field().String())
		})
	}
	return nil
}

// validateMoney returns a message when d is not a valid non-negative amount with at most
// two decimal places.
func validateMoney(field string, d decimal.Decimal) string {
	if d.IsNegative() {
		return field + " cannot be negative"
	}
	if d.Exponent() < -2 && !d.Equal(d.Round(2)) {
		return field + " may have at most two decimal places"
	}
	return ""
}
