package handlers

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/fasopay/fasopay_backend/internal/core/domain"
)

// RegisterCustomValidators installs the domain-specific binding validators
// on Gin's validator engine. Call once at startup.
func RegisterCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("currency_code", validCurrencyCode)
	_ = v.RegisterValidation("account_kind", validAccountKind)
}

// validCurrencyCode accepts 3-letter uppercase ISO-4217 style codes.
func validCurrencyCode(fl validator.FieldLevel) bool {
	code := fl.Field().String()
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// validAccountKind accepts the supported account kinds.
func validAccountKind(fl validator.FieldLevel) bool {
	return domain.ValidAccountKind(domain.AccountKind(fl.Field().String()))
}
