package dto

import (
	"github.com/go-playground/validator/v10"

	"github.com/receiptforge/receiptforge/pkg/utils"
)

// RegisterCustomValidators installs the binding rules used by request DTOs
// on the given validator engine. "slug" accepts the empty string so
// optional slug fields can be derived server-side.
func RegisterCustomValidators(v *validator.Validate) error {
	return v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || utils.IsValidSlug(s)
	})
}
