package checkout

import (
	"errors"

	"github.com/pr-poehali-dev/product-catalog-table/pkg/validator"
	"github.com/pr-poehali-dev/product-catalog-table/services/storefront/internal/domain"
)

// Validation is the result of checking a CustomerInfo. Fields lists the
// failing fields for logging; shoppers only learn that the form is invalid.
type Validation struct {
	Valid  bool
	Fields []string
}

// Validate requires name, email and phone to be non-blank. Formats are not
// checked and the comment is always accepted.
func Validate(info domain.CustomerInfo) Validation {
	err := validator.Validate(info)
	if err == nil {
		return Validation{Valid: true}
	}
	var verr *validator.ValidationError
	if errors.As(err, &verr) {
		return Validation{Fields: verr.FieldNames()}
	}
	return Validation{}
}
