package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type contactForm struct {
	Name     string `json:"name" validate:"notblank"`
	Email    string `json:"email" validate:"notblank"`
	Quantity int    `json:"quantity" validate:"gte=1,lte=100"`
	Comment  string `json:"comment"`
}

func TestValidate_Success(t *testing.T) {
	err := Validate(contactForm{Name: "Анна", Email: "a@b.com", Quantity: 1})
	assert.NoError(t, err)
}

func TestValidate_NotBlank_RejectsWhitespace(t *testing.T) {
	err := Validate(contactForm{Name: "   \t", Email: "a@b.com", Quantity: 1})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "is required", valErr.Fields()["name"])
}

func TestValidate_NotBlank_AcceptsAnyText(t *testing.T) {
	// No format checks: any non-blank value passes.
	err := Validate(contactForm{Name: "x", Email: "not-an-email", Quantity: 1})
	assert.NoError(t, err)
}

func TestValidate_UsesJSONFieldNames(t *testing.T) {
	err := Validate(contactForm{Quantity: 1})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, []string{"name", "email"}, valErr.FieldNames())
}

func TestValidate_OutOfRange(t *testing.T) {
	err := Validate(contactForm{Name: "A", Email: "e", Quantity: 200})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields()["quantity"], "100")
}

func TestValidationError_ErrorString(t *testing.T) {
	err := Validate(contactForm{Quantity: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field 'name'")
	assert.Contains(t, err.Error(), "is required")
}
