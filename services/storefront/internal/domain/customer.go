package domain

// CustomerInfo is the contact data entered on the checkout form.
// Comment is optional; the other three must not be blank.
type CustomerInfo struct {
	Name    string `json:"name" validate:"notblank"`
	Email   string `json:"email" validate:"notblank"`
	Phone   string `json:"phone" validate:"notblank"`
	Comment string `json:"comment"`
}
