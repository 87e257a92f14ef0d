package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pr-poehali-dev/product-catalog-table/services/storefront/internal/domain"
)

func TestValidate(t *testing.T) {
	full := domain.CustomerInfo{Name: "Анна", Email: "anna@example.com", Phone: "+7 999 000-00-00"}

	tests := []struct {
		name   string
		mutate func(*domain.CustomerInfo)
		valid  bool
		fields []string
	}{
		{"complete with empty comment", func(*domain.CustomerInfo) {}, true, nil},
		{"comment is optional", func(c *domain.CustomerInfo) { c.Comment = "после 18:00" }, true, nil},
		{"empty name", func(c *domain.CustomerInfo) { c.Name = "" }, false, []string{"name"}},
		{"whitespace email", func(c *domain.CustomerInfo) { c.Email = " \t " }, false, []string{"email"}},
		{"empty phone", func(c *domain.CustomerInfo) { c.Phone = "" }, false, []string{"phone"}},
		{"email format not checked", func(c *domain.CustomerInfo) { c.Email = "not-an-email" }, true, nil},
		{"phone format not checked", func(c *domain.CustomerInfo) { c.Phone = "abc" }, true, nil},
		{"all missing", func(c *domain.CustomerInfo) { *c = domain.CustomerInfo{} }, false, []string{"name", "email", "phone"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := full
			tt.mutate(&info)

			got := Validate(info)
			assert.Equal(t, tt.valid, got.Valid)
			assert.Equal(t, tt.fields, got.Fields)
		})
	}
}
