// Package catalog provides the read-only product catalog shown on the storefront.
package catalog

import (
	"context"
	"strconv"
	"strings"

	apperrors "github.com/pr-poehali-dev/product-catalog-table/pkg/errors"
	"github.com/pr-poehali-dev/product-catalog-table/pkg/slug"
	"github.com/pr-poehali-dev/product-catalog-table/services/storefront/internal/domain"
)

// AllCategories is the pseudo-category that disables category filtering.
const AllCategories = "Все"

// Filter narrows a catalog listing. Query matches a case-insensitive
// substring of the name or the description.
type Filter struct {
	Query    string
	Category string
}

// Provider is the source of products the cart copies from.
type Provider interface {
	Products(ctx context.Context) []domain.Product
	Product(ctx context.Context, id int) (domain.Product, error)
	Categories(ctx context.Context) []string
	Search(ctx context.Context, f Filter) []domain.Product
}

// Static serves a fixed, in-memory product list.
type Static struct {
	products   []domain.Product
	byID       map[int]int
	categories []string
}

var _ Provider = (*Static)(nil)

// NewStatic builds a catalog from products, keeping their order. Missing
// slugs are generated from the product name. Categories are listed in order
// of first appearance after AllCategories.
func NewStatic(products []domain.Product) *Static {
	s := &Static{
		products:   make([]domain.Product, len(products)),
		byID:       make(map[int]int, len(products)),
		categories: []string{AllCategories},
	}
	seen := make(map[string]bool)
	for i, p := range products {
		if p.Slug == "" {
			p.Slug = slug.Generate(p.Name)
		}
		s.products[i] = p
		s.byID[p.ID] = i
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			s.categories = append(s.categories, p.Category)
		}
	}
	return s
}

// Products returns every product in catalog order.
func (s *Static) Products(_ context.Context) []domain.Product {
	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Product looks a product up by id.
func (s *Static) Product(_ context.Context, id int) (domain.Product, error) {
	i, ok := s.byID[id]
	if !ok {
		return domain.Product{}, apperrors.NotFound("product", strconv.Itoa(id))
	}
	return s.products[i], nil
}

// Categories returns AllCategories followed by the product categories.
func (s *Static) Categories(_ context.Context) []string {
	out := make([]string, len(s.categories))
	copy(out, s.categories)
	return out
}

// Search returns the products matching f in catalog order.
func (s *Static) Search(_ context.Context, f Filter) []domain.Product {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if !matchesCategory(p, f.Category) {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesCategory(p domain.Product, category string) bool {
	return category == "" || category == AllCategories || p.Category == category
}
