package http

import (
	"github.com/pr-poehali-dev/product-catalog-table/pkg/money"
	"github.com/pr-poehali-dev/product-catalog-table/services/storefront/internal/checkout"
	"github.com/pr-poehali-dev/product-catalog-table/services/storefront/internal/domain"
)

type productView struct {
	domain.Product
	PriceFormatted string `json:"price_formatted"`
}

func newProductView(p domain.Product) productView {
	return productView{Product: p, PriceFormatted: money.Format(p.Price)}
}

type lineItemView struct {
	domain.LineItem
	PriceFormatted string `json:"price_formatted"`
	Total          int64  `json:"total"`
	TotalFormatted string `json:"total_formatted"`
}

type cartView struct {
	Items          []lineItemView `json:"items"`
	TotalItems     int            `json:"total_items"`
	TotalAmount    int64          `json:"total_amount"`
	TotalFormatted string         `json:"total_formatted"`
}

func newCartView(s checkout.CartSnapshot) cartView {
	v := cartView{
		Items:          make([]lineItemView, 0, len(s.Items)),
		TotalItems:     s.TotalItems,
		TotalAmount:    s.TotalAmount,
		TotalFormatted: money.Format(s.TotalAmount),
	}
	for _, it := range s.Items {
		v.Items = append(v.Items, lineItemView{
			LineItem:       it,
			PriceFormatted: money.Format(it.Price),
			Total:          it.Total(),
			TotalFormatted: money.Format(it.Total()),
		})
	}
	return v
}
