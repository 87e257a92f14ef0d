package domain

// LineItem is one product in the cart. Name, Price and Image are copied from
// the product when it is first added and never refreshed afterwards.
type LineItem struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Image    string `json:"image"`
	Quantity int    `json:"quantity"`
}

// Total returns price times quantity.
func (li LineItem) Total() int64 {
	return li.Price * int64(li.Quantity)
}

// TotalItems sums quantities across items.
func TotalItems(items []LineItem) int {
	var n int
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

// TotalAmount sums line totals across items.
func TotalAmount(items []LineItem) int64 {
	var sum int64
	for _, it := range items {
		sum += it.Total()
	}
	return sum
}
