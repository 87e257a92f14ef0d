package domain

// OrderItem is one line of the order payload sent to the order desk.
type OrderItem struct {
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
	Total    int64  `json:"total"`
}

// OrderRequest is the immutable snapshot submitted at checkout.
// Field order and names are the order desk wire format.
type OrderRequest struct {
	CustomerName  string      `json:"customerName"`
	CustomerEmail string      `json:"customerEmail"`
	CustomerPhone string      `json:"customerPhone"`
	Comment       string      `json:"comment"`
	Items         []OrderItem `json:"items"`
	TotalAmount   int64       `json:"totalAmount"`
}

// NewOrderRequest snapshots the cart and the customer's contact data.
func NewOrderRequest(items []LineItem, info CustomerInfo) OrderRequest {
	req := OrderRequest{
		CustomerName:  info.Name,
		CustomerEmail: info.Email,
		CustomerPhone: info.Phone,
		Comment:       info.Comment,
		Items:         make([]OrderItem, 0, len(items)),
	}
	for _, it := range items {
		req.Items = append(req.Items, OrderItem{
			Name:     it.Name,
			Price:    it.Price,
			Quantity: it.Quantity,
			Total:    it.Total(),
		})
	}
	req.TotalAmount = TotalAmount(items)
	return req
}
