package models

import "github.com/shopspring/decimal"

// CartItem is a single cart line.
type CartItem struct {
	ID        int64   `json:"id"`
	ProductID int64   `json:"product_id"`
	Product   Product `json:"product"`
	Quantity  int     `json:"quantity"`
}

// Cart is the backend's view of the shopping cart. Subtotal is computed
// server-side.
type Cart struct {
	Items      []CartItem      `json:"items"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	TotalItems int             `json:"total_items"`
}
