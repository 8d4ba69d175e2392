package models

import "github.com/shopspring/decimal"

// Product is the catalog snapshot the backend embeds in wishlist and cart
// entries. Prices are computed server-side; the client only compares them.
type Product struct {
	ID        int64            `json:"id"`
	Title     string           `json:"title"`
	Slug      string           `json:"slug,omitempty"`
	Author    string           `json:"author,omitempty"`
	ImageURL  string           `json:"image_url,omitempty"`
	Price     decimal.Decimal  `json:"price"`
	SalePrice *decimal.Decimal `json:"sale_price,omitempty"`
	Stock     int              `json:"stock"`
}

// InStock reports whether at least one unit is available.
func (p Product) InStock() bool {
	return p.Stock > 0
}

// OnSale reports whether a sale price below the list price is set.
func (p Product) OnSale() bool {
	return p.SalePrice != nil && p.SalePrice.LessThan(p.Price)
}
