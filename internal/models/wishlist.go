package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// WishlistItem is a saved (user, product) pair. IDs and ordering are assigned
// by the backend.
type WishlistItem struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	Product   Product   `json:"product"`
	CreatedAt time.Time `json:"created_at"`
}

// WishlistStats holds the aggregate counts the backend derives for a wishlist.
type WishlistStats struct {
	TotalItems int             `json:"total_items"`
	TotalValue decimal.Decimal `json:"total_value"`
	InStock    int             `json:"in_stock"`
	OutOfStock int             `json:"out_of_stock"`
	OnSale     int             `json:"on_sale"`
}

// WishlistCheck is the payload of the existence check endpoint.
type WishlistCheck struct {
	InWishlist bool `json:"in_wishlist"`
}
