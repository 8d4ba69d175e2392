package storefront

// AddWishlistRequest is the body of POST /wishlist.
type AddWishlistRequest struct {
	ProductID int64 `json:"product_id"`
}

// AddCartRequest is the body of POST /cart.
type AddCartRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// UpdateCartRequest is the body of PUT /cart/{id}.
type UpdateCartRequest struct {
	Quantity int `json:"quantity"`
}
