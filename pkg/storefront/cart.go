package storefront

import (
	"context"
	"fmt"
	"net/http"

	"github.com/GTDGit/storefront/internal/models"
)

// GetCart fetches the cart with its backend-computed subtotal.
func (c *Client) GetCart(ctx context.Context) (*models.Cart, error) {
	var cart models.Cart
	if err := c.doRequest(ctx, http.MethodGet, "/cart", nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddToCart adds quantity units of a product.
func (c *Client) AddToCart(ctx context.Context, productID int64, quantity int) (*models.CartItem, error) {
	var item models.CartItem
	req := AddCartRequest{ProductID: productID, Quantity: quantity}
	if err := c.doRequest(ctx, http.MethodPost, "/cart", req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateCartItem sets the quantity of a cart line.
func (c *Client) UpdateCartItem(ctx context.Context, id int64, quantity int) (*models.CartItem, error) {
	var item models.CartItem
	if err := c.doRequest(ctx, http.MethodPut, fmt.Sprintf("/cart/%d", id), UpdateCartRequest{Quantity: quantity}, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// RemoveCartItem deletes a cart line.
func (c *Client) RemoveCartItem(ctx context.Context, id int64) error {
	return c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/cart/%d", id), nil, nil)
}

// ClearCart empties the cart.
func (c *Client) ClearCart(ctx context.Context) error {
	return c.doRequest(ctx, http.MethodDelete, "/cart", nil, nil)
}
