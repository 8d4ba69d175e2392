package storefront

import (
	"context"
	"fmt"
	"net/http"

	"github.com/GTDGit/storefront/internal/models"
)

// GetWishlist fetches the full wishlist.
func (c *Client) GetWishlist(ctx context.Context) ([]models.WishlistItem, error) {
	var items []models.WishlistItem
	if err := c.doRequest(ctx, http.MethodGet, "/wishlist", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// AddToWishlist saves a product and returns the created item.
func (c *Client) AddToWishlist(ctx context.Context, productID int64) (*models.WishlistItem, error) {
	var item models.WishlistItem
	if err := c.doRequest(ctx, http.MethodPost, "/wishlist", AddWishlistRequest{ProductID: productID}, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// RemoveFromWishlist deletes a wishlist item by its id.
func (c *Client) RemoveFromWishlist(ctx context.Context, id int64) error {
	return c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/wishlist/%d", id), nil, nil)
}

// MoveToCart asks the backend to move a wishlist item into the cart.
func (c *Client) MoveToCart(ctx context.Context, id int64) error {
	return c.doRequest(ctx, http.MethodPost, fmt.Sprintf("/wishlist/%d/move-to-cart", id), nil, nil)
}

// ClearWishlist removes every wishlist item.
func (c *Client) ClearWishlist(ctx context.Context) error {
	return c.doRequest(ctx, http.MethodDelete, "/wishlist", nil, nil)
}

// CheckWishlistItem reports whether a product is wishlisted.
func (c *Client) CheckWishlistItem(ctx context.Context, productID int64) (bool, error) {
	var check models.WishlistCheck
	if err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/wishlist/check/%d", productID), nil, &check); err != nil {
		return false, err
	}
	return check.InWishlist, nil
}

// GetWishlistStats fetches the server-derived aggregate counts.
func (c *Client) GetWishlistStats(ctx context.Context) (*models.WishlistStats, error) {
	var stats models.WishlistStats
	if err := c.doRequest(ctx, http.MethodGet, "/wishlist/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
