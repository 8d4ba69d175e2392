package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/storefront/internal/models"
	"github.com/GTDGit/storefront/internal/session"
	"github.com/GTDGit/storefront/internal/store"
	"github.com/GTDGit/storefront/internal/utils"
)

// CartHandler exposes the cart store.
type CartHandler struct {
	cart    *store.CartStore
	session *session.Manager
}

// NewCartHandler constructs a CartHandler.
func NewCartHandler(cart *store.CartStore, sess *session.Manager) *CartHandler {
	return &CartHandler{cart: cart, session: sess}
}

// AddCartRequest is the body of POST /v1/cart. Quantity defaults to 1.
type AddCartRequest struct {
	Product  models.Product `json:"product"`
	Quantity *int           `json:"quantity"`
}

// UpdateCartRequest is the body of PUT /v1/cart/:id.
type UpdateCartRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart handles GET /v1/cart. ?cached=true skips the backend.
func (h *CartHandler) GetCart(c *gin.Context) {
	if c.Query("cached") != "true" {
		if err := h.cart.RefreshCart(c.Request.Context()); err != nil {
			writeError(c, h.session, err, "Failed to load cart")
			return
		}
	}
	utils.Success(c, http.StatusOK, "Cart retrieved", h.cart.Cart())
}

// AddToCart handles POST /v1/cart
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req AddCartRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Product.ID <= 0 {
		utils.Error(c, http.StatusBadRequest, utils.CodeInvalidRequest, "product with a valid id is required")
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	if err := h.cart.AddToCart(c.Request.Context(), req.Product, quantity); err != nil {
		writeError(c, h.session, err, "Failed to add to cart")
		return
	}
	utils.Success(c, http.StatusCreated, "Added to cart", h.cart.Cart())
}

// UpdateItem handles PUT /v1/cart/:id
func (h *CartHandler) UpdateItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, utils.CodeInvalidRequest, "Invalid request body")
		return
	}

	if err := h.cart.UpdateQuantity(c.Request.Context(), id, req.Quantity); err != nil {
		writeError(c, h.session, err, "Failed to update cart")
		return
	}
	utils.Success(c, http.StatusOK, "Cart updated", h.cart.Cart())
}

// RemoveItem handles DELETE /v1/cart/:id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.cart.RemoveFromCart(c.Request.Context(), id); err != nil {
		writeError(c, h.session, err, "Failed to remove from cart")
		return
	}
	utils.Success(c, http.StatusOK, "Removed from cart", h.cart.Cart())
}

// ClearCart handles DELETE /v1/cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.cart.ClearCart(c.Request.Context()); err != nil {
		writeError(c, h.session, err, "Failed to clear cart")
		return
	}
	utils.Success(c, http.StatusOK, "Cart cleared", h.cart.Cart())
}
