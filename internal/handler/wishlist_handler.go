package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/storefront/internal/models"
	"github.com/GTDGit/storefront/internal/session"
	"github.com/GTDGit/storefront/internal/store"
	"github.com/GTDGit/storefront/internal/utils"
)

// WishlistHandler exposes the wishlist store.
type WishlistHandler struct {
	wishlist *store.WishlistStore
	session  *session.Manager
}

// NewWishlistHandler constructs a WishlistHandler.
func NewWishlistHandler(wishlist *store.WishlistStore, sess *session.Manager) *WishlistHandler {
	return &WishlistHandler{wishlist: wishlist, session: sess}
}

// AddWishlistRequest is the body of POST /v1/wishlist.
type AddWishlistRequest struct {
	Product models.Product `json:"product"`
}

// BulkRequest is the body of the bulk endpoints.
type BulkRequest struct {
	IDs []int64 `json:"ids" binding:"required,min=1"`
}

type wishlistResponse struct {
	Items      []models.WishlistItem `json:"items"`
	TotalItems int                   `json:"totalItems"`
	Loading    bool                  `json:"loading"`
}

func (h *WishlistHandler) snapshot() wishlistResponse {
	return wishlistResponse{
		Items:      h.wishlist.Items(),
		TotalItems: h.wishlist.GetTotalItems(),
		Loading:    h.wishlist.IsLoading(),
	}
}

// GetWishlist handles GET /v1/wishlist. ?cached=true skips the backend.
func (h *WishlistHandler) GetWishlist(c *gin.Context) {
	if c.Query("cached") != "true" {
		if err := h.wishlist.GetWishlist(c.Request.Context()); err != nil {
			writeError(c, h.session, err, "Failed to load wishlist")
			return
		}
	}
	utils.Success(c, http.StatusOK, "Wishlist retrieved", h.snapshot())
}

// AddToWishlist handles POST /v1/wishlist
func (h *WishlistHandler) AddToWishlist(c *gin.Context) {
	var req AddWishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Product.ID <= 0 {
		utils.Error(c, http.StatusBadRequest, utils.CodeInvalidRequest, "product with a valid id is required")
		return
	}

	if err := h.wishlist.AddToWishlist(c.Request.Context(), req.Product); err != nil {
		writeError(c, h.session, err, "Failed to add to wishlist")
		return
	}

	item, _ := h.wishlist.GetWishlistItemByProductID(req.Product.ID)
	utils.Success(c, http.StatusCreated, "Added to wishlist", item)
}

// RemoveFromWishlist handles DELETE /v1/wishlist/:id
func (h *WishlistHandler) RemoveFromWishlist(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.wishlist.RemoveFromWishlist(c.Request.Context(), id); err != nil {
		writeError(c, h.session, err, "Failed to remove from wishlist")
		return
	}
	utils.Success(c, http.StatusOK, "Removed from wishlist", h.snapshot())
}

// MoveToCart handles POST /v1/wishlist/:id/move-to-cart
func (h *WishlistHandler) MoveToCart(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.wishlist.MoveToCart(c.Request.Context(), id); err != nil {
		writeError(c, h.session, err, "Failed to move item to cart")
		return
	}
	utils.Success(c, http.StatusOK, "Moved to cart", h.snapshot())
}

// ClearWishlist handles DELETE /v1/wishlist
func (h *WishlistHandler) ClearWishlist(c *gin.Context) {
	if err := h.wishlist.ClearWishlist(c.Request.Context()); err != nil {
		writeError(c, h.session, err, "Failed to clear wishlist")
		return
	}
	utils.Success(c, http.StatusOK, "Wishlist cleared", h.snapshot())
}

// BulkRemove handles POST /v1/wishlist/bulk/remove
func (h *WishlistHandler) BulkRemove(c *gin.Context) {
	h.bulk(c, h.wishlist.BulkRemoveFromWishlist, "Items removed")
}

// BulkMoveToCart handles POST /v1/wishlist/bulk/move-to-cart
func (h *WishlistHandler) BulkMoveToCart(c *gin.Context) {
	h.bulk(c, h.wishlist.BulkMoveToCart, "Items moved to cart")
}

func (h *WishlistHandler) bulk(c *gin.Context, run func(context.Context, []int64) (store.BulkResult, error), message string) {
	var req BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, utils.CodeInvalidRequest, "ids must be a non-empty list")
		return
	}

	result, err := run(c.Request.Context(), req.IDs)
	if err != nil {
		writeError(c, h.session, err, "Bulk operation failed")
		return
	}
	if result.Failed > 0 {
		c.JSON(http.StatusMultiStatus, utils.Response{
			Success: false,
			Code:    http.StatusMultiStatus,
			Message: "Some items failed",
			Data:    result,
			Error:   &utils.ErrorInfo{Code: utils.CodePartialFailure, Message: "Some items failed"},
			Meta:    utils.NewMeta(c),
		})
		return
	}
	utils.Success(c, http.StatusOK, message, result)
}

// CheckItem handles GET /v1/wishlist/check/:productId
func (h *WishlistHandler) CheckItem(c *gin.Context) {
	productID, ok := paramID(c, "productId")
	if !ok {
		return
	}
	in := h.wishlist.CheckWishlistItem(c.Request.Context(), productID)
	utils.Success(c, http.StatusOK, "Wishlist check completed", models.WishlistCheck{InWishlist: in})
}

// GetStats handles GET /v1/wishlist/stats
func (h *WishlistHandler) GetStats(c *gin.Context) {
	stats, err := h.wishlist.Stats(c.Request.Context())
	if err != nil {
		writeError(c, h.session, err, "Failed to load wishlist stats")
		return
	}
	utils.Success(c, http.StatusOK, "Wishlist stats retrieved", stats)
}

// GetRecentlyAdded handles GET /v1/wishlist/recent
func (h *WishlistHandler) GetRecentlyAdded(c *gin.Context) {
	utils.Success(c, http.StatusOK, "Recently added retrieved", h.wishlist.GetRecentlyAdded())
}

// Share handles POST /v1/wishlist/share
func (h *WishlistHandler) Share(c *gin.Context) {
	link, err := h.wishlist.ShareWishlist()
	if err != nil {
		writeError(c, h.session, err, "Failed to share wishlist")
		return
	}
	utils.Success(c, http.StatusOK, "Wishlist link created", gin.H{"url": link})
}
