package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/GTDGit/storefront/internal/store"
	"github.com/GTDGit/storefront/internal/utils"
)

// AlertHandler exposes the client-local price alerts.
type AlertHandler struct {
	wishlist *store.WishlistStore
}

// NewAlertHandler constructs an AlertHandler.
func NewAlertHandler(wishlist *store.WishlistStore) *AlertHandler {
	return &AlertHandler{wishlist: wishlist}
}

// AddAlertRequest is the body of POST /v1/wishlist/alerts.
type AddAlertRequest struct {
	ProductID   int64           `json:"product_id" binding:"required"`
	TargetPrice decimal.Decimal `json:"target_price"`
}

// ListAlerts handles GET /v1/wishlist/alerts
func (h *AlertHandler) ListAlerts(c *gin.Context) {
	utils.Success(c, http.StatusOK, "Price alerts retrieved", h.wishlist.PriceAlerts())
}

// AddAlert handles POST /v1/wishlist/alerts
func (h *AlertHandler) AddAlert(c *gin.Context) {
	var req AddAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, utils.CodeInvalidRequest, "product_id and target_price are required")
		return
	}

	if err := h.wishlist.AddPriceAlert(c.Request.Context(), req.ProductID, req.TargetPrice); err != nil {
		writeError(c, nil, err, "Failed to set price alert")
		return
	}
	utils.Success(c, http.StatusCreated, "Price alert set", h.wishlist.PriceAlerts())
}

// RemoveAlert handles DELETE /v1/wishlist/alerts/:productId
func (h *AlertHandler) RemoveAlert(c *gin.Context) {
	productID, ok := paramID(c, "productId")
	if !ok {
		return
	}
	h.wishlist.RemovePriceAlert(c.Request.Context(), productID)
	utils.Success(c, http.StatusOK, "Price alert removed", h.wishlist.PriceAlerts())
}

// CheckAlerts handles POST /v1/wishlist/alerts/check. It compares against
// the cached prices; the price alert worker refreshes them on its own cycle.
func (h *AlertHandler) CheckAlerts(c *gin.Context) {
	triggered := h.wishlist.CheckPriceAlerts(c.Request.Context())
	utils.Success(c, http.StatusOK, "Price alerts checked", gin.H{
		"triggered": triggered,
		"count":     len(triggered),
	})
}
