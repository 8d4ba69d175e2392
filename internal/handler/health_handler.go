package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/storefront/internal/sse"
	"github.com/GTDGit/storefront/internal/store"
	"github.com/GTDGit/storefront/internal/utils"
)

var startTime = time.Now()

// HealthHandler provides health endpoint.
type HealthHandler struct {
	wishlist      *store.WishlistStore
	cart          *store.CartStore
	hub           *sse.Hub
	storageDriver string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(wishlist *store.WishlistStore, cart *store.CartStore, hub *sse.Hub, storageDriver string) *HealthHandler {
	return &HealthHandler{wishlist: wishlist, cart: cart, hub: hub, storageDriver: storageDriver}
}

// GetHealth responds with service status and local store state.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	utils.Success(c, 200, "Service is healthy", gin.H{
		"status":  "healthy",
		"version": "1.0.0",
		"uptime":  int(time.Since(startTime).Seconds()),
		"storage": h.storageDriver,
		"sse": gin.H{
			"clients": h.hub.ClientCount(),
		},
		"wishlist": gin.H{
			"items":    h.wishlist.GetTotalItems(),
			"inFlight": h.wishlist.InFlight(),
		},
		"cart": gin.H{
			"items":   h.cart.GetTotalItems(),
			"loading": h.cart.IsLoading(),
		},
	})
}
