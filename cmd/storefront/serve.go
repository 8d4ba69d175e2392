package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/GTDGit/storefront/internal/handler"
	"github.com/GTDGit/storefront/internal/middleware"
	"github.com/GTDGit/storefront/internal/notify"
	"github.com/GTDGit/storefront/internal/sse"
	"github.com/GTDGit/storefront/internal/storage"
	"github.com/GTDGit/storefront/internal/worker"
)

const (
	loginAttemptLimit  = 5
	loginAttemptWindow = time.Minute
	shutdownTimeout    = 10 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP backend-for-frontend and background workers",
	Long: `Serve the wishlist, cart and session endpoints under /v1 for the storefront UI,
stream toasts over /v1/events, and run the price alert and cart sync workers.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	log.Info().Str("env", cfg.Env).Str("storage", cfg.Storage.Driver).Msg("starting storefront")

	// 1. Toast delivery
	hub := sse.NewHub()
	hubNotifier := sse.NewHubNotifier(hub)

	// 2. Stores
	a, err := newApp(ctx, cfg, appOptions{
		notifier:       notify.Multi{notify.LogNotifier{}, hubNotifier},
		onAuthRequired: hubNotifier.NotifyAuthRequired,
	})
	if err != nil {
		return err
	}
	defer a.Close()

	// 3. Initialize handlers
	handlers := &Handlers{
		Health:   handler.NewHealthHandler(a.wishlist, a.cart, hub, cfg.Storage.Driver),
		Wishlist: handler.NewWishlistHandler(a.wishlist, a.session),
		Alert:    handler.NewAlertHandler(a.wishlist),
		Cart:     handler.NewCartHandler(a.cart, a.session),
		Session:  handler.NewSessionHandler(a.session),
		SSE:      handler.NewSSEHandler(hub),
	}

	// 4. Initialize middleware
	loginLimiter := middleware.NewLoginRateLimiter(ctx, loginAttemptLimit, loginAttemptWindow)

	// 5. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.Origin))
	router.Use(middleware.CurrentPathMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, loginLimiter)

	// 6. Start workers and cross-process sync
	go worker.NewPriceAlertWorker(a.wishlist, cfg.Worker.PriceAlertInterval).Start(ctx)
	go worker.NewCartSyncWorker(a.cart, cfg.Worker.CartSyncInterval).Start(ctx)
	go syncStore(ctx, "wishlist", a.wishlist.Sync)
	go syncStore(ctx, "cart", a.cart.Sync)

	// 7. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// 8. Wait for interrupt signal
	select {
	case <-ctx.Done():
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	}

	log.Info().Msg("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
	return nil
}

// syncStore runs a store's cross-process sync until ctx is done.
func syncStore(ctx context.Context, name string, sync func(context.Context) error) {
	err := sync(ctx)
	switch {
	case errors.Is(err, storage.ErrWatchUnsupported):
		log.Info().Str("store", name).Msg("Storage driver cannot watch, cross-process sync disabled")
	case err != nil:
		log.Warn().Err(err).Str("store", name).Msg("Cross-process sync stopped")
	}
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health   *handler.HealthHandler
	Wishlist *handler.WishlistHandler
	Alert    *handler.AlertHandler
	Cart     *handler.CartHandler
	Session  *handler.SessionHandler
	SSE      *handler.SSEHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, loginLimiter *middleware.LoginRateLimiter) {
	router.GET("/v1/health", handlers.Health.GetHealth)
	router.GET("/v1/events", handlers.SSE.Stream)

	wishlist := router.Group("/v1/wishlist")
	{
		wishlist.GET("", handlers.Wishlist.GetWishlist)
		wishlist.POST("", handlers.Wishlist.AddToWishlist)
		wishlist.DELETE("", handlers.Wishlist.ClearWishlist)
		wishlist.GET("/check/:productId", handlers.Wishlist.CheckItem)
		wishlist.GET("/stats", handlers.Wishlist.GetStats)
		wishlist.GET("/recent", handlers.Wishlist.GetRecentlyAdded)
		wishlist.POST("/share", handlers.Wishlist.Share)
		wishlist.POST("/bulk/remove", handlers.Wishlist.BulkRemove)
		wishlist.POST("/bulk/move-to-cart", handlers.Wishlist.BulkMoveToCart)
		wishlist.DELETE("/:id", handlers.Wishlist.RemoveFromWishlist)
		wishlist.POST("/:id/move-to-cart", handlers.Wishlist.MoveToCart)

		// Price alerts never reach the backend
		wishlist.GET("/alerts", handlers.Alert.ListAlerts)
		wishlist.POST("/alerts", handlers.Alert.AddAlert)
		wishlist.POST("/alerts/check", handlers.Alert.CheckAlerts)
		wishlist.DELETE("/alerts/:productId", handlers.Alert.RemoveAlert)
	}

	cart := router.Group("/v1/cart")
	{
		cart.GET("", handlers.Cart.GetCart)
		cart.POST("", handlers.Cart.AddToCart)
		cart.DELETE("", handlers.Cart.ClearCart)
		cart.PUT("/:id", handlers.Cart.UpdateItem)
		cart.DELETE("/:id", handlers.Cart.RemoveItem)
	}

	session := router.Group("/v1/session")
	{
		session.GET("", handlers.Session.GetSession)
		session.POST("", loginLimiter.Handle(), handlers.Session.Login)
		session.DELETE("", handlers.Session.Logout)
	}
}
