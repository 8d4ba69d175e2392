package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// CartRefresher is the part of the cart store the sync worker drives.
type CartRefresher interface {
	Refresh(ctx context.Context) error
}

// CartSyncWorker keeps the local cart in step with the backend, which may be
// changed by other devices or by wishlist moves.
type CartSyncWorker struct {
	store    CartRefresher
	interval time.Duration
}

// NewCartSyncWorker constructs a CartSyncWorker.
func NewCartSyncWorker(store CartRefresher, interval time.Duration) *CartSyncWorker {
	return &CartSyncWorker{
		store:    store,
		interval: interval,
	}
}

// Start runs the sync loop until ctx is canceled. A zero interval disables it.
func (w *CartSyncWorker) Start(ctx context.Context) {
	if w.interval <= 0 {
		log.Info().Msg("Cart sync worker disabled")
		return
	}
	log.Info().Dur("interval", w.interval).Msg("Starting cart sync worker")

	w.run(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Cart sync worker stopped")
			return
		}
	}
}

func (w *CartSyncWorker) run(ctx context.Context) {
	start := time.Now()
	if err := w.store.Refresh(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to sync cart")
		return
	}
	log.Debug().Dur("duration", time.Since(start)).Msg("Cart sync completed")
}
