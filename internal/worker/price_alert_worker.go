package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/storefront/internal/models"
)

// AlertChecker is the part of the wishlist store the price alert worker drives.
type AlertChecker interface {
	Refresh(ctx context.Context) error
	CheckPriceAlerts(ctx context.Context) []models.PriceAlert
}

// PriceAlertWorker periodically refreshes wishlist prices and fires any armed
// price alerts whose target has been reached.
type PriceAlertWorker struct {
	store    AlertChecker
	interval time.Duration
}

// NewPriceAlertWorker constructs a PriceAlertWorker.
func NewPriceAlertWorker(store AlertChecker, interval time.Duration) *PriceAlertWorker {
	return &PriceAlertWorker{
		store:    store,
		interval: interval,
	}
}

// Start begins the periodic check loop and listens for context cancellation.
// A zero interval disables the worker.
func (w *PriceAlertWorker) Start(ctx context.Context) {
	if w.interval <= 0 {
		log.Info().Msg("Price alert worker disabled")
		return
	}
	log.Info().Dur("interval", w.interval).Msg("Starting price alert worker")

	// Run immediately on start
	w.run(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Price alert worker stopped")
			return
		}
	}
}

func (w *PriceAlertWorker) run(ctx context.Context) {
	// Alerts compare against cached prices, so pull fresh ones first. A
	// failed refresh still checks what we have.
	if err := w.store.Refresh(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to refresh wishlist before alert check")
	}

	triggered := w.store.CheckPriceAlerts(ctx)
	if len(triggered) > 0 {
		log.Info().Int("triggered", len(triggered)).Msg("Price alerts triggered")
	}
}
