package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/GTDGit/storefront/internal/models"
)

// ErrInvalidTargetPrice is returned for a non-positive alert target.
var ErrInvalidTargetPrice = errors.New("target price must be positive")

// AddPriceAlert watches productID for a price at or below target. An
// existing alert for the product gets the new target and is re-armed.
func (s *WishlistStore) AddPriceAlert(ctx context.Context, productID int64, target decimal.Decimal) error {
	if !target.IsPositive() {
		s.notifier.Error("Target price must be greater than zero")
		return ErrInvalidTargetPrice
	}

	s.mu.Lock()
	found := false
	for i := range s.priceAlerts {
		if s.priceAlerts[i].ProductID == productID {
			s.priceAlerts[i].TargetPrice = target
			s.priceAlerts[i].IsActive = true
			found = true
			break
		}
	}
	if !found {
		s.priceAlerts = append(s.priceAlerts, models.PriceAlert{
			ProductID:    productID,
			TargetPrice:  target,
			CurrentPrice: decimal.Zero,
			IsActive:     true,
		})
	}
	s.mu.Unlock()

	s.save(ctx)
	s.notifier.Success(fmt.Sprintf("Price alert set at %s", target.StringFixed(2)))
	return nil
}

// RemovePriceAlert drops the alert for productID, if any.
func (s *WishlistStore) RemovePriceAlert(ctx context.Context, productID int64) {
	s.mu.Lock()
	kept := make([]models.PriceAlert, 0, len(s.priceAlerts))
	for _, a := range s.priceAlerts {
		if a.ProductID != productID {
			kept = append(kept, a)
		}
	}
	s.priceAlerts = kept
	s.mu.Unlock()

	s.save(ctx)
	s.notifier.Info("Price alert removed")
}

// PriceAlerts returns a copy of every alert, active or not.
func (s *WishlistStore) PriceAlerts() []models.PriceAlert {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.PriceAlert{}, s.priceAlerts...)
}

// CheckPriceAlerts evaluates active alerts against the prices of the items
// already loaded; it makes no backend call. Triggered alerts are disarmed,
// record the observed price and raise one toast each. It returns the
// triggered alerts.
func (s *WishlistStore) CheckPriceAlerts(ctx context.Context) []models.PriceAlert {
	type hit struct {
		alert models.PriceAlert
		title string
	}
	var hits []hit

	s.mu.Lock()
	for i := range s.priceAlerts {
		alert := &s.priceAlerts[i]
		if !alert.IsActive {
			continue
		}
		item, ok := s.itemByProductLocked(alert.ProductID)
		if !ok {
			continue
		}
		price := item.Product.Price
		if !alert.Triggered(price) {
			continue
		}
		alert.IsActive = false
		alert.CurrentPrice = price
		hits = append(hits, hit{alert: *alert, title: displayTitle(item.Product)})
	}
	s.mu.Unlock()

	if len(hits) == 0 {
		return nil
	}
	s.save(ctx)

	triggered := make([]models.PriceAlert, 0, len(hits))
	for _, h := range hits {
		s.notifier.Success(fmt.Sprintf("Price drop! %s is now %s (target %s)",
			h.title, h.alert.CurrentPrice.StringFixed(2), h.alert.TargetPrice.StringFixed(2)))
		triggered = append(triggered, h.alert)
	}
	return triggered
}

func (s *WishlistStore) itemByProductLocked(productID int64) (models.WishlistItem, bool) {
	for _, item := range s.items {
		if item.ProductID == productID {
			return item, true
		}
	}
	return models.WishlistItem{}, false
}
