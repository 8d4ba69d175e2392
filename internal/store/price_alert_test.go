package store

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/storefront/internal/notify"
)

func decimalOf(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestWishlistStore_AddPriceAlert_Upserts(t *testing.T) {
	s, rec := newTestWishlist(t, defaultCatalog(), Options{})
	ctx := context.Background()

	require.NoError(t, s.AddPriceAlert(ctx, 1, decimalOf("90")))
	require.NoError(t, s.AddPriceAlert(ctx, 1, decimalOf("75.5")))

	alerts := s.PriceAlerts()
	require.Len(t, alerts, 1)
	assert.True(t, alerts[0].TargetPrice.Equal(decimalOf("75.5")))
	assert.True(t, alerts[0].IsActive)
	assert.Equal(t, "Price alert set at 75.50", rec.Toasts()[1].Message)
}

func TestWishlistStore_AddPriceAlert_RejectsNonPositiveTarget(t *testing.T) {
	s, rec := newTestWishlist(t, defaultCatalog(), Options{})

	for _, target := range []string{"0", "-5"} {
		err := s.AddPriceAlert(context.Background(), 1, decimalOf(target))
		assert.ErrorIs(t, err, ErrInvalidTargetPrice)
	}
	assert.Empty(t, s.PriceAlerts())
	assert.Equal(t, 2, rec.Count(notify.LevelError))
}

func TestWishlistStore_RemovePriceAlert(t *testing.T) {
	s, rec := newTestWishlist(t, defaultCatalog(), Options{})
	ctx := context.Background()
	require.NoError(t, s.AddPriceAlert(ctx, 1, decimalOf("90")))
	require.NoError(t, s.AddPriceAlert(ctx, 3, decimalOf("10")))

	s.RemovePriceAlert(ctx, 1)

	alerts := s.PriceAlerts()
	require.Len(t, alerts, 1)
	assert.Equal(t, int64(3), alerts[0].ProductID)
	assert.Equal(t, notify.LevelInfo, rec.Toasts()[2].Level)
}

func TestWishlistStore_CheckPriceAlerts_Boundary(t *testing.T) {
	tests := []struct {
		name      string
		price     string
		triggered bool
	}{
		{name: "above target", price: "101", triggered: false},
		{name: "at target", price: "100", triggered: true},
		{name: "below target", price: "99.99", triggered: true},
		{name: "zero price", price: "0", triggered: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := defaultCatalog()
			api.setPrice(1, tt.price)
			api.seed(1)
			s, rec := newTestWishlist(t, api, Options{})
			ctx := context.Background()
			require.NoError(t, s.GetWishlist(ctx))
			require.NoError(t, s.AddPriceAlert(ctx, 1, decimalOf("100")))
			rec.Reset()

			triggered := s.CheckPriceAlerts(ctx)

			if !tt.triggered {
				assert.Empty(t, triggered)
				assert.Empty(t, rec.Toasts())
				assert.True(t, s.PriceAlerts()[0].IsActive)
				return
			}
			require.Len(t, triggered, 1)
			assert.False(t, triggered[0].IsActive)
			assert.True(t, triggered[0].CurrentPrice.Equal(decimalOf(tt.price)))
			assert.False(t, s.PriceAlerts()[0].IsActive)
			require.Len(t, rec.Toasts(), 1)
			assert.Contains(t, rec.Toasts()[0].Message, "Price drop! Dune")
		})
	}
}

func TestWishlistStore_CheckPriceAlerts_FiresOnceUntilRearmed(t *testing.T) {
	api := defaultCatalog()
	api.setPrice(1, "80")
	api.seed(1, 3)
	s, rec := newTestWishlist(t, api, Options{})
	ctx := context.Background()
	require.NoError(t, s.GetWishlist(ctx))
	require.NoError(t, s.AddPriceAlert(ctx, 1, decimalOf("90")))
	require.NoError(t, s.AddPriceAlert(ctx, 3, decimalOf("25")))
	rec.Reset()

	assert.Len(t, s.CheckPriceAlerts(ctx), 2)
	assert.Equal(t, 2, rec.Count(notify.LevelSuccess))

	assert.Empty(t, s.CheckPriceAlerts(ctx))
	assert.Equal(t, 2, rec.Count(notify.LevelSuccess))

	require.NoError(t, s.AddPriceAlert(ctx, 1, decimalOf("90")))
	assert.Len(t, s.CheckPriceAlerts(ctx), 1)
}

func TestWishlistStore_CheckPriceAlerts_IgnoresProductsNotLoaded(t *testing.T) {
	api := defaultCatalog()
	s, _ := newTestWishlist(t, api, Options{})
	require.NoError(t, s.AddPriceAlert(context.Background(), 2, decimalOf("500")))

	assert.Empty(t, s.CheckPriceAlerts(context.Background()))
	assert.True(t, s.PriceAlerts()[0].IsActive)
}

func TestWishlistStore_CheckPriceAlerts_UsesCachedPrices(t *testing.T) {
	api := defaultCatalog()
	api.seed(1)
	s, _ := newTestWishlist(t, api, Options{})
	ctx := context.Background()
	require.NoError(t, s.GetWishlist(ctx))
	require.NoError(t, s.AddPriceAlert(ctx, 1, decimalOf("50")))

	api.setPrice(1, "40")
	calls := api.calls()
	assert.Empty(t, s.CheckPriceAlerts(ctx))
	assert.Equal(t, calls, api.calls())

	require.NoError(t, s.Refresh(ctx))
	assert.Len(t, s.CheckPriceAlerts(ctx), 1)
}

func TestWishlistStore_CheckPriceAlerts_LeavesUntriggeredAlertsAlone(t *testing.T) {
	api := defaultCatalog()
	api.seed(1, 3)
	s, _ := newTestWishlist(t, api, Options{})
	ctx := context.Background()
	require.NoError(t, s.GetWishlist(ctx))
	require.NoError(t, s.AddPriceAlert(ctx, 1, decimalOf("150")))
	require.NoError(t, s.AddPriceAlert(ctx, 3, decimalOf("5")))

	triggered := s.CheckPriceAlerts(ctx)
	require.Len(t, triggered, 1)
	assert.Equal(t, int64(1), triggered[0].ProductID)

	alerts := s.PriceAlerts()
	require.Len(t, alerts, 2)
	assert.False(t, alerts[0].IsActive)
	assert.True(t, alerts[0].CurrentPrice.Equal(decimalOf("100")))

	assert.Equal(t, int64(3), alerts[1].ProductID)
	assert.True(t, alerts[1].IsActive)
	assert.True(t, alerts[1].CurrentPrice.IsZero())
	assert.True(t, alerts[1].TargetPrice.Equal(decimalOf("5")))
}
