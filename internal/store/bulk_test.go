package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/storefront/internal/models"
	"github.com/GTDGit/storefront/internal/notify"
)

func itemIDs(items []models.WishlistItem) []int64 {
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids
}

func TestWishlistStore_BulkRemove_AllSucceed(t *testing.T) {
	api := defaultCatalog()
	items := api.seed(1, 2, 3)
	s, rec := newTestWishlist(t, api, Options{})
	require.NoError(t, s.GetWishlist(context.Background()))

	result, err := s.BulkRemoveFromWishlist(context.Background(), itemIDs(items))

	require.NoError(t, err)
	assert.Equal(t, BulkResult{Succeeded: 3, Failed: 0}, result)
	assert.Empty(t, s.Items())
	assert.Equal(t, []notify.Toast{{Level: notify.LevelSuccess, Message: "3 items removed"}}, rec.Toasts())
}

func TestWishlistStore_BulkRemove_PartialFailure(t *testing.T) {
	api := defaultCatalog()
	items := api.seed(1, 2, 3)
	api.removeErrs[items[1].ID] = errors.New("server error")
	s, rec := newTestWishlist(t, api, Options{Policy: ReconcileLocal})
	require.NoError(t, s.GetWishlist(context.Background()))

	result, err := s.BulkRemoveFromWishlist(context.Background(), itemIDs(items))

	require.NoError(t, err)
	assert.Equal(t, BulkResult{Succeeded: 2, Failed: 1}, result)
	assert.Equal(t, []int64{2}, productIDs(s.Items()))
	assert.Equal(t, []notify.Toast{{Level: notify.LevelError, Message: "2 items removed, 1 failed"}}, rec.Toasts())
}

func TestWishlistStore_BulkRemove_AllFail(t *testing.T) {
	api := defaultCatalog()
	items := api.seed(1, 2)
	for _, item := range items {
		api.removeErrs[item.ID] = errors.New("server error")
	}
	s, rec := newTestWishlist(t, api, Options{})
	require.NoError(t, s.GetWishlist(context.Background()))

	result, err := s.BulkRemoveFromWishlist(context.Background(), itemIDs(items))

	require.Error(t, err)
	assert.Equal(t, BulkResult{Succeeded: 0, Failed: 2}, result)
	assert.Equal(t, 2, s.GetTotalItems())
	require.Len(t, rec.Toasts(), 1)
	assert.Equal(t, notify.LevelError, rec.Toasts()[0].Level)
}

func TestWishlistStore_BulkMoveToCart_SingleItemWording(t *testing.T) {
	api := defaultCatalog()
	items := api.seed(1)
	s, rec := newTestWishlist(t, api, Options{})
	require.NoError(t, s.GetWishlist(context.Background()))

	result, err := s.BulkMoveToCart(context.Background(), itemIDs(items))

	require.NoError(t, err)
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, "1 item moved to cart", rec.Toasts()[0].Message)
	assert.Len(t, api.cart, 1)
}

func TestWishlistStore_Bulk_EmptyIsNoop(t *testing.T) {
	s, rec := newTestWishlist(t, defaultCatalog(), Options{})

	result, err := s.BulkRemoveFromWishlist(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, BulkResult{}, result)
	assert.Empty(t, rec.Toasts())
}
