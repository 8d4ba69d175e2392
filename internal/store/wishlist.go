// Package store holds the client-side wishlist and cart state: a read-through
// cache of the backend, plus the client-owned price alerts and recently-added
// list, persisted to local storage.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/storefront/internal/models"
	"github.com/GTDGit/storefront/internal/notify"
	"github.com/GTDGit/storefront/internal/storage"
	"github.com/GTDGit/storefront/pkg/storefront"
)

// WishlistStorageKey is the local storage key of the wishlist blob.
const WishlistStorageKey = "wishlist-storage"

const (
	recentlyAddedView  = 5
	recentlyAddedLimit = 20
)

// ReconcilePolicy decides how local state catches up after a confirmed
// mutation. Both apply the mutation locally first.
type ReconcilePolicy string

const (
	// ReconcileRefetch follows the local patch with a full list fetch.
	ReconcileRefetch ReconcilePolicy = "refetch"
	// ReconcileLocal keeps the local patch only.
	ReconcileLocal ReconcilePolicy = "local"
)

// WishlistAPI is the slice of the backend client the wishlist store uses.
type WishlistAPI interface {
	GetWishlist(ctx context.Context) ([]models.WishlistItem, error)
	AddToWishlist(ctx context.Context, productID int64) (*models.WishlistItem, error)
	RemoveFromWishlist(ctx context.Context, id int64) error
	MoveToCart(ctx context.Context, id int64) error
	ClearWishlist(ctx context.Context) error
	CheckWishlistItem(ctx context.Context, productID int64) (bool, error)
	GetWishlistStats(ctx context.Context) (*models.WishlistStats, error)
}

// Options configures a store. Zero values are usable: no persistence, toasts
// to the log, refetch reconciliation, no browser environment.
type Options struct {
	Storage     storage.Storage
	Notifier    notify.Notifier
	Policy      ReconcilePolicy
	Environment *Environment
}

func (o *Options) withDefaults() {
	if o.Storage == nil {
		o.Storage = storage.Nop{}
	}
	if o.Notifier == nil {
		o.Notifier = notify.LogNotifier{}
	}
	if o.Policy == "" {
		o.Policy = ReconcileRefetch
	}
}

// wishlistState is the persisted shape of the store.
type wishlistState struct {
	WishlistItems []models.WishlistItem `json:"wishlistItems"`
	Stats         *models.WishlistStats `json:"stats"`
	RecentlyAdded []models.Product      `json:"recentlyAdded"`
	PriceAlerts   []models.PriceAlert   `json:"priceAlerts"`
}

// WishlistStore mirrors the user's wishlist. The backend owns items and
// stats; price alerts and the recently-added list never leave the client.
type WishlistStore struct {
	api      WishlistAPI
	notifier notify.Notifier
	policy   ReconcilePolicy
	env      *Environment
	status   *statusTracker
	persist  *persister

	mu            sync.RWMutex
	items         []models.WishlistItem
	stats         *models.WishlistStats
	recentlyAdded []models.Product
	priceAlerts   []models.PriceAlert
	// gen increments on every write to items. A fetch only lands if no
	// other write happened while it was in flight.
	gen uint64
}

// NewWishlistStore builds the store and restores any persisted state.
func NewWishlistStore(ctx context.Context, api WishlistAPI, opts Options) *WishlistStore {
	opts.withDefaults()
	s := &WishlistStore{
		api:      api,
		notifier: opts.Notifier,
		policy:   opts.Policy,
		env:      opts.Environment,
		status:   newStatusTracker(),
		persist:  newPersister(opts.Storage, WishlistStorageKey),
		items:    []models.WishlistItem{},
	}

	var st wishlistState
	if s.persist.load(ctx, &st) {
		s.adopt(st)
	}
	return s
}

// GetWishlist replaces the local list with the backend's. On failure the
// previous state is kept.
func (s *WishlistStore) GetWishlist(ctx context.Context) error {
	done := s.status.begin(OpFetch)
	defer done()

	if _, err := s.fetch(ctx, nil); err != nil {
		s.fail(err, "get_wishlist", "Failed to load wishlist")
		return err
	}
	s.save(ctx)
	return nil
}

// Refresh is GetWishlist for background callers: failures are logged and
// returned but raise no toast.
func (s *WishlistStore) Refresh(ctx context.Context) error {
	done := s.status.begin(OpFetch)
	defer done()

	if _, err := s.fetch(ctx, nil); err != nil {
		return err
	}
	s.save(ctx)
	return nil
}

// AddToWishlist saves product and reconciles with the created item.
func (s *WishlistStore) AddToWishlist(ctx context.Context, product models.Product) error {
	done := s.status.begin(OpAdd)
	defer done()

	created, err := s.api.AddToWishlist(ctx, product.ID)
	if err != nil {
		s.fail(err, "add_to_wishlist", "Failed to add to wishlist")
		return err
	}

	item := *created
	if item.ProductID == 0 {
		item.ProductID = product.ID
	}
	if item.Product.ID == 0 {
		item.Product = product
	}

	s.mu.Lock()
	s.pushRecentlyAddedLocked(item.Product)
	s.mu.Unlock()

	s.reconcile(ctx, func(items []models.WishlistItem) []models.WishlistItem {
		for _, existing := range items {
			if existing.ID == item.ID || existing.ProductID == item.ProductID {
				return items
			}
		}
		return append(items, item)
	})

	s.notifier.Success(fmt.Sprintf("%s added to wishlist", displayTitle(item.Product)))
	return nil
}

// RemoveFromWishlist deletes the item with the given wishlist id.
func (s *WishlistStore) RemoveFromWishlist(ctx context.Context, id int64) error {
	done := s.status.begin(OpRemove)
	defer done()

	if err := s.api.RemoveFromWishlist(ctx, id); err != nil {
		s.fail(err, "remove_from_wishlist", "Failed to remove from wishlist")
		return err
	}

	s.reconcile(ctx, withoutIDs(id))
	s.notifier.Success("Removed from wishlist")
	return nil
}

// MoveToCart asks the backend to move an item into the cart and drops it
// from the wishlist. The cart store is not touched; it picks the line up on
// its next refresh.
func (s *WishlistStore) MoveToCart(ctx context.Context, id int64) error {
	done := s.status.begin(OpMoveToCart)
	defer done()

	if err := s.api.MoveToCart(ctx, id); err != nil {
		s.fail(err, "move_to_cart", "Failed to move item to cart")
		return err
	}

	s.reconcile(ctx, withoutIDs(id))
	s.notifier.Success("Moved to cart")
	return nil
}

// ClearWishlist empties the wishlist and drops the cached stats.
func (s *WishlistStore) ClearWishlist(ctx context.Context) error {
	done := s.status.begin(OpClear)
	defer done()

	if err := s.api.ClearWishlist(ctx); err != nil {
		s.fail(err, "clear_wishlist", "Failed to clear wishlist")
		return err
	}

	s.reconcile(ctx, func([]models.WishlistItem) []models.WishlistItem {
		return []models.WishlistItem{}
	})
	s.notifier.Success("Wishlist cleared")
	return nil
}

// CheckWishlistItem asks the backend whether productID is wishlisted. Any
// failure reads as false.
func (s *WishlistStore) CheckWishlistItem(ctx context.Context, productID int64) bool {
	ok, err := s.api.CheckWishlistItem(ctx, productID)
	if err != nil {
		log.Debug().Err(err).Int64("product_id", productID).Msg("Wishlist check failed")
		return false
	}
	return ok
}

// Stats returns the cached aggregate counts, fetching them when a mutation
// has invalidated the cache.
func (s *WishlistStore) Stats(ctx context.Context) (*models.WishlistStats, error) {
	s.mu.RLock()
	cached := s.stats
	s.mu.RUnlock()
	if cached != nil {
		stats := *cached
		return &stats, nil
	}

	done := s.status.begin(OpStats)
	defer done()

	stats, err := s.api.GetWishlistStats(ctx)
	if err != nil {
		s.fail(err, "get_wishlist_stats", "Failed to load wishlist stats")
		return nil, err
	}

	s.mu.Lock()
	cp := *stats
	s.stats = &cp
	s.mu.Unlock()
	s.save(ctx)
	return stats, nil
}

// IsInWishlist reports whether productID is in the local list.
func (s *WishlistStore) IsInWishlist(productID int64) bool {
	_, ok := s.GetWishlistItemByProductID(productID)
	return ok
}

// GetTotalItems returns the number of items in the local list.
func (s *WishlistStore) GetTotalItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// GetWishlistItemByProductID finds the local item saving productID.
func (s *WishlistStore) GetWishlistItemByProductID(productID int64) (models.WishlistItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if item.ProductID == productID {
			return item, true
		}
	}
	return models.WishlistItem{}, false
}

// GetRecentlyAdded returns the five most recently wishlisted products,
// newest first.
func (s *WishlistStore) GetRecentlyAdded() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := min(len(s.recentlyAdded), recentlyAddedView)
	return append([]models.Product{}, s.recentlyAdded[:n]...)
}

// Items returns a copy of the local list.
func (s *WishlistStore) Items() []models.WishlistItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.WishlistItem{}, s.items...)
}

// IsLoading reports whether any wishlist call is in flight.
func (s *WishlistStore) IsLoading() bool {
	return s.status.any()
}

// Status reports whether a call of kind op is in flight.
func (s *WishlistStore) Status(op Operation) bool {
	return s.status.active(op)
}

// InFlight returns the number of in-flight calls per operation.
func (s *WishlistStore) InFlight() map[Operation]int {
	return s.status.snapshot()
}

// Sync follows writes other processes make to the persisted wishlist and
// adopts them. It blocks until ctx is done.
func (s *WishlistStore) Sync(ctx context.Context) error {
	return s.persist.watch(ctx, func(raw []byte) {
		var st wishlistState
		if err := decodeBlob(raw, &st); err != nil {
			log.Warn().Err(err).Msg("Ignoring unreadable wishlist update")
			return
		}
		s.adopt(st)
		log.Debug().Int("items", len(st.WishlistItems)).Int("alerts", len(st.PriceAlerts)).Msg("Adopted wishlist state from another writer")
	})
}

// fetch loads the list and stores it unless a newer write landed meanwhile.
// A non-nil patch is applied to the loaded list before it is stored.
func (s *WishlistStore) fetch(ctx context.Context, patch func([]models.WishlistItem) []models.WishlistItem) (bool, error) {
	s.mu.RLock()
	startGen := s.gen
	s.mu.RUnlock()

	items, err := s.api.GetWishlist(ctx)
	if err != nil {
		return false, err
	}
	if patch != nil {
		items = patch(items)
	}
	if items == nil {
		items = []models.WishlistItem{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != startGen {
		log.Debug().Msg("Discarding wishlist fetch overtaken by a local write")
		return false, nil
	}
	s.items = items
	s.gen++
	return true, nil
}

// reconcile is the single catch-up path after a confirmed mutation: patch
// the local list, invalidate stats, then refetch under ReconcileRefetch. The
// refetched list gets the same patch, so a backend list that still lags the
// mutation cannot undo it. A failed refetch keeps the patched list.
func (s *WishlistStore) reconcile(ctx context.Context, patch func([]models.WishlistItem) []models.WishlistItem) {
	s.mu.Lock()
	s.items = patch(append([]models.WishlistItem{}, s.items...))
	s.stats = nil
	s.gen++
	s.mu.Unlock()

	if s.policy == ReconcileRefetch {
		if _, err := s.fetch(ctx, patch); err != nil {
			log.Warn().Err(err).Msg("Wishlist refetch after mutation failed, keeping local patch")
		}
	}
	s.save(ctx)
}

func (s *WishlistStore) adopt(st wishlistState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = st.WishlistItems
	if s.items == nil {
		s.items = []models.WishlistItem{}
	}
	s.stats = st.Stats
	s.recentlyAdded = st.RecentlyAdded
	s.priceAlerts = st.PriceAlerts
	s.gen++
}

func (s *WishlistStore) save(ctx context.Context) {
	s.persist.save(ctx, func() any {
		s.mu.RLock()
		defer s.mu.RUnlock()
		st := wishlistState{
			WishlistItems: append([]models.WishlistItem{}, s.items...),
			RecentlyAdded: append([]models.Product{}, s.recentlyAdded...),
			PriceAlerts:   append([]models.PriceAlert{}, s.priceAlerts...),
		}
		if s.stats != nil {
			stats := *s.stats
			st.Stats = &stats
		}
		return st
	})
}

// pushRecentlyAddedLocked moves product to the front of the list.
func (s *WishlistStore) pushRecentlyAddedLocked(product models.Product) {
	list := make([]models.Product, 0, len(s.recentlyAdded)+1)
	list = append(list, product)
	for _, p := range s.recentlyAdded {
		if p.ID != product.ID {
			list = append(list, p)
		}
	}
	if len(list) > recentlyAddedLimit {
		list = list[:recentlyAddedLimit]
	}
	s.recentlyAdded = list
}

func (s *WishlistStore) fail(err error, action, fallback string) {
	log.Error().Err(err).Str("action", action).Msg("Wishlist operation failed")
	s.notifier.Error(storefront.Message(err, fallback))
}

// withoutIDs returns a patch dropping items whose wishlist id is in ids.
func withoutIDs(ids ...int64) func([]models.WishlistItem) []models.WishlistItem {
	drop := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	return func(items []models.WishlistItem) []models.WishlistItem {
		kept := items[:0]
		for _, item := range items {
			if _, ok := drop[item.ID]; !ok {
				kept = append(kept, item)
			}
		}
		return kept
	}
}

func displayTitle(p models.Product) string {
	if p.Title != "" {
		return p.Title
	}
	return "Item"
}
