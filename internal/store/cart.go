package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/GTDGit/storefront/internal/models"
	"github.com/GTDGit/storefront/internal/notify"
	"github.com/GTDGit/storefront/pkg/storefront"
)

// CartStorageKey is the local storage key of the cart blob.
const CartStorageKey = "cart-storage"

// ErrInvalidQuantity is returned for a quantity below one.
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// CartAPI is the slice of the backend client the cart store uses.
type CartAPI interface {
	GetCart(ctx context.Context) (*models.Cart, error)
	AddToCart(ctx context.Context, productID int64, quantity int) (*models.CartItem, error)
	UpdateCartItem(ctx context.Context, id int64, quantity int) (*models.CartItem, error)
	RemoveCartItem(ctx context.Context, id int64) error
	ClearCart(ctx context.Context) error
}

type cartState struct {
	Items    []models.CartItem `json:"items"`
	Subtotal decimal.Decimal   `json:"subtotal"`
}

// CartStore mirrors the shopping cart. The subtotal is whatever the backend
// last reported; the client never prices anything.
type CartStore struct {
	api      CartAPI
	notifier notify.Notifier
	policy   ReconcilePolicy
	status   *statusTracker
	persist  *persister

	mu       sync.RWMutex
	items    []models.CartItem
	subtotal decimal.Decimal
	gen      uint64
}

// NewCartStore builds the store and restores any persisted state.
func NewCartStore(ctx context.Context, api CartAPI, opts Options) *CartStore {
	opts.withDefaults()
	s := &CartStore{
		api:      api,
		notifier: opts.Notifier,
		policy:   opts.Policy,
		status:   newStatusTracker(),
		persist:  newPersister(opts.Storage, CartStorageKey),
		items:    []models.CartItem{},
	}

	var st cartState
	if s.persist.load(ctx, &st) {
		s.adopt(st)
	}
	return s
}

// RefreshCart replaces local state with the backend's cart.
func (s *CartStore) RefreshCart(ctx context.Context) error {
	done := s.status.begin(OpCartFetch)
	defer done()

	if err := s.fetch(ctx); err != nil {
		s.fail(err, "refresh_cart", "Failed to load cart")
		return err
	}
	s.save(ctx)
	return nil
}

// Refresh is RefreshCart for background callers: no toast on failure.
func (s *CartStore) Refresh(ctx context.Context) error {
	done := s.status.begin(OpCartFetch)
	defer done()

	if err := s.fetch(ctx); err != nil {
		return err
	}
	s.save(ctx)
	return nil
}

// AddToCart adds quantity units of product.
func (s *CartStore) AddToCart(ctx context.Context, product models.Product, quantity int) error {
	if quantity < 1 {
		s.notifier.Error("Quantity must be at least 1")
		return ErrInvalidQuantity
	}

	done := s.status.begin(OpCartAdd)
	defer done()

	created, err := s.api.AddToCart(ctx, product.ID, quantity)
	if err != nil {
		s.fail(err, "add_to_cart", "Failed to add to cart")
		return err
	}

	line := *created
	if line.ProductID == 0 {
		line.ProductID = product.ID
	}
	if line.Product.ID == 0 {
		line.Product = product
	}

	s.reconcile(ctx, func(items []models.CartItem) []models.CartItem {
		for i := range items {
			if items[i].ID == line.ID {
				items[i] = line
				return items
			}
		}
		return append(items, line)
	})
	s.notifier.Success(fmt.Sprintf("%s added to cart", displayTitle(line.Product)))
	return nil
}

// UpdateQuantity sets the quantity of cart line id.
func (s *CartStore) UpdateQuantity(ctx context.Context, id int64, quantity int) error {
	if quantity < 1 {
		s.notifier.Error("Quantity must be at least 1")
		return ErrInvalidQuantity
	}

	done := s.status.begin(OpCartUpdate)
	defer done()

	if _, err := s.api.UpdateCartItem(ctx, id, quantity); err != nil {
		s.fail(err, "update_cart_item", "Failed to update cart")
		return err
	}

	s.reconcile(ctx, func(items []models.CartItem) []models.CartItem {
		for i := range items {
			if items[i].ID == id {
				items[i].Quantity = quantity
			}
		}
		return items
	})
	return nil
}

// RemoveFromCart deletes cart line id.
func (s *CartStore) RemoveFromCart(ctx context.Context, id int64) error {
	done := s.status.begin(OpCartRemove)
	defer done()

	if err := s.api.RemoveCartItem(ctx, id); err != nil {
		s.fail(err, "remove_cart_item", "Failed to remove from cart")
		return err
	}

	s.reconcile(ctx, func(items []models.CartItem) []models.CartItem {
		kept := items[:0]
		for _, item := range items {
			if item.ID != id {
				kept = append(kept, item)
			}
		}
		return kept
	})
	s.notifier.Success("Removed from cart")
	return nil
}

// ClearCart empties the cart.
func (s *CartStore) ClearCart(ctx context.Context) error {
	done := s.status.begin(OpCartClear)
	defer done()

	if err := s.api.ClearCart(ctx); err != nil {
		s.fail(err, "clear_cart", "Failed to clear cart")
		return err
	}

	s.mu.Lock()
	s.subtotal = decimal.Zero
	s.mu.Unlock()
	s.reconcile(ctx, func([]models.CartItem) []models.CartItem {
		return []models.CartItem{}
	})
	s.notifier.Success("Cart cleared")
	return nil
}

// GetTotalItems returns the number of units across all lines.
func (s *CartStore) GetTotalItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

// Subtotal returns the subtotal from the last backend fetch.
func (s *CartStore) Subtotal() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.subtotal
}

// Items returns a copy of the cart lines.
func (s *CartStore) Items() []models.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.CartItem{}, s.items...)
}

// Cart returns the local view in the backend's shape.
func (s *CartStore) Cart() models.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return models.Cart{
		Items:      append([]models.CartItem{}, s.items...),
		Subtotal:   s.subtotal,
		TotalItems: total,
	}
}

// IsLoading reports whether any cart call is in flight.
func (s *CartStore) IsLoading() bool {
	return s.status.any()
}

// Status reports whether a call of kind op is in flight.
func (s *CartStore) Status(op Operation) bool {
	return s.status.active(op)
}

// Sync adopts cart writes made by other processes until ctx is done.
func (s *CartStore) Sync(ctx context.Context) error {
	return s.persist.watch(ctx, func(raw []byte) {
		var st cartState
		if err := decodeBlob(raw, &st); err != nil {
			log.Warn().Err(err).Msg("Ignoring unreadable cart update")
			return
		}
		s.adopt(st)
	})
}

func (s *CartStore) fetch(ctx context.Context) error {
	s.mu.RLock()
	startGen := s.gen
	s.mu.RUnlock()

	cart, err := s.api.GetCart(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != startGen {
		log.Debug().Msg("Discarding cart fetch overtaken by a local write")
		return nil
	}
	s.items = cart.Items
	if s.items == nil {
		s.items = []models.CartItem{}
	}
	s.subtotal = cart.Subtotal
	s.gen++
	return nil
}

// reconcile mirrors WishlistStore.reconcile for cart lines.
func (s *CartStore) reconcile(ctx context.Context, patch func([]models.CartItem) []models.CartItem) {
	s.mu.Lock()
	s.items = patch(append([]models.CartItem{}, s.items...))
	s.gen++
	s.mu.Unlock()

	if s.policy == ReconcileRefetch {
		if err := s.fetch(ctx); err != nil {
			log.Warn().Err(err).Msg("Cart refetch after mutation failed, keeping local patch")
		}
	}
	s.save(ctx)
}

func (s *CartStore) adopt(st cartState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = st.Items
	if s.items == nil {
		s.items = []models.CartItem{}
	}
	s.subtotal = st.Subtotal
	s.gen++
}

func (s *CartStore) save(ctx context.Context) {
	s.persist.save(ctx, func() any {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return cartState{Items: append([]models.CartItem{}, s.items...), Subtotal: s.subtotal}
	})
}

func (s *CartStore) fail(err error, action, fallback string) {
	log.Error().Err(err).Str("action", action).Msg("Cart operation failed")
	s.notifier.Error(storefront.Message(err, fallback))
}
