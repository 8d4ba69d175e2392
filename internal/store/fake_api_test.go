package store

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/GTDGit/storefront/internal/models"
	"github.com/GTDGit/storefront/pkg/storefront"
)

// fakeBackend is an in-memory stand-in for the storefront API.
type fakeBackend struct {
	mu       sync.Mutex
	catalog  map[int64]models.Product
	wishlist []models.WishlistItem
	cart     []models.CartItem
	nextID   int64

	getErr     error
	removeErrs map[int64]error
	statsErr   error

	// gate, when set, holds GetWishlist after it has snapshotted the list.
	gate chan struct{}

	getCalls   int
	statsCalls int
}

func newFakeBackend(products ...models.Product) *fakeBackend {
	f := &fakeBackend{
		catalog:    make(map[int64]models.Product),
		removeErrs: make(map[int64]error),
		nextID:     100,
	}
	for _, p := range products {
		f.catalog[p.ID] = p
	}
	return f
}

func product(id int64, title, price string, stock int) models.Product {
	return models.Product{ID: id, Title: title, Price: decimal.RequireFromString(price), Stock: stock}
}

// seed puts productIDs on the backend wishlist and returns the created items.
func (f *fakeBackend) seed(productIDs ...int64) []models.WishlistItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.WishlistItem
	for _, pid := range productIDs {
		f.nextID++
		item := models.WishlistItem{ID: f.nextID, ProductID: pid, Product: f.catalog[pid]}
		f.wishlist = append(f.wishlist, item)
		out = append(out, item)
	}
	return out
}

func (f *fakeBackend) setPrice(productID int64, price string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.catalog[productID]
	p.Price = decimal.RequireFromString(price)
	f.catalog[productID] = p
	for i := range f.wishlist {
		if f.wishlist[i].ProductID == productID {
			f.wishlist[i].Product = p
		}
	}
}

func (f *fakeBackend) setGetErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getErr = err
}

func (f *fakeBackend) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getCalls
}

func (f *fakeBackend) GetWishlist(ctx context.Context) ([]models.WishlistItem, error) {
	f.mu.Lock()
	f.getCalls++
	if f.getErr != nil {
		err := f.getErr
		f.mu.Unlock()
		return nil, err
	}
	items := append([]models.WishlistItem{}, f.wishlist...)
	gate := f.gate
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return items, nil
}

func (f *fakeBackend) AddToWishlist(_ context.Context, productID int64) (*models.WishlistItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, item := range f.wishlist {
		if item.ProductID == productID {
			cp := item
			return &cp, nil
		}
	}
	f.nextID++
	item := models.WishlistItem{ID: f.nextID, ProductID: productID, Product: f.catalog[productID]}
	f.wishlist = append(f.wishlist, item)
	return &item, nil
}

func (f *fakeBackend) RemoveFromWishlist(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.removeErrs[id]; err != nil {
		return err
	}
	f.dropLocked(id)
	return nil
}

func (f *fakeBackend) MoveToCart(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.removeErrs[id]; err != nil {
		return err
	}
	for _, item := range f.wishlist {
		if item.ID == id {
			f.nextID++
			f.cart = append(f.cart, models.CartItem{ID: f.nextID, ProductID: item.ProductID, Product: item.Product, Quantity: 1})
		}
	}
	f.dropLocked(id)
	return nil
}

func (f *fakeBackend) dropLocked(id int64) {
	kept := f.wishlist[:0]
	for _, item := range f.wishlist {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	f.wishlist = kept
}

func (f *fakeBackend) ClearWishlist(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.wishlist = nil
	return nil
}

func (f *fakeBackend) CheckWishlistItem(_ context.Context, productID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return false, f.getErr
	}
	for _, item := range f.wishlist {
		if item.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBackend) GetWishlistStats(context.Context) (*models.WishlistStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statsCalls++
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	stats := &models.WishlistStats{TotalItems: len(f.wishlist)}
	for _, item := range f.wishlist {
		stats.TotalValue = stats.TotalValue.Add(item.Product.Price)
		if item.Product.InStock() {
			stats.InStock++
		} else {
			stats.OutOfStock++
		}
	}
	return stats, nil
}

func (f *fakeBackend) GetCart(context.Context) (*models.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	cart := &models.Cart{Items: append([]models.CartItem{}, f.cart...)}
	for _, line := range f.cart {
		cart.Subtotal = cart.Subtotal.Add(line.Product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		cart.TotalItems += line.Quantity
	}
	return cart, nil
}

func (f *fakeBackend) AddToCart(_ context.Context, productID int64, quantity int) (*models.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.cart {
		if f.cart[i].ProductID == productID {
			f.cart[i].Quantity += quantity
			cp := f.cart[i]
			return &cp, nil
		}
	}
	f.nextID++
	line := models.CartItem{ID: f.nextID, ProductID: productID, Product: f.catalog[productID], Quantity: quantity}
	f.cart = append(f.cart, line)
	return &line, nil
}

func (f *fakeBackend) UpdateCartItem(_ context.Context, id int64, quantity int) (*models.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.cart {
		if f.cart[i].ID == id {
			f.cart[i].Quantity = quantity
			cp := f.cart[i]
			return &cp, nil
		}
	}
	return nil, &storefront.APIError{StatusCode: 404, Message: "Cart item not found"}
}

func (f *fakeBackend) RemoveCartItem(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.cart[:0]
	for _, line := range f.cart {
		if line.ID != id {
			kept = append(kept, line)
		}
	}
	f.cart = kept
	return nil
}

func (f *fakeBackend) ClearCart(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cart = nil
	return nil
}
