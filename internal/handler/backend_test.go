package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/GTDGit/storefront/internal/middleware"
	"github.com/GTDGit/storefront/internal/models"
	"github.com/GTDGit/storefront/internal/session"
	"github.com/GTDGit/storefront/internal/storage"
	"github.com/GTDGit/storefront/internal/store"
	"github.com/GTDGit/storefront/pkg/storefront"
)

// testBackend is a minimal storefront REST API served over httptest.
type testBackend struct {
	mu           sync.Mutex
	catalog      map[int64]models.Product
	wishlist     []models.WishlistItem
	cart         []models.CartItem
	nextID       int64
	unauthorized bool
}

func newTestBackend() *testBackend {
	return &testBackend{
		nextID: 100,
		catalog: map[int64]models.Product{
			1: {ID: 1, Title: "Dune", Price: decimal.NewFromInt(100), Stock: 3},
			2: {ID: 2, Title: "Emma", Price: decimal.RequireFromString("45.50"), Stock: 0},
		},
	}
}

func (b *testBackend) reply(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": status < 300, "message": http.StatusText(status), "data": data})
}

func (b *testBackend) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /wishlist", func(w http.ResponseWriter, r *http.Request) {
		b.reply(w, http.StatusOK, b.wishlist)
	})
	mux.HandleFunc("POST /wishlist", func(w http.ResponseWriter, r *http.Request) {
		var req storefront.AddWishlistRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.nextID++
		item := models.WishlistItem{ID: b.nextID, ProductID: req.ProductID, Product: b.catalog[req.ProductID]}
		b.wishlist = append(b.wishlist, item)
		b.reply(w, http.StatusCreated, item)
	})
	mux.HandleFunc("DELETE /wishlist/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if !b.dropWishlist(id) {
			b.reply(w, http.StatusNotFound, nil)
			return
		}
		b.reply(w, http.StatusOK, nil)
	})
	mux.HandleFunc("POST /wishlist/{id}/move-to-cart", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		for _, item := range b.wishlist {
			if item.ID == id {
				b.nextID++
				b.cart = append(b.cart, models.CartItem{ID: b.nextID, ProductID: item.ProductID, Product: item.Product, Quantity: 1})
			}
		}
		if !b.dropWishlist(id) {
			b.reply(w, http.StatusNotFound, nil)
			return
		}
		b.reply(w, http.StatusOK, nil)
	})
	mux.HandleFunc("GET /wishlist/check/{pid}", func(w http.ResponseWriter, r *http.Request) {
		pid, _ := strconv.ParseInt(r.PathValue("pid"), 10, 64)
		in := false
		for _, item := range b.wishlist {
			in = in || item.ProductID == pid
		}
		b.reply(w, http.StatusOK, models.WishlistCheck{InWishlist: in})
	})
	mux.HandleFunc("GET /cart", func(w http.ResponseWriter, r *http.Request) {
		cart := models.Cart{Items: b.cart}
		for _, line := range b.cart {
			cart.Subtotal = cart.Subtotal.Add(line.Product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
			cart.TotalItems += line.Quantity
		}
		b.reply(w, http.StatusOK, cart)
	})
	mux.HandleFunc("POST /cart", func(w http.ResponseWriter, r *http.Request) {
		var req storefront.AddCartRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.nextID++
		line := models.CartItem{ID: b.nextID, ProductID: req.ProductID, Product: b.catalog[req.ProductID], Quantity: req.Quantity}
		b.cart = append(b.cart, line)
		b.reply(w, http.StatusCreated, line)
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.unauthorized {
			b.reply(w, http.StatusUnauthorized, nil)
			return
		}
		mux.ServeHTTP(w, r)
	})
}

func (b *testBackend) dropWishlist(id int64) bool {
	for i, item := range b.wishlist {
		if item.ID == id {
			b.wishlist = append(b.wishlist[:i], b.wishlist[i+1:]...)
			return true
		}
	}
	return false
}

func (b *testBackend) setUnauthorized(v bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.unauthorized = v
}

type testServer struct {
	router   *gin.Engine
	backend  *testBackend
	session  *session.Manager
	wishlist *store.WishlistStore
	cart     *store.CartStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	backend := newTestBackend()
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)

	sess := session.NewManager(ctx, storage.NewMemory())
	client := storefront.NewClient(storefront.Config{
		BaseURL:        srv.URL,
		Credentials:    sess,
		OnUnauthorized: sess.HandleUnauthorized,
	})
	wishlist := store.NewWishlistStore(ctx, client, store.Options{
		Policy:      store.ReconcileRefetch,
		Environment: &store.Environment{Origin: "https://books.example.com"},
	})
	cart := store.NewCartStore(ctx, client, store.Options{})

	wh := NewWishlistHandler(wishlist, sess)
	ah := NewAlertHandler(wishlist)
	ch := NewCartHandler(cart, sess)
	sh := NewSessionHandler(sess)

	router := gin.New()
	router.Use(middleware.CurrentPathMiddleware())
	v1 := router.Group("/v1")
	{
		w := v1.Group("/wishlist")
		w.GET("", wh.GetWishlist)
		w.POST("", wh.AddToWishlist)
		w.GET("/check/:productId", wh.CheckItem)
		w.POST("/share", wh.Share)
		w.POST("/bulk/remove", wh.BulkRemove)
		w.DELETE("/:id", wh.RemoveFromWishlist)
		w.POST("/:id/move-to-cart", wh.MoveToCart)
		w.GET("/alerts", ah.ListAlerts)
		w.POST("/alerts", ah.AddAlert)
		w.POST("/alerts/check", ah.CheckAlerts)

		c := v1.Group("/cart")
		c.GET("", ch.GetCart)
		c.POST("", ch.AddToCart)
		c.PUT("/:id", ch.UpdateItem)

		s := v1.Group("/session")
		s.GET("", sh.GetSession)
		s.POST("", sh.Login)
		s.DELETE("", sh.Logout)
	}

	return &testServer{router: router, backend: backend, session: sess, wishlist: wishlist, cart: cart}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
