package main

import (
	"context"
	"fmt"

	"github.com/GTDGit/storefront/internal/config"
	"github.com/GTDGit/storefront/internal/notify"
	"github.com/GTDGit/storefront/internal/session"
	"github.com/GTDGit/storefront/internal/storage"
	"github.com/GTDGit/storefront/internal/store"
	"github.com/GTDGit/storefront/pkg/storefront"
)

// app is the wired client side: local storage, identity and the two stores
// sharing one backend client.
type app struct {
	storage  storage.Storage
	session  *session.Manager
	wishlist *store.WishlistStore
	cart     *store.CartStore
}

type appOptions struct {
	notifier notify.Notifier
	// clipboard enables copying share links on this machine.
	clipboard bool
	// onAuthRequired runs after the session has been cleared by a 401.
	onAuthRequired func(redirect string)
}

func newApp(ctx context.Context, cfg *config.Config, opts appOptions) (*app, error) {
	// 1. Local storage
	st, err := storage.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.Storage.Driver, err)
	}

	// 2. Identity
	sess := session.NewManager(ctx, st)

	// 3. Backend client
	client := storefront.NewClient(storefront.Config{
		BaseURL:     cfg.API.BaseURL,
		Timeout:     cfg.API.Timeout,
		LoginPath:   cfg.API.LoginPath,
		AuthRoutes:  cfg.API.AuthRoutes,
		Credentials: sess,
		OnUnauthorized: func(redirect string) {
			sess.HandleUnauthorized(redirect)
			if opts.onAuthRequired != nil {
				opts.onAuthRequired(redirect)
			}
		},
	})

	// 4. Stores
	var env *store.Environment
	if cfg.Origin != "" {
		env = &store.Environment{Origin: cfg.Origin}
		if opts.clipboard {
			env.Clipboard = store.SystemClipboard()
		}
	}
	storeOpts := store.Options{
		Storage:     st,
		Notifier:    opts.notifier,
		Policy:      store.ReconcilePolicy(cfg.Reconcile),
		Environment: env,
	}

	return &app{
		storage:  st,
		session:  sess,
		wishlist: store.NewWishlistStore(ctx, client, storeOpts),
		cart:     store.NewCartStore(ctx, client, storeOpts),
	}, nil
}

func (a *app) Close() error {
	return a.storage.Close()
}
