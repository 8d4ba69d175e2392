package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/storefront/internal/notify"
)

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

func TestWishlistStore_ShareWishlist_NoEnvironment(t *testing.T) {
	s, rec := newTestWishlist(t, defaultCatalog(), Options{})

	link, err := s.ShareWishlist()

	assert.ErrorIs(t, err, ErrNoBrowser)
	assert.Empty(t, link)
	assert.Equal(t, 1, rec.Count(notify.LevelError))
}

func TestWishlistStore_ShareWishlist_EmptyOrigin(t *testing.T) {
	s, _ := newTestWishlist(t, defaultCatalog(), Options{Environment: &Environment{}})

	_, err := s.ShareWishlist()

	assert.ErrorIs(t, err, ErrNoBrowser)
}

func TestWishlistStore_ShareWishlist_CopiesLink(t *testing.T) {
	api := defaultCatalog()
	api.seed(1, 3)
	clip := &fakeClipboard{}
	s, rec := newTestWishlist(t, api, Options{Environment: &Environment{
		Origin:    "https://books.example.com/",
		Clipboard: clip,
	}})
	require.NoError(t, s.GetWishlist(context.Background()))

	link, err := s.ShareWishlist()

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, "https://books.example.com/wishlist/shared?data="))
	assert.Equal(t, link, clip.text)
	assert.Equal(t, "Wishlist link copied to clipboard", rec.Toasts()[0].Message)

	shared, err := DecodeSharedWishlist(link)
	require.NoError(t, err)
	require.Len(t, shared.Items, 2)
	assert.Equal(t, int64(1), shared.Items[0].ProductID)
	assert.Equal(t, "Dune", shared.Items[0].Title)
	assert.True(t, shared.Items[1].Price.Equal(decimalOf("20")))
	assert.False(t, shared.SharedAt.IsZero())
}

func TestWishlistStore_ShareWishlist_ClipboardFailureStillReturnsLink(t *testing.T) {
	api := defaultCatalog()
	s, rec := newTestWishlist(t, api, Options{Environment: &Environment{
		Origin:    "https://books.example.com",
		Clipboard: &fakeClipboard{err: errors.New("no display")},
	}})

	link, err := s.ShareWishlist()

	require.NoError(t, err)
	assert.NotEmpty(t, link)
	assert.Equal(t, "Wishlist link created", rec.Toasts()[0].Message)
}

func TestDecodeSharedWishlist_Invalid(t *testing.T) {
	for _, link := range []string{
		"https://books.example.com/wishlist/shared",
		"https://books.example.com/wishlist/shared?data=%%%",
		"https://books.example.com/wishlist/shared?data=bm90LWpzb24",
	} {
		_, err := DecodeSharedWishlist(link)
		assert.Error(t, err, link)
	}
}
