package store

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// SharedWishlistPath is the storefront route that renders a shared wishlist.
const SharedWishlistPath = "/wishlist/shared"

// ErrNoBrowser is returned by operations that need a browser-like
// environment when the store was built without one.
var ErrNoBrowser = errors.New("wishlist sharing requires a browser environment")

// Clipboard receives share links.
type Clipboard interface {
	WriteAll(text string) error
}

// Environment stands in for the browser window: the public origin share
// links point at and an optional clipboard.
type Environment struct {
	Origin    string
	Clipboard Clipboard
}

type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// SystemClipboard returns the OS clipboard, or nil where none is usable
// (headless servers, containers).
func SystemClipboard() Clipboard {
	if clipboard.Unsupported {
		return nil
	}
	return systemClipboard{}
}

// SharedItem is one product in a share link.
type SharedItem struct {
	ProductID int64           `json:"productId"`
	Title     string          `json:"title"`
	Author    string          `json:"author,omitempty"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"image,omitempty"`
}

// SharedWishlist is the payload encoded into a share link.
type SharedWishlist struct {
	Items    []SharedItem `json:"items"`
	SharedAt time.Time    `json:"sharedAt"`
}

// ShareWishlist encodes the current list into a link, copies it to the
// clipboard when one is available and returns it. Nothing is stored on the
// backend. Without an Environment it fails with ErrNoBrowser.
func (s *WishlistStore) ShareWishlist() (string, error) {
	if s.env == nil || s.env.Origin == "" {
		s.notifier.Error("Sharing is not available here")
		return "", ErrNoBrowser
	}

	s.mu.RLock()
	payload := SharedWishlist{Items: make([]SharedItem, 0, len(s.items)), SharedAt: time.Now().UTC()}
	for _, item := range s.items {
		payload.Items = append(payload.Items, SharedItem{
			ProductID: item.ProductID,
			Title:     item.Product.Title,
			Author:    item.Product.Author,
			Price:     item.Product.Price,
			ImageURL:  item.Product.ImageURL,
		})
	}
	s.mu.RUnlock()

	link, err := EncodeShareURL(s.env.Origin, payload)
	if err != nil {
		s.notifier.Error("Failed to share wishlist")
		return "", err
	}

	if s.env.Clipboard != nil {
		if err := s.env.Clipboard.WriteAll(link); err != nil {
			log.Warn().Err(err).Msg("Clipboard write failed")
			s.notifier.Success("Wishlist link created")
			return link, nil
		}
		s.notifier.Success("Wishlist link copied to clipboard")
		return link, nil
	}
	s.notifier.Success("Wishlist link created")
	return link, nil
}

// EncodeShareURL builds origin + SharedWishlistPath?data=<base64url(JSON)>.
func EncodeShareURL(origin string, payload SharedWishlist) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode shared wishlist: %w", err)
	}
	data := base64.RawURLEncoding.EncodeToString(raw)
	return strings.TrimSuffix(origin, "/") + SharedWishlistPath + "?" + url.Values{"data": {data}}.Encode(), nil
}

// DecodeSharedWishlist parses a link built by ShareWishlist.
func DecodeSharedWishlist(link string) (*SharedWishlist, error) {
	u, err := url.Parse(link)
	if err != nil {
		return nil, fmt.Errorf("parse share link: %w", err)
	}
	data := u.Query().Get("data")
	if data == "" {
		return nil, errors.New("share link has no data parameter")
	}
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(data, "="))
	if err != nil {
		return nil, fmt.Errorf("decode share link: %w", err)
	}
	var payload SharedWishlist
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode share link: %w", err)
	}
	return &payload, nil
}
