// Package session tracks the caller's identity: the bearer token issued by
// the backend and the guest session id used before login.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/storefront/internal/storage"
)

// StorageKey is the local storage key holding the auth state.
const StorageKey = "auth-storage"

const persistTimeout = 2 * time.Second

type state struct {
	Token           string `json:"token,omitempty"`
	SessionID       string `json:"sessionId,omitempty"`
	PendingRedirect string `json:"pendingRedirect,omitempty"`
}

// Claims is the subset of token claims shown to the user.
type Claims struct {
	Subject   string     `json:"subject"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// Manager implements storefront.Credentials on top of local storage.
type Manager struct {
	mu      sync.Mutex
	storage storage.Storage
	state   state
	now     func() time.Time
}

// NewManager loads any persisted auth state.
func NewManager(ctx context.Context, st storage.Storage) *Manager {
	m := &Manager{storage: st, now: time.Now}

	raw, err := st.Get(ctx, StorageKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		log.Warn().Err(err).Msg("Failed to load auth state")
	default:
		if err := json.Unmarshal(raw, &m.state); err != nil {
			log.Warn().Err(err).Msg("Discarding corrupt auth state")
			m.state = state{}
		}
	}
	return m
}

// Token returns the bearer token, dropping it once its exp claim has passed.
// Opaque (non-JWT) tokens are returned as is.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Token == "" {
		return ""
	}
	if claims, ok := parseClaims(m.state.Token); ok && claims.ExpiresAt != nil && !claims.ExpiresAt.After(m.now()) {
		log.Info().Str("subject", claims.Subject).Msg("Stored token expired, dropping it")
		m.state.Token = ""
		m.persistLocked()
		return ""
	}
	return m.state.Token
}

// SessionID returns the guest session id, generating one on first use.
func (m *Manager) SessionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.SessionID == "" {
		m.state.SessionID = uuid.New().String()
		m.persistLocked()
	}
	return m.state.SessionID
}

// Login stores a token obtained from the backend's auth flow.
func (m *Manager) Login(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.Token = token
	m.state.PendingRedirect = ""
	m.persistLocked()
}

// Logout forgets the token. The guest session id is kept.
func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.Token = ""
	m.persistLocked()
}

// HandleUnauthorized is the global logout side effect run on a backend 401.
// redirect is the login URL the UI should navigate to.
func (m *Manager) HandleUnauthorized(redirect string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.Token = ""
	m.state.PendingRedirect = redirect
	m.persistLocked()
}

// PendingRedirect returns the login URL recorded by the last 401, if any.
func (m *Manager) PendingRedirect() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.PendingRedirect
}

// Authenticated reports whether a token is held.
func (m *Manager) Authenticated() bool {
	return m.Token() != ""
}

// Claims decodes the held token without verifying it. Verification is the
// backend's job; the client only reads what it displays.
func (m *Manager) Claims() (*Claims, bool) {
	token := m.Token()
	if token == "" {
		return nil, false
	}
	return parseClaims(token)
}

func parseClaims(token string) (*Claims, bool) {
	registered := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, registered); err != nil {
		return nil, false
	}
	claims := &Claims{Subject: registered.Subject}
	if registered.ExpiresAt != nil {
		exp := registered.ExpiresAt.Time
		claims.ExpiresAt = &exp
	}
	return claims, true
}

func (m *Manager) persistLocked() {
	raw, err := json.Marshal(m.state)
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode auth state")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := m.storage.Set(ctx, StorageKey, raw); err != nil {
		log.Warn().Err(err).Msg("Failed to persist auth state")
	}
}
