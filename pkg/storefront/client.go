package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultTimeout bounds every backend call.
	DefaultTimeout = 10 * time.Second

	// DefaultLoginPath is where unauthorized users are sent.
	DefaultLoginPath = "/login"

	// maxResponseSize is the maximum allowed response body size (10MB)
	maxResponseSize = 10 * 1024 * 1024
)

// DefaultAuthRoutes are the storefront routes that never trigger a login
// redirect, so a 401 on the login page cannot loop.
var DefaultAuthRoutes = []string{"/login", "/register", "/forgot-password", "/reset-password"}

// Credentials supplies the identity headers attached to every request.
type Credentials interface {
	// Token returns the bearer token, or "" for anonymous requests.
	Token() string
	// SessionID returns the guest session id, or "" when none is tracked.
	SessionID() string
}

// Config holds storefront API client configuration.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	LoginPath  string
	AuthRoutes []string

	Credentials Credentials

	// OnUnauthorized is the global logout side effect. It receives the login
	// URL carrying the current path as its redirect parameter.
	OnUnauthorized func(redirect string)

	// HTTPClient overrides the default client. Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client is a thin JSON client for the storefront backend REST API.
type Client struct {
	httpClient *http.Client
	config     Config
	debug      bool
}

// NewClient creates a new storefront API client.
func NewClient(config Config) *Client {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.LoginPath == "" {
		config.LoginPath = DefaultLoginPath
	}
	if config.AuthRoutes == nil {
		config.AuthRoutes = DefaultAuthRoutes
	}
	config.BaseURL = strings.TrimSuffix(config.BaseURL, "/")

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	return &Client{
		httpClient: httpClient,
		config:     config,
		debug:      os.Getenv("ENV") == "development",
	}
}

// envelope is the response wrapper every backend endpoint uses.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// doRequest sends a JSON request and decodes the envelope's data into result.
// A nil result discards the data.
func (c *Client) doRequest(ctx context.Context, method, path string, body any, result any) error {
	var reader io.Reader
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	endpoint := c.config.BaseURL + path
	if c.debug {
		ev := log.Debug().Str("method", method).Str("endpoint", endpoint)
		if payload != nil {
			ev = ev.RawJSON("request", payload)
		}
		ev.Msg("[STOREFRONT] Outgoing request")
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.attachCredentials(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if c.debug {
		log.Debug().
			Str("endpoint", path).
			Int("status_code", resp.StatusCode).
			Bytes("response", respBody).
			Msg("[STOREFRONT] Incoming response")
	}

	var env envelope
	decodeErr := json.Unmarshal(respBody, &env)

	if resp.StatusCode == http.StatusUnauthorized {
		c.handleUnauthorized(ctx)
		return newAPIError(resp.StatusCode, env.Message)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, env.Message)
	}
	if len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if decodeErr != nil {
		return fmt.Errorf("failed to decode response: %w", decodeErr)
	}
	if !env.Success {
		return newAPIError(resp.StatusCode, env.Message)
	}

	if result == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, result); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}

func (c *Client) attachCredentials(req *http.Request) {
	if c.config.Credentials == nil {
		return
	}
	if token := c.config.Credentials.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if sessionID := c.config.Credentials.SessionID(); sessionID != "" {
		req.Header.Set("X-Session-ID", sessionID)
	}
}

// handleUnauthorized runs the logout side effect unless the caller is already
// on an auth route.
func (c *Client) handleUnauthorized(ctx context.Context) {
	current := CurrentPath(ctx)
	if c.IsAuthRoute(current) {
		log.Debug().Str("path", current).Msg("[STOREFRONT] 401 on auth route, redirect skipped")
		return
	}
	redirect := LoginRedirect(c.config.LoginPath, current)
	log.Warn().Str("path", current).Str("redirect", redirect).Msg("[STOREFRONT] Unauthorized, logging out")
	if c.config.OnUnauthorized != nil {
		c.config.OnUnauthorized(redirect)
	}
}

// IsAuthRoute reports whether path belongs to one of the configured auth routes.
func (c *Client) IsAuthRoute(path string) bool {
	for _, route := range c.config.AuthRoutes {
		if path == route || strings.HasPrefix(path, route+"/") || strings.HasPrefix(path, route+"?") {
			return true
		}
	}
	return false
}

// LoginRedirect builds the login URL carrying current as the redirect target.
func LoginRedirect(loginPath, current string) string {
	if current == "" {
		current = "/"
	}
	return loginPath + "?" + url.Values{"redirect": {current}}.Encode()
}
