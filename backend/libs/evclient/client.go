// Package evclient is the Go SDK front-ends use to talk to the EVcast gateway.
package evclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// HTTPDoer defines http.Client interface subset.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Session is the token pair and identity returned by login and refresh.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresAt    time.Time `json:"expires_at"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
}

// User is a registered account.
type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Client calls the gateway. Authenticated calls refresh an expired access
// token once and retry once. Safe for concurrent use.
type Client struct {
	baseURL string
	http    HTTPDoer
	logger  *zap.Logger

	mu      sync.RWMutex
	session *Session

	refreshMu sync.Mutex
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) { c.http = doer }
}

// WithLogger sets the logger used for refresh diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithSession restores a previously saved session.
func WithSession(s Session) Option {
	return func(c *Client) { c.session = &s }
}

// New returns a client for the gateway at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns a copy of the current session, if any.
func (c *Client) Session() (Session, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return Session{}, false
	}
	return *c.session, true
}

func (c *Client) setSession(s *Session) {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
}

// Logout forgets the held tokens.
func (c *Client) Logout() {
	c.setSession(nil)
}

// Signup registers an account. It does not log in.
func (c *Client) Signup(ctx context.Context, email, password, username string) (*User, error) {
	var user User
	body := map[string]string{"email": email, "password": password, "username": username}
	if err := c.do(ctx, http.MethodPost, "/api/auth/signup", "", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login authenticates and keeps the returned tokens for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var s Session
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", "", body, &s); err != nil {
		return nil, err
	}
	c.setSession(&s)
	return &s, nil
}

// Refresh exchanges the held refresh token for a new pair.
func (c *Client) Refresh(ctx context.Context) (*Session, error) {
	current, ok := c.Session()
	if !ok || current.RefreshToken == "" {
		return nil, ErrNoRefreshToken
	}
	var s Session
	body := map[string]string{"refresh_token": current.RefreshToken}
	if err := c.do(ctx, http.MethodPost, "/api/auth/refresh", "", body, &s); err != nil {
		return nil, err
	}
	c.setSession(&s)
	return &s, nil
}

// refreshFrom refreshes unless another caller already replaced the stale token.
func (c *Client) refreshFrom(ctx context.Context, stale string) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	if s, ok := c.Session(); ok && s.AccessToken != stale {
		return nil
	}
	_, err := c.Refresh(ctx)
	return err
}

// authorized performs an authenticated call with one refresh-and-retry on token expiry.
func (c *Client) authorized(ctx context.Context, method, path string, in, out interface{}) error {
	s, ok := c.Session()
	if !ok {
		return ErrNotLoggedIn
	}

	err := c.do(ctx, method, path, s.AccessToken, in, out)
	if err == nil || !IsTokenExpired(err) {
		return err
	}

	c.logger.Debug("access token rejected, refreshing", zap.String("path", path))
	if rerr := c.refreshFrom(ctx, s.AccessToken); rerr != nil {
		c.logger.Warn("token refresh failed", zap.Error(rerr))
		return fmt.Errorf("%w (refresh failed: %v)", err, rerr)
	}

	s, _ = c.Session()
	return c.do(ctx, method, path, s.AccessToken, in, out)
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out interface{}) error {
	var reader io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("evclient: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("evclient: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("evclient: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("evclient: read %s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: body}
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
			apiErr.Message = payload.Error
		} else {
			apiErr.Message = strings.TrimSpace(string(body))
		}
		return apiErr
	}

	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("evclient: decode %s %s: %w", method, path, err)
	}
	return nil
}
