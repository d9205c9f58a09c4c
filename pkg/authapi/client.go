package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/bilalattari/kaacib-company-dashboard-sub000/pkg/logger"
	"github.com/bilalattari/kaacib-company-dashboard-sub000/pkg/token"
)

// Credentials is the login request body. The server performs the real
// validation; the client only requires both fields to be non-empty.
type Credentials struct {
	Identifier string `json:"identifier"`
	Secret     string `json:"secret"`
}

// tokenResponse is the body of successful login and refresh responses.
type tokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Client calls the dashboard's auth endpoints. It never decorates
// requests with a bearer token implicitly — login and refresh are exactly
// the calls that must work without one.
type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
// Defaults to http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the client logger. Defaults to a no-op logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates an auth client for the given API origin.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("authapi: invalid base URL %q", baseURL)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		log:     logger.NewNope(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Login exchanges credentials for a token pair.
// A 401 or 403 verdict maps to ErrInvalidCredentials.
func (c *Client) Login(ctx context.Context, creds Credentials) (*token.TokenPair, error) {
	if creds.Identifier == "" || creds.Secret == "" {
		return nil, ErrInvalidCredentials
	}
	return c.tokenCall(ctx, "/auth/login", creds, ErrInvalidCredentials)
}

// Refresh exchanges a refresh token for a fresh token pair.
// A 401 or 403 verdict maps to ErrRefreshRejected.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*token.TokenPair, error) {
	body := map[string]string{"refreshToken": refreshToken}
	return c.tokenCall(ctx, "/auth/refresh", body, ErrRefreshRejected)
}

// Logout notifies the server that the session ended. Best-effort: the
// caller logs the returned error at most, it never blocks teardown.
func (c *Client) Logout(ctx context.Context, accessToken string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/logout", nil)
	if err != nil {
		return err
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Join(ErrNetwork, err)
	}
	defer drain(resp.Body)

	if resp.StatusCode >= http.StatusMultipleChoices {
		return errors.Join(ErrBadResponse, fmt.Errorf("status %s", resp.Status))
	}
	return nil
}

// tokenCall posts a JSON body and decodes a token pair from the response.
// deniedErr is the sentinel to map an authorization-denied verdict to.
func (c *Client) tokenCall(ctx context.Context, path string, body any, deniedErr error) (*token.TokenPair, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.DebugContext(ctx, "auth call failed", slog.String("path", path), slog.Any("error", err))
		return nil, errors.Join(ErrNetwork, err)
	}
	defer drain(resp.Body)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, deniedErr
	case resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices:
		return nil, errors.Join(ErrBadResponse, fmt.Errorf("status %s", resp.Status))
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, errors.Join(ErrBadResponse, err)
	}
	if tr.AccessToken == "" {
		return nil, errors.Join(ErrBadResponse, errors.New("response carries no access token"))
	}

	return &token.TokenPair{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
	}, nil
}

// drain consumes and closes a response body so the connection can be reused.
func drain(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 4096))
	_ = body.Close()
}
