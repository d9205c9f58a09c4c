package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/bilalattari/kaacib-company-dashboard-sub000/pkg/logger"
)

// Error is a non-2xx verdict from the dashboard API.
type Error struct {
	Message string
	Status  int
}

func (e *Error) Error() string {
	return fmt.Sprintf("apiclient: server returned %d: %s", e.Status, e.Message)
}

// Client issues authorized JSON requests against the dashboard API.
// Authorization, request IDs, and reactive token renewal live in the
// Transport; the Client adds the base URL and JSON codec.
type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithLogger sets the client logger. Defaults to a no-op logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithBaseTransport sets the RoundTripper beneath the authorizing
// Transport. Defaults to http.DefaultTransport.
func WithBaseTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		if rt != nil {
			c.http.Transport.(*Transport).Base = rt
		}
	}
}

// New creates an API client for the given origin, decorating every
// request with the given token source.
func New(baseURL string, src TokenSource, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("apiclient: invalid base URL %q", baseURL)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     logger.NewNope(),
	}
	c.http = &http.Client{
		Transport: &Transport{Source: src},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http.Transport.(*Transport).Log = c.log

	return c, nil
}

// HTTPClient exposes the decorated client for callers that need to issue
// requests the JSON helpers do not cover (downloads, multipart uploads).
func (c *Client) HTTPClient() *http.Client {
	return c.http
}

// Get issues a GET and decodes the JSON response into out (ignored if nil).
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with a JSON body and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPost, path, in, out)
}

// Put issues a PUT with a JSON body and decodes the response into out.
func (c *Client) Put(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPut, path, in, out)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		// bytes.Reader gives net/http a GetBody, so the request stays
		// replayable through the transport's single retry.
		body = bytes.NewReader(payload)
	}

	id := uuid.NewString()
	ctx = ContextWithRequestID(ctx, id)

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set(requestIDHeader, id)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.DebugContext(ctx, "request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.Any("error", err))
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return c.apiError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// apiError builds an *Error from a non-2xx response, preferring the
// server's message field when the body is JSON.
func (c *Client) apiError(resp *http.Response) error {
	apiErr := &Error{Status: resp.StatusCode, Message: resp.Status}

	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body); err == nil && body.Message != "" {
		apiErr.Message = body.Message
	}
	return apiErr
}
