// Package transport is the authenticated HTTP layer under the Redash client.
// It builds requests against a base URL, applies the API key and maps
// failures onto the redpush error taxonomy: non-2xx responses become
// RemoteError and network failures become ConnectionError.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/agentstation/redpush/pkg/constants"
	"github.com/agentstation/redpush/pkg/errors"
	"github.com/agentstation/redpush/pkg/logging"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// Client provides HTTP client functionality with authentication.
type Client struct {
	http    *http.Client
	auth    Authenticator
	baseURL *url.URL
	apiKey  string
}

// New creates a new transport client for baseURL.
func New(baseURL, apiKey string, auth Authenticator, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, &errors.ValidationError{
			Field:   "redash_url",
			Value:   baseURL,
			Message: "must be an absolute http(s) URL",
		}
	}
	if auth == nil {
		auth = &KeyAuth{}
	}
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		auth:    auth,
		baseURL: u,
		apiKey:  apiKey,
	}, nil
}

// URL resolves an API path against the base URL.
func (c *Client) URL(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// Do performs an HTTP request with authentication applied.
// Network failures are returned as ConnectionError.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.apiKey != "" {
		c.auth.Apply(req, c.apiKey)
	}

	req.Header.Set("Accept", "application/json")
	if req.Method == http.MethodPost || req.Method == http.MethodPut || req.Method == http.MethodPatch {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &errors.ConnectionError{Method: req.Method, URL: redact(req.URL), Err: err}
	}
	return resp, nil
}

// Request sends a JSON request and decodes a successful JSON response into
// target. A nil body sends no payload; a nil target discards the response.
func (c *Client) Request(ctx context.Context, method, path string, query url.Values, body, target any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.WrapParse("json", "request body", err)
		}
		reader = bytes.NewReader(payload)
	}

	endpoint := c.URL(path, query)
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return errors.WrapResource("create", "request", method+" "+path, err)
	}

	start := time.Now()
	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	logging.FromContext(ctx).Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("Redash request")

	return DecodeResponse(ctx, resp, target)
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values, target any) error {
	return c.Request(ctx, http.MethodGet, path, query, nil, target)
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, path string, body, target any) error {
	return c.Request(ctx, http.MethodPost, path, nil, body, target)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Request(ctx, http.MethodDelete, path, nil, nil, nil)
}

// redact drops credentials passed as query parameters from error messages.
func redact(u *url.URL) string {
	if u == nil {
		return ""
	}
	c := *u
	q := c.Query()
	if q.Has("api_key") {
		q.Set("api_key", "REDACTED")
		c.RawQuery = q.Encode()
	}
	return c.String()
}
