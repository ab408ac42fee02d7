// Package client is the HTTP adapter every check in the suite goes through.
// Remote 4xx/5xx statuses are ordinary results; only transport failures are
// reported as errors, and those always match ErrNoResponse.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds every request that does not set its own timeout.
const DefaultTimeout = 8 * time.Second

// ErrNoResponse is matched by every error returned when no HTTP response
// could be obtained (timeout, refused connection, DNS failure).
var ErrNoResponse = errors.New("no response")

// Response is a fully read HTTP response.
type Response struct {
	URL        string
	StatusCode int
	Elapsed    time.Duration
	Header     http.Header
	Body       []byte
	// JSON is the decoded body, or nil when the body is not valid JSON.
	JSON any
}

// Doc returns the decoded body as a JSON object, or nil.
func (r *Response) Doc() map[string]any {
	if r == nil {
		return nil
	}
	m, _ := r.JSON.(map[string]any)
	return m
}

// Text returns the body as a string.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	return string(r.Body)
}

// transportError wraps the underlying failure so that both ErrNoResponse and
// the original cause remain matchable.
type transportError struct {
	url string
	err error
}

func (e *transportError) Error() string {
	return fmt.Sprintf("GET %s: %v: %v", e.url, ErrNoResponse, e.err)
}

func (e *transportError) Unwrap() []error { return []error{ErrNoResponse, e.err} }

// IsTimeout reports whether err is a transport failure caused by a timeout.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// Client issues GET requests relative to a base URL.
type Client struct {
	http    *http.Client
	baseURL string
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithDefaultTimeout changes the timeout applied to requests without an override.
func WithDefaultTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the logger used for per-request debug lines.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a Client rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: DefaultTimeout,
		logger:  slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the base URL requests are resolved against.
func (c *Client) BaseURL() string { return c.baseURL }

type requestConfig struct {
	timeout time.Duration
	header  http.Header
}

// RequestOption configures a single request.
type RequestOption func(*requestConfig)

// WithTimeout overrides the timeout of one request.
func WithTimeout(d time.Duration) RequestOption {
	return func(rc *requestConfig) { rc.timeout = d }
}

// WithHeader adds a header to one request.
func WithHeader(key, value string) RequestOption {
	return func(rc *requestConfig) { rc.header.Add(key, value) }
}

// Resolve turns target into an absolute URL. Absolute http(s) targets are
// returned unchanged; anything else is joined onto the base URL.
func (c *Client) Resolve(target string) string {
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return target
	}
	return c.baseURL + "/" + strings.TrimLeft(target, "/")
}

// Get performs a GET against target with the given query parameters.
// Query keys absent from query are not sent at all.
func (c *Client) Get(ctx context.Context, target string, query url.Values, opts ...RequestOption) (*Response, error) {
	rc := requestConfig{timeout: c.timeout, header: http.Header{}}
	for _, o := range opts {
		o(&rc)
	}

	u := c.Resolve(target)
	if len(query) > 0 {
		sep := "?"
		if strings.Contains(u, "?") {
			sep = "&"
		}
		u += sep + query.Encode()
	}

	ctx, cancel := context.WithTimeout(ctx, rc.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", u, err)
	}
	for k, vs := range rc.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", http.MethodGet, "url", u, "error", err)
		return nil, &transportError{url: u, err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	if err != nil {
		return nil, &transportError{url: u, err: fmt.Errorf("read body: %w", err)}
	}

	out := &Response{
		URL:        u,
		StatusCode: resp.StatusCode,
		Elapsed:    elapsed,
		Header:     resp.Header,
		Body:       body,
	}
	var doc any
	if err := json.Unmarshal(body, &doc); err == nil {
		out.JSON = doc
	}

	c.logger.Debug("request", "method", http.MethodGet, "url", u, "status", resp.StatusCode, "elapsed", elapsed)
	return out, nil
}
