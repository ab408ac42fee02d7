// Package probe fires malformed input, request bursts and timing probes at
// the API and checks that it degrades gracefully.
package probe

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/leca/dt-pokeapi/internal/client"
)

// ForbiddenTerms must never appear in an error body. Matching is
// case-insensitive.
var ForbiddenTerms = []string{"sql", "syntax", "exception", "stack trace"}

// MinimalBurst is the request count of the stop-at-first-429 burst.
const MinimalBurst = 10

// SensitiveInfoError reports the first forbidden term found in a body.
type SensitiveInfoError struct {
	Term string
}

func (e *SensitiveInfoError) Error() string {
	return fmt.Sprintf("sensitive info leaked: %s", e.Term)
}

// MaliciousPath requests endpoint with payload appended as a single escaped
// path segment.
func MaliciousPath(ctx context.Context, c *client.Client, endpoint, payload string) (*client.Response, error) {
	target := strings.TrimRight(endpoint, "/") + "/" + url.PathEscape(payload)
	return c.Get(ctx, target, nil)
}

// CheckNotServerError fails on any 5xx status.
func CheckNotServerError(resp *client.Response) error {
	if resp == nil {
		return fmt.Errorf("no response received")
	}
	if resp.StatusCode >= 500 {
		return fmt.Errorf("API crashed with malicious input: status %d", resp.StatusCode)
	}
	return nil
}

// CheckNoSensitiveInfo fails if the body contains any of terms.
func CheckNoSensitiveInfo(resp *client.Response, terms []string) error {
	body := strings.ToLower(resp.Text())
	for _, term := range terms {
		if strings.Contains(body, strings.ToLower(term)) {
			return &SensitiveInfoError{Term: term}
		}
	}
	return nil
}

// BurstResult is the outcome of a sequential request burst.
type BurstResult struct {
	// Statuses holds every status observed, in request order.
	Statuses []int
	// Last is the final response received (the 429 when the burst stopped early).
	Last *client.Response
}

// Saw429 reports whether any request in the burst was rate limited.
func (b *BurstResult) Saw429() bool {
	for _, s := range b.Statuses {
		if s == http.StatusTooManyRequests {
			return true
		}
	}
	return false
}

// OnlyOKOr429 reports whether every status was either 200 or 429.
func (b *BurstResult) OnlyOKOr429() bool {
	for _, s := range b.Statuses {
		if s != http.StatusOK && s != http.StatusTooManyRequests {
			return false
		}
	}
	return len(b.Statuses) > 0
}

// Burst issues n sequential GETs to path. With stopOn429 set the loop ends
// at the first 429. A transport failure aborts the burst; statuses observed
// so far are still returned.
func Burst(ctx context.Context, c *client.Client, path string, n int, stopOn429 bool) (*BurstResult, error) {
	res := &BurstResult{Statuses: make([]int, 0, n)}
	for i := 0; i < n; i++ {
		resp, err := c.Get(ctx, path, nil)
		if err != nil {
			return res, fmt.Errorf("request %d of %d: %w", i+1, n, err)
		}
		res.Statuses = append(res.Statuses, resp.StatusCode)
		res.Last = resp
		if stopOn429 && resp.StatusCode == http.StatusTooManyRequests {
			break
		}
	}
	return res, nil
}

// CheckRateLimited fails unless at least one status in the burst was 429.
func CheckRateLimited(b *BurstResult) error {
	if !b.Saw429() {
		return fmt.Errorf("no rate limiting observed: %v", b.Statuses)
	}
	return nil
}

// CheckHeaderPresent fails unless resp carries key. Header names are
// compared case-insensitively.
func CheckHeaderPresent(resp *client.Response, key string) error {
	if resp == nil {
		return fmt.Errorf("no response to check header %s on", key)
	}
	for k := range resp.Header {
		if strings.EqualFold(k, key) {
			return nil
		}
	}
	return fmt.Errorf("missing header: %s", key)
}

// TimedGet performs a GET and measures wall-clock time around it.
func TimedGet(ctx context.Context, c *client.Client, path string, opts ...client.RequestOption) (*client.Response, time.Duration, error) {
	start := time.Now()
	resp, err := c.Get(ctx, path, nil, opts...)
	return resp, time.Since(start), err
}

// ForcedTimeout requests path with a deliberately tiny timeout. It returns
// true when no response was obtained because of the timeout.
func ForcedTimeout(ctx context.Context, c *client.Client, path string, timeout time.Duration) (*client.Response, bool, error) {
	resp, err := c.Get(ctx, path, nil, client.WithTimeout(timeout))
	if err == nil {
		return resp, false, nil
	}
	if client.IsTimeout(err) {
		return nil, true, nil
	}
	return nil, false, err
}
