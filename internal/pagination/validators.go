package pagination

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/leca/dt-pokeapi/internal/client"
)

// DefaultMaxSanitizedResults is the largest result list accepted from a
// service that sanitizes invalid paging parameters instead of rejecting them.
const DefaultMaxSanitizedResults = 1000

// DuplicateError lists every name seen on more than one recorded page.
type DuplicateError struct {
	Names []string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("found duplicate names across pages: %v", e.Names)
}

// Results returns the results list of a listing document. A missing document
// or missing key yields an empty list.
func Results(doc any) []any {
	m, _ := doc.(map[string]any)
	if m == nil {
		return nil
	}
	r, _ := m["results"].([]any)
	return r
}

// Names returns the name of every result, in order.
func Names(doc any) []string {
	results := Results(doc)
	names := make([]string, 0, len(results))
	for _, item := range results {
		obj, _ := item.(map[string]any)
		name, _ := obj["name"].(string)
		names = append(names, name)
	}
	return names
}

// Count returns the count metadata of a listing document.
func Count(doc any) (int, bool) {
	m, _ := doc.(map[string]any)
	if m == nil {
		return 0, false
	}
	f, ok := m["count"].(float64)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// CheckStatus fails unless resp has the expected status code.
func CheckStatus(resp *client.Response, expected int) error {
	if resp == nil {
		return fmt.Errorf("expected status %d, got no response", expected)
	}
	if resp.StatusCode != expected {
		return fmt.Errorf("expected status %d, got %d", expected, resp.StatusCode)
	}
	return nil
}

// CheckResultCount fails unless the document holds exactly expected results.
func CheckResultCount(doc any, expected int) error {
	if m, ok := doc.(map[string]any); ok {
		if r, present := m["results"]; present {
			if _, isList := r.([]any); !isList {
				return fmt.Errorf("results is not a list: %T", r)
			}
		}
	}
	if actual := len(Results(doc)); actual != expected {
		return fmt.Errorf("expected %d results, got %d", expected, actual)
	}
	return nil
}

// CheckResultCountAtMost fails if the document holds more than limit results.
func CheckResultCountAtMost(doc any, limit int) error {
	if actual := len(Results(doc)); actual > limit {
		return fmt.Errorf("results length %d > %d", actual, limit)
	}
	return nil
}

// CheckEmptyResults fails unless the results list is empty.
func CheckEmptyResults(doc any) error {
	if actual := len(Results(doc)); actual != 0 {
		return fmt.Errorf("expected empty results, got %d", actual)
	}
	return nil
}

// CheckNoDuplicates walks the recorded pages in fetch order and fails if any
// name appears more than once. Every duplicate is reported.
func CheckNoDuplicates(rc *RunContext) error {
	seen := make(map[string]struct{})
	var duplicates []string
	for _, p := range rc.Pages {
		for _, name := range Names(p.JSON) {
			if _, dup := seen[name]; dup {
				duplicates = append(duplicates, name)
				continue
			}
			seen[name] = struct{}{}
		}
	}
	if len(duplicates) > 0 {
		return &DuplicateError{Names: duplicates}
	}
	return nil
}

// CheckCountConsistency fails if recorded pages disagree on the count
// metadata. Pages without a document or without a count are ignored. On
// success the agreed count becomes the run's total count.
func CheckCountConsistency(rc *RunContext) error {
	distinct := make(map[int]struct{})
	for _, p := range rc.Pages {
		if n, ok := Count(p.JSON); ok {
			distinct[n] = struct{}{}
		}
	}
	if len(distinct) > 1 {
		counts := make([]int, 0, len(distinct))
		for n := range distinct {
			counts = append(counts, n)
		}
		sort.Ints(counts)
		return fmt.Errorf("inconsistent count values across pages: %v", counts)
	}
	for n := range distinct {
		rc.SetTotalCount(n)
	}
	return nil
}

// CheckLinks validates the next and previous links of every recorded page.
// Absent links are fine; a present link must be an absolute http(s) URL that
// answers 200.
func CheckLinks(ctx context.Context, rc *RunContext, c *client.Client) error {
	for _, p := range rc.Pages {
		m, _ := p.JSON.(map[string]any)
		if m == nil {
			continue
		}
		for _, key := range []string{"next", "previous"} {
			link, _ := m[key].(string)
			if link == "" {
				continue
			}
			u, err := url.Parse(link)
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				return fmt.Errorf("%s is not a valid URL: %s", key, link)
			}
			resp, err := c.Get(ctx, link, nil)
			if err != nil {
				return fmt.Errorf("%s URL unreachable: %s: %w", key, link, err)
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("%s URL returned %d: %s", key, resp.StatusCode, link)
			}
		}
	}
	return nil
}

// CheckOutOfRange enforces the graceful-empty-page contract for offsets past
// the end of the collection.
func CheckOutOfRange(resp *client.Response, doc any) error {
	if err := CheckStatus(resp, http.StatusOK); err != nil {
		return err
	}
	return CheckEmptyResults(doc)
}

// CheckNegativeParams accepts either a rejection (status >= 400) or a
// sanitized 200 whose results is a list of at most maxResults entries. A 200
// without a results key, or without a JSON body, counts as an empty page.
func CheckNegativeParams(resp *client.Response, doc any, maxResults int) error {
	if resp == nil {
		return fmt.Errorf("expected a response for invalid paging parameters, got none")
	}
	if resp.StatusCode >= 400 {
		return nil
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("expected status >= 400 or 200, got %d", resp.StatusCode)
	}
	m, _ := doc.(map[string]any)
	raw, present := m["results"]
	if !present {
		return nil
	}
	results, ok := raw.([]any)
	if !ok {
		return fmt.Errorf("sanitized response results is not a list: %T", m["results"])
	}
	if len(results) > maxResults {
		return fmt.Errorf("sanitized results length unexpected: %d", len(results))
	}
	return nil
}

// CheckStableNames fails unless both name sequences are identical in order
// and content.
func CheckStableNames(first, second []string) error {
	if diff := cmp.Diff(first, second, cmpopts.EquateEmpty()); diff != "" {
		return fmt.Errorf("lists differ. first: %s, second: %s (-first +second):\n%s",
			preview(first), preview(second), diff)
	}
	return nil
}

func preview(names []string) string {
	const n = 5
	if len(names) <= n {
		return fmt.Sprintf("[%s]", strings.Join(names, " "))
	}
	return fmt.Sprintf("[%s]...", strings.Join(names[:n], " "))
}
