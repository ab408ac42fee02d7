// Package pagination fetches pages of a PokeAPI listing, accumulates them in
// fetch order and validates the accumulated pages against the listing
// contract (bounded result counts, stable metadata, disjoint pages, valid
// navigation links, stable ordering).
package pagination

import "github.com/leca/dt-pokeapi/internal/client"

// Page is one fetched listing page. Pages are never modified once recorded.
type Page struct {
	Offset   int
	Response *client.Response
	// JSON is the decoded listing document, or nil when the body was not JSON.
	JSON any
}

// RunContext is the mutable state of a single scenario run.
type RunContext struct {
	BaseURL string
	// TotalCount is the service-reported item count, once known.
	TotalCount    *int
	Pages         []Page
	CapturedNames []string
	LastOffset    int
}

// NewRunContext returns an empty run context targeting baseURL.
func NewRunContext(baseURL string) *RunContext {
	return &RunContext{BaseURL: baseURL}
}

// RecordPage appends a page in fetch order. Duplicates are kept.
func (rc *RunContext) RecordPage(offset int, resp *client.Response) {
	var doc any
	if resp != nil {
		doc = resp.JSON
	}
	rc.Pages = append(rc.Pages, Page{Offset: offset, Response: resp, JSON: doc})
}

// SetTotalCount stores the service-reported total.
func (rc *RunContext) SetTotalCount(n int) {
	rc.TotalCount = &n
}
