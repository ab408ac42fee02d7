package pagination

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/leca/dt-pokeapi/internal/client"
)

const (
	// DefaultResource is the listing the suite paginates over.
	DefaultResource = "pokemon"
	// DefaultPageSize is the page size PokeAPI applies when limit is omitted.
	DefaultPageSize = 20
)

// PageQuery selects a listing page. Nil fields are omitted from the request
// so that server-side defaults can be exercised.
type PageQuery struct {
	Limit  *int
	Offset *int
}

// At returns a query with both limit and offset set.
func At(limit, offset int) PageQuery {
	return PageQuery{Limit: &limit, Offset: &offset}
}

// Values encodes the query, leaving out unset parameters.
func (q PageQuery) Values() url.Values {
	v := url.Values{}
	if q.Limit != nil {
		v.Set("limit", strconv.Itoa(*q.Limit))
	}
	if q.Offset != nil {
		v.Set("offset", strconv.Itoa(*q.Offset))
	}
	return v
}

// Fetcher requests listing pages through the HTTP adapter.
type Fetcher struct {
	Client   *client.Client
	Resource string
}

// NewFetcher creates a Fetcher for the default listing resource.
func NewFetcher(c *client.Client) *Fetcher {
	return &Fetcher{Client: c, Resource: DefaultResource}
}

// ListPage fetches one page of the listing under baseURL. The returned
// document is nil when the body is not valid JSON.
func (f *Fetcher) ListPage(ctx context.Context, baseURL string, q PageQuery) (*client.Response, any, error) {
	target := f.Resource
	if baseURL != "" {
		target = baseURL + "/" + f.Resource
	}
	resp, err := f.Client.Get(ctx, target, q.Values())
	if err != nil {
		return nil, nil, err
	}
	return resp, resp.JSON, nil
}

// FetchAfter waits for d, then fetches q. The wait ends early with ctx's
// error if ctx is cancelled first.
func (f *Fetcher) FetchAfter(ctx context.Context, baseURL string, q PageQuery, d time.Duration) (*client.Response, any, error) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	case <-timer.C:
	}
	return f.ListPage(ctx, baseURL, q)
}
