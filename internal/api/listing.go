package api

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/leca/dt-pokeapi/internal/model"
)

const (
	// DefaultLimit is the page size applied when limit is absent or invalid.
	DefaultLimit = 20
	// MaxLimit caps a single page.
	MaxLimit = 2000
)

// ParsePage reads limit and offset the way PokeAPI's paginator does: a
// missing, malformed, zero or negative limit falls back to DefaultLimit,
// and a malformed or negative offset becomes 0.
func ParsePage(q url.Values) (limit, offset int) {
	limit = DefaultLimit
	if n, err := strconv.Atoi(q.Get("limit")); err == nil && n > 0 {
		limit = min(n, MaxLimit)
	}
	if n, err := strconv.Atoi(q.Get("offset")); err == nil && n > 0 {
		offset = n
	}
	return limit, offset
}

// ResourceURL makes a catalog path absolute under baseURL.
func ResourceURL(baseURL, path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// NewListing builds a listing page of collection with next and previous
// links. Links are absent at the edges of the collection.
func NewListing(baseURL, collection string, results []model.NamedAPIResource, total, limit, offset int) model.Listing {
	if results == nil {
		results = []model.NamedAPIResource{}
	}
	l := model.Listing{Count: total, Results: results}
	endpoint := ResourceURL(baseURL, collection) + "/"

	if offset+limit < total {
		next := endpoint + "?offset=" + strconv.Itoa(offset+limit) + "&limit=" + strconv.Itoa(limit)
		l.Next = &next
	}
	if offset > 0 {
		prev := endpoint + "?limit=" + strconv.Itoa(limit)
		if offset-limit > 0 {
			prev = endpoint + "?offset=" + strconv.Itoa(offset-limit) + "&limit=" + strconv.Itoa(limit)
		}
		l.Previous = &prev
	}
	return l
}
