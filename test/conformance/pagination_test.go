//go:build conformance

package conformance

import (
	"fmt"
	"net/http"
	"testing"
)

func TestPagination_DefaultPage(t *testing.T) {
	status, raw := doJSON(t, apiURL("/pokemon"))
	if status != http.StatusOK {
		t.Fatalf("expected status 200, got %d", status)
	}
	results := assertListingShape(t, raw)
	if len(results) != 20 {
		t.Errorf("expected 20 results, got %d", len(results))
	}
	if raw["previous"] != nil {
		t.Errorf("first page should have no previous link, got %v", raw["previous"])
	}
}

func TestPagination_WalkPages(t *testing.T) {
	seen := map[string]bool{}
	var count float64
	for offset := 0; offset < 60; offset += 20 {
		status, raw := doJSON(t, apiURL(fmt.Sprintf("/pokemon?limit=20&offset=%d", offset)))
		if status != http.StatusOK {
			t.Fatalf("offset %d: expected status 200, got %d", offset, status)
		}
		c := assertField[float64](t, raw, "count")
		if count != 0 && c != count {
			t.Errorf("count changed across pages: %v then %v", count, c)
		}
		count = c
		for _, r := range assertListingShape(t, raw) {
			name, _ := r.(map[string]any)["name"].(string)
			if seen[name] {
				t.Errorf("duplicate %s across pages", name)
			}
			seen[name] = true
		}
	}
}

func TestPagination_NextLinkResolves(t *testing.T) {
	_, raw := doJSON(t, apiURL("/pokemon?limit=5&offset=5"))
	for _, key := range []string{"next", "previous"} {
		link, ok := raw[key].(string)
		if !ok {
			t.Fatalf("%s link missing", key)
		}
		if status, _ := doGet(t, link); status != http.StatusOK {
			t.Errorf("%s link %s returned %d", key, link, status)
		}
	}
}

func TestPagination_PastTheEnd(t *testing.T) {
	_, first := doJSON(t, apiURL("/pokemon?limit=1"))
	count := int(assertField[float64](t, first, "count"))

	status, raw := doJSON(t, apiURL(fmt.Sprintf("/pokemon?limit=20&offset=%d", count+1000)))
	if status != http.StatusOK {
		t.Fatalf("expected status 200, got %d", status)
	}
	if results := assertListingShape(t, raw); len(results) != 0 {
		t.Errorf("expected empty results, got %d", len(results))
	}
}
