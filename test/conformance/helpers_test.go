//go:build conformance

package conformance

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

var httpClient = &http.Client{Timeout: 8 * time.Second}

// apiURL builds a full URL for the given API path, e.g. "/pokemon/25".
func apiURL(path string) string {
	return baseURL + "/" + strings.TrimLeft(path, "/")
}

// doGet performs a GET and returns the status and raw body.
func doGet(t *testing.T, url string) (int, []byte) {
	t.Helper()
	resp, err := httpClient.Get(url)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, data
}

// doJSON performs a GET and returns the decoded JSON object.
func doJSON(t *testing.T, url string) (int, map[string]any) {
	t.Helper()
	status, data := doGet(t, url)
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal JSON: %v\nbody: %s", err, string(data))
	}
	return status, raw
}

// assertField validates a field exists in an object and has the expected Go type.
// Returns the typed value.
func assertField[T any](t *testing.T, obj map[string]any, field string) T {
	t.Helper()
	val, ok := obj[field]
	if !ok {
		var zero T
		t.Errorf("missing field %q", field)
		return zero
	}
	typed, ok := val.(T)
	if !ok {
		var zero T
		t.Errorf("field %q: expected %T, got %T (%v)", field, zero, val, val)
		return zero
	}
	return typed
}

// assertListingShape validates the count/next/previous/results envelope.
func assertListingShape(t *testing.T, raw map[string]any) []any {
	t.Helper()
	assertField[float64](t, raw, "count")
	for _, key := range []string{"next", "previous"} {
		v, ok := raw[key]
		if !ok {
			t.Errorf("listing missing %q", key)
			continue
		}
		if _, isString := v.(string); v != nil && !isString {
			t.Errorf("%q should be string or null, got %T", key, v)
		}
	}
	results := assertField[[]any](t, raw, "results")
	for i, r := range results {
		obj, ok := r.(map[string]any)
		if !ok {
			t.Errorf("results[%d] should be object, got %T", i, r)
			continue
		}
		assertField[string](t, obj, "name")
		assertField[string](t, obj, "url")
	}
	return results
}
