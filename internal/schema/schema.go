// Package schema validates single response documents: required keys, JSON
// Schema conformance, content type and latency.
package schema

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/leca/dt-pokeapi/internal/client"
)

// PokemonSchema is the minimal shape of a pokemon detail document. Extra
// fields are allowed.
var PokemonSchema = &jsonschema.Schema{
	Type:     "object",
	Required: []string{"id", "name", "abilities", "moves", "stats"},
	Properties: map[string]*jsonschema.Schema{
		"id":        {Type: "integer"},
		"name":      {Type: "string"},
		"abilities": {Type: "array"},
		"moves":     {Type: "array"},
		"stats":     {Type: "array"},
	},
}

var (
	resolvedMu sync.Mutex
	resolved   = map[*jsonschema.Schema]*jsonschema.Resolved{}
)

func resolve(s *jsonschema.Schema) (*jsonschema.Resolved, error) {
	resolvedMu.Lock()
	defer resolvedMu.Unlock()
	if r, ok := resolved[s]; ok {
		return r, nil
	}
	r, err := s.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("resolve schema: %w", err)
	}
	resolved[s] = r
	return r, nil
}

// ValidateKeys fails if doc is not a JSON object or lacks any of keys.
func ValidateKeys(doc any, keys []string) error {
	m, ok := doc.(map[string]any)
	if !ok {
		return fmt.Errorf("response is not valid JSON")
	}
	for _, k := range keys {
		if _, ok := m[k]; !ok {
			return fmt.Errorf("missing key: %s", k)
		}
	}
	return nil
}

// SplitKeys parses a comma-separated key list, trimming blanks.
func SplitKeys(list string) []string {
	var keys []string
	for _, k := range strings.Split(list, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// ValidateSchema validates doc against s and reports the validator's
// message on mismatch.
func ValidateSchema(doc any, s *jsonschema.Schema) error {
	if doc == nil {
		return fmt.Errorf("response is not valid JSON")
	}
	r, err := resolve(s)
	if err != nil {
		return err
	}
	if err := r.Validate(doc); err != nil {
		return fmt.Errorf("JSON schema validation failed: %w", err)
	}
	return nil
}

// CheckContentType fails unless the Content-Type header contains mime.
func CheckContentType(resp *client.Response, mime string) error {
	if resp == nil {
		return fmt.Errorf("no response to check Content-Type on")
	}
	ct := resp.Header.Get("Content-Type")
	if !strings.Contains(ct, mime) {
		return fmt.Errorf("Content-Type missing or not containing '%s': %s", mime, ct)
	}
	return nil
}

// CheckLatency fails unless elapsed is strictly below limit.
func CheckLatency(elapsed, limit time.Duration) error {
	if elapsed >= limit {
		return fmt.Errorf("response time %.3fs exceeds %.3fs", elapsed.Seconds(), limit.Seconds())
	}
	return nil
}
