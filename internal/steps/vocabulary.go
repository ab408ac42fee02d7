package steps

import (
	"context"
	"fmt"
	"strings"

	"github.com/leca/dt-pokeapi/internal/pagination"
)

// Vocabulary returns a registry holding every step of the suite.
func Vocabulary() *Registry {
	r := NewRegistry()
	registerPaginationSteps(r)
	registerPokemonSteps(r)
	registerNegativeSteps(r)
	registerSecuritySteps(r)
	return r
}

// fetch requests a listing page and makes it the current response.
func (w *World) fetch(ctx context.Context, q pagination.PageQuery) error {
	resp, _, err := w.Fetcher.ListPage(ctx, w.BaseURL, q)
	w.setResponse(resp, err)
	if err != nil {
		return fmt.Errorf("list request failed: %w", err)
	}
	return nil
}

// get requests path relative to the base URL and makes it the current
// response. A transport failure fails the step.
func (w *World) get(ctx context.Context, path string) error {
	resp, err := w.Client.Get(ctx, joinBase(w.BaseURL, path), nil)
	w.setResponse(resp, err)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	return nil
}

func (w *World) requireResponse() error {
	if w.Response == nil {
		return fmt.Errorf("no response recorded: %v", w.TransportErr)
	}
	return nil
}

func joinBase(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
