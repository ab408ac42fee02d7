package steps

import (
	"context"
	"fmt"
	"time"

	"github.com/leca/dt-pokeapi/internal/model"
	"github.com/leca/dt-pokeapi/internal/pagination"
	"github.com/leca/dt-pokeapi/internal/schema"
)

func registerPokemonSteps(r *Registry) {
	r.Given(`the endpoint "{endpoint}"`, func(ctx context.Context, w *World, a Args) error {
		w.Endpoint = a.String("endpoint")
		return nil
	})

	r.When("I send a GET request", func(ctx context.Context, w *World, _ Args) error {
		if w.Endpoint == "" {
			return fmt.Errorf("no endpoint selected")
		}
		return w.get(ctx, w.Endpoint)
	})

	r.Then("the response status should be {expected_status:d}", func(ctx context.Context, w *World, a Args) error {
		return pagination.CheckStatus(w.Response, a.Int("expected_status"))
	})

	r.Then("the response time should be less than {seconds:d} seconds", func(ctx context.Context, w *World, a Args) error {
		if err := w.requireResponse(); err != nil {
			return err
		}
		return schema.CheckLatency(w.Response.Elapsed, time.Duration(a.Int("seconds"))*time.Second)
	})

	r.Then(`the response Content-Type should contain "{mime}"`, func(ctx context.Context, w *World, a Args) error {
		return schema.CheckContentType(w.Response, a.String("mime"))
	})

	r.Then(`the JSON must contain keys "{keys}"`, func(ctx context.Context, w *World, a Args) error {
		return schema.ValidateKeys(w.JSON, schema.SplitKeys(a.String("keys")))
	})

	r.Then("the response should validate against the Pokemon JSON schema", func(ctx context.Context, w *World, _ Args) error {
		return schema.ValidateSchema(w.JSON, schema.PokemonSchema)
	})

	r.Then(`the JSON field "{field}" should equal "{value}"`, func(ctx context.Context, w *World, a Args) error {
		doc := w.Response.Doc()
		if doc == nil {
			return fmt.Errorf("response is not a JSON object")
		}
		field, want := a.String("field"), a.String("value")
		if got := fmt.Sprint(doc[field]); got != want {
			return fmt.Errorf("expected %s %q, got %q", field, want, got)
		}
		return nil
	})

	r.Then("every listed pokemon should have a valid structure", func(ctx context.Context, w *World, _ Args) error {
		for i, item := range listItems(w.JSON) {
			if err := item.Validate(); err != nil {
				return fmt.Errorf("results[%d]: %w", i, err)
			}
		}
		return nil
	})

	r.Then("the first {n:d} listed pokemon should load their details", func(ctx context.Context, w *World, a Args) error {
		items := listItems(w.JSON)
		n := a.Int("n")
		if n < 0 {
			return fmt.Errorf("item count must not be negative, got %d", n)
		}
		if len(items) < n {
			return fmt.Errorf("expected at least %d listed pokemon, got %d", n, len(items))
		}
		for i, item := range items[:n] {
			if err := item.LoadDetails(ctx, w.Client); err != nil {
				return fmt.Errorf("results[%d]: %w", i, err)
			}
			if err := item.Validate(); err != nil {
				return fmt.Errorf("results[%d]: %w", i, err)
			}
			if len(item.Abilities) == 0 || len(item.Stats) == 0 {
				return fmt.Errorf("results[%d] %s: details missing abilities or stats", i, item.Name)
			}
		}
		return nil
	})
}

func listItems(doc any) []*model.ListItem {
	var items []*model.ListItem
	for _, raw := range pagination.Results(doc) {
		obj, _ := raw.(map[string]any)
		name, _ := obj["name"].(string)
		url, _ := obj["url"].(string)
		items = append(items, model.NewListItem(model.NamedAPIResource{Name: name, URL: url}))
	}
	return items
}
