package steps

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/leca/dt-pokeapi/internal/pagination"
	"github.com/leca/dt-pokeapi/internal/probe"
	"github.com/leca/dt-pokeapi/internal/schema"
)

func registerNegativeSteps(r *Registry) {
	r.Given("the PokeAPI is available", func(ctx context.Context, w *World, _ Args) error {
		resp, err := w.Client.Get(ctx, joinBase(w.BaseURL, "pokemon/1"), nil)
		if err != nil {
			return fmt.Errorf("PokeAPI is not available: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("PokeAPI is not available, status: %d", resp.StatusCode)
		}
		return nil
	})

	timedGet := func(resource string) StepFunc {
		return func(ctx context.Context, w *World, a Args) error {
			resp, elapsed, err := probe.TimedGet(ctx, w.Client, joinBase(w.BaseURL, resource+"/"+a.String("invalid_id")))
			w.setResponse(resp, err)
			w.Elapsed = elapsed
			if err != nil {
				return fmt.Errorf("request failed: %w", err)
			}
			return nil
		}
	}
	r.When(`I request the invalid pokemon id "{invalid_id}"`, timedGet("pokemon"))
	r.When(`I request the ability with invalid id "{invalid_id}"`, timedGet("ability"))
	r.When(`I request the move with invalid id "{invalid_id}"`, timedGet("move"))

	r.Then("the error response should contain a descriptive message", func(ctx context.Context, w *World, _ Args) error {
		if err := w.requireResponse(); err != nil {
			return err
		}
		switch w.Response.StatusCode {
		case http.StatusNotFound, http.StatusBadRequest, http.StatusTooManyRequests:
			return nil
		}
		if w.JSON != nil && strings.Contains(strings.ToLower(fmt.Sprint(w.JSON)), "error") {
			return nil
		}
		return fmt.Errorf("error response has no descriptive message (status %d): %s", w.Response.StatusCode, w.Response.Text())
	})

	r.Then("the response time should be reasonable", func(ctx context.Context, w *World, _ Args) error {
		return schema.CheckLatency(w.Elapsed, w.Config.LatencyLimit)
	})

	r.When(`I send multiple rapid requests to "{endpoint}" endpoint`, func(ctx context.Context, w *World, a Args) error {
		res, err := probe.Burst(ctx, w.Client, joinBase(w.BaseURL, a.String("endpoint")), probe.MinimalBurst, true)
		w.Burst = res
		if res != nil && res.Last != nil {
			w.setResponse(res.Last, nil)
		}
		return err
	})

	r.When(`I request the pokemon "{pokemon_name}" with artificial delay`, func(ctx context.Context, w *World, a Args) error {
		resp, timedOut, err := probe.ForcedTimeout(ctx, w.Client, joinBase(w.BaseURL, "pokemon/"+a.String("pokemon_name")), w.Config.ForcedTimeout)
		w.setResponse(resp, err)
		w.TimedOut = timedOut
		if err != nil {
			return fmt.Errorf("request failed without timing out: %w", err)
		}
		return nil
	})

	r.Then("the response should timeout after the configured threshold", func(ctx context.Context, w *World, _ Args) error {
		if !w.TimedOut || w.Response != nil {
			return fmt.Errorf("expected request to timeout but it completed")
		}
		return nil
	})

	r.Then("the response should not expose sensitive information", func(ctx context.Context, w *World, _ Args) error {
		if err := w.requireResponse(); err != nil {
			return err
		}
		return probe.CheckNoSensitiveInfo(w.Response, []string{"sql", "exception"})
	})

	r.Then("the response status code should be {expected_status:d}", func(ctx context.Context, w *World, a Args) error {
		return pagination.CheckStatus(w.Response, a.Int("expected_status"))
	})

	r.Then("the response status code should not be {status:d}", func(ctx context.Context, w *World, a Args) error {
		if err := w.requireResponse(); err != nil {
			return err
		}
		if unwanted := a.Int("status"); w.Response.StatusCode == unwanted {
			return fmt.Errorf("expected not %d, got %d", unwanted, w.Response.StatusCode)
		}
		return nil
	})
}
