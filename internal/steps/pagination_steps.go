package steps

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/leca/dt-pokeapi/internal/pagination"
)

func registerPaginationSteps(r *Registry) {
	r.Given("the PokeAPI base URL is configured", func(ctx context.Context, w *World, _ Args) error {
		if w.BaseURL == "" {
			w.BaseURL = w.Config.BaseURL
		}
		return nil
	})

	r.When("I request the pokemon list without limit and offset", func(ctx context.Context, w *World, _ Args) error {
		return w.fetch(ctx, pagination.PageQuery{})
	})

	requestPage := func(ctx context.Context, w *World, a Args) error {
		return w.fetch(ctx, pagination.At(a.Int("limit"), a.Int("offset")))
	}
	r.When("I request the pokemon list with limit {limit:d} and offset {offset:d}", requestPage)
	r.When("I request the list with limit {limit:d} and offset {offset:d}", requestPage)

	r.Given("I request the list with limit {limit:d} and offset {offset:d}", func(ctx context.Context, w *World, a Args) error {
		offset := a.Int("offset")
		if err := w.fetch(ctx, pagination.At(a.Int("limit"), offset)); err != nil {
			return err
		}
		w.RecordPage(offset, w.Response)
		return nil
	})

	r.Given("I get the total count from the service", func(ctx context.Context, w *World, _ Args) error {
		resp, doc, err := w.Fetcher.ListPage(ctx, w.BaseURL, pagination.At(1, 0))
		if err != nil {
			return fmt.Errorf("cannot obtain count: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("cannot obtain count, status=%d", resp.StatusCode)
		}
		n, ok := pagination.Count(doc)
		if !ok || n <= 0 {
			return fmt.Errorf("invalid count value: %v", resp.Doc()["count"])
		}
		w.SetTotalCount(n)
		return nil
	})

	r.When("I request the list with limit {limit:d} and offset greater than count + {margin:d}", func(ctx context.Context, w *World, a Args) error {
		if w.TotalCount == nil {
			return fmt.Errorf("total count is unknown; fetch it first")
		}
		return w.fetch(ctx, pagination.At(a.Int("limit"), *w.TotalCount+a.Int("margin")))
	})

	r.Then("the pagination response status should be {expected_status:d}", func(ctx context.Context, w *World, a Args) error {
		return pagination.CheckStatus(w.Response, a.Int("expected_status"))
	})

	r.Then("the pagination response status should be exactly 200", func(ctx context.Context, w *World, _ Args) error {
		return pagination.CheckStatus(w.Response, http.StatusOK)
	})

	r.Then("the number of results returned should be {expected:d}", func(ctx context.Context, w *World, a Args) error {
		return pagination.CheckResultCount(w.JSON, a.Int("expected"))
	})

	r.Then("the number of results returned should be less than or equal to {limit:d}", func(ctx context.Context, w *World, a Args) error {
		return pagination.CheckResultCountAtMost(w.JSON, a.Int("limit"))
	})

	r.Then("next and previous links should be valid where applicable", func(ctx context.Context, w *World, _ Args) error {
		return pagination.CheckLinks(ctx, w.RunContext, w.Client)
	})

	r.Then("there should be no duplicate pokemon between those pages", func(ctx context.Context, w *World, _ Args) error {
		return pagination.CheckNoDuplicates(w.RunContext)
	})

	r.Then("the metadata count should be consistent across these pages", func(ctx context.Context, w *World, _ Args) error {
		return pagination.CheckCountConsistency(w.RunContext)
	})

	r.Then("the results list should be empty", func(ctx context.Context, w *World, _ Args) error {
		return pagination.CheckEmptyResults(w.JSON)
	})

	r.Then("the page past the end should be empty", func(ctx context.Context, w *World, _ Args) error {
		return pagination.CheckOutOfRange(w.Response, w.JSON)
	})

	r.Then("the service should either return an error (status >= 400) or return a sanitized response (status 200 with valid results)", func(ctx context.Context, w *World, _ Args) error {
		if err := pagination.CheckNegativeParams(w.Response, w.JSON, pagination.DefaultMaxSanitizedResults); err != nil {
			return err
		}
		if w.Response.StatusCode >= 400 {
			w.Logger.Info("service rejected invalid paging parameters", "status", w.Response.StatusCode)
		}
		return nil
	})

	r.Given("I request the list with limit {limit:d} and offset {offset:d} and capture the names", func(ctx context.Context, w *World, a Args) error {
		offset := a.Int("offset")
		resp, doc, err := w.Fetcher.ListPage(ctx, w.BaseURL, pagination.At(a.Int("limit"), offset))
		if err != nil {
			return fmt.Errorf("failed to fetch page for consistency check: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("failed to fetch page for consistency check, status %d", resp.StatusCode)
		}
		w.setResponse(resp, nil)
		w.CapturedNames = pagination.Names(doc)
		w.LastOffset = offset
		w.lastLimit = a.Int("limit")
		return nil
	})

	r.When("I wait {seconds:d} seconds and request the same list again", func(ctx context.Context, w *World, a Args) error {
		limit := w.lastLimit
		if limit == 0 {
			limit = pagination.DefaultPageSize
		}
		resp, doc, err := w.Fetcher.FetchAfter(ctx, w.BaseURL, pagination.At(limit, w.LastOffset), time.Duration(a.Int("seconds"))*time.Second)
		if err != nil {
			return fmt.Errorf("repeat fetch failed: %w", err)
		}
		w.SecondResponse, w.SecondJSON = resp, doc
		return nil
	})

	r.Then("the names returned should be identical (order and items)", func(ctx context.Context, w *World, _ Args) error {
		return pagination.CheckStableNames(w.CapturedNames, pagination.Names(w.SecondJSON))
	})
}
