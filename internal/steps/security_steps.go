package steps

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/leca/dt-pokeapi/internal/client"
	"github.com/leca/dt-pokeapi/internal/probe"
	"github.com/leca/dt-pokeapi/internal/schema"
)

// CoverageEndpoints are the resources probed by the coverage steps.
var CoverageEndpoints = []string{"pokemon", "ability", "move", "item"}

func registerSecuritySteps(r *Registry) {
	r.When(`I send a GET request to "{endpoint}" with malicious payload "{payload}"`, func(ctx context.Context, w *World, a Args) error {
		resp, err := probe.MaliciousPath(ctx, w.Client, joinBase(w.BaseURL, a.String("endpoint")), a.String("payload"))
		w.setResponse(resp, err)
		if err != nil {
			return fmt.Errorf("malicious request failed: %w", err)
		}
		return nil
	})

	r.Then("the response code should not be 500", func(ctx context.Context, w *World, _ Args) error {
		return probe.CheckNotServerError(w.Response)
	})

	r.Then("the response should not contain sensitive information", func(ctx context.Context, w *World, _ Args) error {
		if err := w.requireResponse(); err != nil {
			return err
		}
		return probe.CheckNoSensitiveInfo(w.Response, probe.ForbiddenTerms)
	})

	r.When(`I send {count:d} rapid GET requests to "{path}"`, func(ctx context.Context, w *World, a Args) error {
		res, err := probe.Burst(ctx, w.Client, joinBase(w.BaseURL, a.String("path")), a.Int("count"), false)
		w.Burst = res
		if res != nil && res.Last != nil {
			w.setResponse(res.Last, nil)
		}
		return err
	})

	r.Then("at least one response code should be 429", func(ctx context.Context, w *World, _ Args) error {
		if w.Burst == nil {
			return fmt.Errorf("no burst was sent")
		}
		return probe.CheckRateLimited(w.Burst)
	})

	r.Then("any rate limiting should be signalled with 429", func(ctx context.Context, w *World, _ Args) error {
		if w.Burst == nil {
			return fmt.Errorf("no burst was sent")
		}
		if !w.Burst.OnlyOKOr429() {
			return fmt.Errorf("expected only 200 or 429 during burst, got %v", w.Burst.Statuses)
		}
		if !w.Burst.Saw429() {
			w.Logger.Info("burst completed without rate limiting", "statuses", len(w.Burst.Statuses))
		}
		return nil
	})

	r.Then(`the response headers should include "{header}"`, func(ctx context.Context, w *World, a Args) error {
		return probe.CheckHeaderPresent(w.Response, a.String("header"))
	})

	r.When(`I send a GET request to "{path}" with header "{header_name}: {header_value}"`, func(ctx context.Context, w *World, a Args) error {
		resp, err := w.Client.Get(ctx, joinBase(w.BaseURL, a.String("path")), nil,
			client.WithHeader(a.String("header_name"), a.String("header_value")))
		w.setResponse(resp, err)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		return nil
	})

	r.Given("I have executed tests for multiple endpoints", func(ctx context.Context, w *World, _ Args) error {
		w.TestedEndpoints = make(map[string]bool, len(CoverageEndpoints))
		q := url.Values{"limit": {"1"}}
		for _, ep := range CoverageEndpoints {
			resp, err := w.Client.Get(ctx, joinBase(w.BaseURL, ep), q)
			w.TestedEndpoints[ep] = err == nil && resp.StatusCode == http.StatusOK
		}
		return nil
	})

	r.When("I calculate endpoint coverage", func(ctx context.Context, w *World, _ Args) error {
		w.Coverage = Coverage(w.TestedEndpoints)
		return nil
	})

	r.Then("the coverage percentage should be greater than {threshold:d}", func(ctx context.Context, w *World, a Args) error {
		if threshold := float64(a.Int("threshold")); w.Coverage <= threshold {
			return fmt.Errorf("coverage too low: %.1f%%", w.Coverage)
		}
		return nil
	})

	r.When(`I send a GET request to "{path}"`, func(ctx context.Context, w *World, a Args) error {
		return w.get(ctx, a.String("path"))
	})

	r.When(`I simulate a slow response from "{path}"`, func(ctx context.Context, w *World, a Args) error {
		resp, elapsed, err := probe.TimedGet(ctx, w.Client, joinBase(w.BaseURL, a.String("path")),
			client.WithTimeout(2*w.Config.SlowLimit))
		w.setResponse(resp, err)
		w.Elapsed = elapsed
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		return nil
	})

	r.Then("an alert should be triggered for performance degradation", func(ctx context.Context, w *World, _ Args) error {
		if err := schema.CheckLatency(w.Elapsed, w.Config.SlowLimit); err != nil {
			return fmt.Errorf("ALERT: %w", err)
		}
		return nil
	})
}

// Coverage returns the percentage of tested endpoints marked as covered.
// An empty set has zero coverage.
func Coverage(tested map[string]bool) float64 {
	if len(tested) == 0 {
		return 0
	}
	covered := 0
	for _, ok := range tested {
		if ok {
			covered++
		}
	}
	return float64(covered) / float64(len(tested)) * 100
}
