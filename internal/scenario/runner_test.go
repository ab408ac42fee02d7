package scenario

import (
	"context"
	"errors"
	"testing"

	"github.com/leca/dt-pokeapi/internal/client"
	"github.com/leca/dt-pokeapi/internal/config"
	"github.com/leca/dt-pokeapi/internal/steps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder builds a registry whose steps append to calls.
func recorder(calls *[]string) *steps.Registry {
	r := steps.NewRegistry()
	r.Given("a step", func(ctx context.Context, w *steps.World, _ steps.Args) error {
		*calls = append(*calls, "a step")
		return nil
	})
	r.When("the count is {n:d}", func(ctx context.Context, w *steps.World, a steps.Args) error {
		*calls = append(*calls, "count")
		w.LastOffset = a.Int("n")
		return nil
	})
	r.Then("the count should be {n:d}", func(ctx context.Context, w *steps.World, a steps.Args) error {
		*calls = append(*calls, "check")
		if w.LastOffset != a.Int("n") {
			return errors.New("count mismatch")
		}
		return nil
	})
	r.Then("it fails", func(ctx context.Context, w *steps.World, _ steps.Args) error {
		*calls = append(*calls, "fails")
		return errors.New("boom")
	})
	return r
}

func newWorld() *steps.World {
	cfg := &config.Suite{BaseURL: "http://127.0.0.1:1"}
	return steps.NewWorld(cfg, client.New(cfg.BaseURL), nil)
}

func TestRunScenario_Passes(t *testing.T) {
	var calls []string
	r := NewRunner(recorder(&calls), newWorld)
	f := &Feature{Name: "F", Background: []string{"Given a step"}}
	s := &Scenario{Name: "S", Steps: []string{"When the count is 3", "Then the count should be 3", "And the count should be 3"}}

	res := r.RunScenario(context.Background(), f, s)
	assert.True(t, res.Passed)
	require.Len(t, res.Steps, 4)
	for _, sr := range res.Steps {
		assert.Equal(t, StatusPassed, sr.Status)
		assert.Empty(t, sr.Error)
	}
	assert.Equal(t, []string{"a step", "count", "check", "check"}, calls)
}

func TestRunScenario_SkipsAfterFailure(t *testing.T) {
	var calls []string
	r := NewRunner(recorder(&calls), newWorld)
	f := &Feature{Name: "F"}
	s := &Scenario{Name: "S", Steps: []string{"Given a step", "Then it fails", "And the count should be 0"}}

	res := r.RunScenario(context.Background(), f, s)
	assert.False(t, res.Passed)
	assert.Equal(t, StatusPassed, res.Steps[0].Status)
	assert.Equal(t, StatusFailed, res.Steps[1].Status)
	assert.Equal(t, "boom", res.Steps[1].Error)
	assert.Equal(t, StatusSkipped, res.Steps[2].Status)
	assert.Equal(t, []string{"a step", "fails"}, calls)
}

func TestRunScenario_Undefined(t *testing.T) {
	var calls []string
	r := NewRunner(recorder(&calls), newWorld)
	f := &Feature{Name: "F"}

	res := r.RunScenario(context.Background(), f, &Scenario{Name: "S", Steps: []string{"When nobody wrote this"}})
	assert.False(t, res.Passed)
	assert.Equal(t, StatusUndefined, res.Steps[0].Status)
	assert.Contains(t, res.Steps[0].Error, "undefined step")

	res = r.RunScenario(context.Background(), f, &Scenario{Name: "S", Steps: []string{"And a step"}})
	assert.Equal(t, StatusUndefined, res.Steps[0].Status)
}

func TestRunScenario_FreshWorld(t *testing.T) {
	var calls []string
	r := NewRunner(recorder(&calls), newWorld)
	f := &Feature{Name: "F"}

	first := r.RunScenario(context.Background(), f, &Scenario{Name: "set", Steps: []string{"When the count is 7"}})
	second := r.RunScenario(context.Background(), f, &Scenario{Name: "check", Steps: []string{"Then the count should be 0"}})
	assert.True(t, first.Passed)
	assert.True(t, second.Passed)
}

func TestRun_ExpandsOutlinesAndFiltersTags(t *testing.T) {
	var calls []string
	features := []*Feature{{
		Name: "F",
		Tags: []string{"feat"},
		Scenarios: []*Scenario{
			{Name: "smoke", Tags: []string{"smoke"}, Steps: []string{"Given a step"}},
			{Name: "slow", Tags: []string{"slow"}, Steps: []string{"Given a step"}},
			{
				Name:     "outline",
				Tags:     []string{"smoke"},
				Steps:    []string{"When the count is <n>", "Then the count should be <n>"},
				Examples: []map[string]string{{"n": "1"}, {"n": "2"}},
			},
		},
	}}

	report := NewRunner(recorder(&calls), newWorld).Run(context.Background(), features)
	assert.Len(t, report.Scenarios, 4)
	assert.True(t, report.Passed())

	report = NewRunner(recorder(&calls), newWorld, WithTags("smoke")).Run(context.Background(), features)
	require.Len(t, report.Scenarios, 3)
	assert.Equal(t, "outline #2", report.Scenarios[2].Name)

	report = NewRunner(recorder(&calls), newWorld, WithTags("")).Run(context.Background(), features)
	assert.Len(t, report.Scenarios, 4)

	report = NewRunner(recorder(&calls), newWorld, WithTags("~slow")).Run(context.Background(), features)
	assert.Len(t, report.Scenarios, 3)

	report = NewRunner(recorder(&calls), newWorld, WithTags("feat", "~smoke")).Run(context.Background(), features)
	require.Len(t, report.Scenarios, 1)
	assert.Equal(t, "slow", report.Scenarios[0].Name)
}

func TestReport_Failed(t *testing.T) {
	report := &Report{Scenarios: []*ScenarioResult{{Name: "ok", Passed: true}, {Name: "bad"}}}
	assert.False(t, report.Passed())
	require.Len(t, report.Failed(), 1)
	assert.Equal(t, "bad", report.Failed()[0].Name)
}
