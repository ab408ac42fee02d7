package scenario

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/leca/dt-pokeapi/internal/steps"
)

// Status is the outcome of a single step.
type Status string

const (
	StatusPassed    Status = "passed"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
	StatusUndefined Status = "undefined"
)

// StepResult records the outcome of a single step.
type StepResult struct {
	Line     string
	Status   Status
	Duration time.Duration
	Error    string // empty unless failed or undefined
}

// ScenarioResult records the outcome of one scenario.
type ScenarioResult struct {
	Feature  string
	Name     string
	Passed   bool
	Steps    []StepResult
	Duration time.Duration
}

// Report aggregates the results of a run.
type Report struct {
	Scenarios []*ScenarioResult
	Duration  time.Duration
}

// Passed reports whether every scenario passed.
func (r *Report) Passed() bool {
	for _, s := range r.Scenarios {
		if !s.Passed {
			return false
		}
	}
	return true
}

// Failed returns the failing scenarios.
func (r *Report) Failed() []*ScenarioResult {
	var out []*ScenarioResult
	for _, s := range r.Scenarios {
		if !s.Passed {
			out = append(out, s)
		}
	}
	return out
}

// WorldFactory creates the fresh state of one scenario.
type WorldFactory func() *steps.World

// Runner executes feature scenarios through a step registry.
type Runner struct {
	registry *steps.Registry
	newWorld WorldFactory
	logger   *slog.Logger
	tags     []string
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the runner logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithTags restricts the run to scenarios carrying one of tags. A tag
// prefixed with "~" excludes scenarios carrying it. Blank tags are ignored.
func WithTags(tags ...string) Option {
	return func(r *Runner) {
		for _, t := range tags {
			if t = strings.TrimSpace(t); t != "" {
				r.tags = append(r.tags, t)
			}
		}
	}
}

// NewRunner creates a Runner.
func NewRunner(reg *steps.Registry, newWorld WorldFactory, opts ...Option) *Runner {
	r := &Runner{
		registry: reg,
		newWorld: newWorld,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes every selected scenario of features in order.
func (r *Runner) Run(ctx context.Context, features []*Feature) *Report {
	start := time.Now()
	report := &Report{}
	for _, f := range features {
		for _, outline := range f.Scenarios {
			for _, s := range outline.Expand() {
				if !r.Selected(f, s) {
					continue
				}
				report.Scenarios = append(report.Scenarios, r.RunScenario(ctx, f, s))
			}
		}
	}
	report.Duration = time.Since(start)
	return report
}

// RunScenario executes the background of f followed by the steps of s in a
// fresh world. Steps after the first failure are skipped.
func (r *Runner) RunScenario(ctx context.Context, f *Feature, s *Scenario) *ScenarioResult {
	start := time.Now()
	res := &ScenarioResult{Feature: f.Name, Name: s.Name, Passed: true}
	w := r.newWorld()
	log := r.logger.With("feature", f.Name, "scenario", s.Name, "run_id", w.ID)
	log.Info("scenario started")

	lines := make([]string, 0, len(f.Background)+len(s.Steps))
	lines = append(lines, f.Background...)
	lines = append(lines, s.Steps...)

	var (
		prev    steps.Kind
		hasPrev bool
	)
	for _, line := range lines {
		sr := StepResult{Line: strings.TrimSpace(line)}
		if !res.Passed {
			sr.Status = StatusSkipped
			res.Steps = append(res.Steps, sr)
			continue
		}

		kind, text, err := steps.ParseLine(line, prev, hasPrev)
		if err == nil {
			prev, hasPrev = kind, true
			var (
				def  *steps.Definition
				args steps.Args
			)
			def, args, err = r.registry.Match(kind, text)
			if err != nil {
				sr.Status = StatusUndefined
			} else {
				stepStart := time.Now()
				err = def.Fn(ctx, w, args)
				sr.Duration = time.Since(stepStart)
			}
		} else {
			sr.Status = StatusUndefined
		}

		switch {
		case err == nil:
			sr.Status = StatusPassed
		case sr.Status == "":
			sr.Status = StatusFailed
		}
		if err != nil {
			sr.Error = err.Error()
			res.Passed = false
			log.Error("step failed", "step", sr.Line, "status", sr.Status, "error", sr.Error)
		}
		res.Steps = append(res.Steps, sr)
	}

	res.Duration = time.Since(start)
	log.Info("scenario finished", "passed", res.Passed, "duration", res.Duration)
	return res
}

// Selected reports whether s of f passes the tag filter.
func (r *Runner) Selected(f *Feature, s *Scenario) bool {
	if len(r.tags) == 0 {
		return true
	}
	have := make(map[string]bool, len(f.Tags)+len(s.Tags))
	for _, t := range f.Tags {
		have[t] = true
	}
	for _, t := range s.Tags {
		have[t] = true
	}

	included, hasInclude := false, false
	for _, t := range r.tags {
		if excl, ok := strings.CutPrefix(t, "~"); ok {
			if have[excl] {
				return false
			}
			continue
		}
		hasInclude = true
		if have[t] {
			included = true
		}
	}
	return included || !hasInclude
}
