// Package loadgen drives simulated users against the API: each user picks a
// weighted task, performs it, then waits a random think time.
package loadgen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/leca/dt-pokeapi/internal/client"
	"golang.org/x/sync/errgroup"
)

// Task is one weighted request a user may perform.
type Task struct {
	Name   string
	Path   string
	Weight int
}

// DefaultTasks mirrors the reference load profile: every user repeatedly
// fetches pikachu.
var DefaultTasks = []Task{{Name: "/pokemon/pikachu", Path: "pokemon/pikachu", Weight: 1}}

// Config controls a load run.
type Config struct {
	Users    int
	Duration time.Duration
	MinWait  time.Duration
	MaxWait  time.Duration
	Tasks    []Task
	Seed     uint64
}

// DefaultConfig returns a single-user, one-minute run with a 1-3s think time.
func DefaultConfig() Config {
	return Config{
		Users:    1,
		Duration: time.Minute,
		MinWait:  time.Second,
		MaxWait:  3 * time.Second,
		Tasks:    DefaultTasks,
	}
}

func (c Config) validate() error {
	if c.Users < 1 {
		return fmt.Errorf("users must be at least 1, got %d", c.Users)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %s", c.Duration)
	}
	if c.MinWait < 0 || c.MaxWait < c.MinWait {
		return fmt.Errorf("invalid think time range [%s, %s]", c.MinWait, c.MaxWait)
	}
	total := 0
	for _, t := range c.Tasks {
		if t.Weight < 0 {
			return fmt.Errorf("task %s: negative weight", t.Name)
		}
		total += t.Weight
	}
	if total == 0 {
		return errors.New("at least one task with positive weight is required")
	}
	return nil
}

// Runner executes load runs through a client.
type Runner struct {
	client *client.Client
	logger *slog.Logger
}

// NewRunner creates a Runner. A nil logger uses slog.Default.
func NewRunner(c *client.Client, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{client: c, logger: logger}
}

// Run starts cfg.Users users and blocks until cfg.Duration elapses or ctx is
// cancelled. Request failures are counted, never returned.
func (r *Runner) Run(ctx context.Context, cfg Config) (*Stats, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Duration)
	defer cancel()

	stats := newStats()
	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for i := range cfg.Users {
		rng := rand.New(rand.NewPCG(cfg.Seed, uint64(i)))
		g.Go(func() error {
			r.user(ctx, i, cfg, rng, stats)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	stats.Elapsed = time.Since(start)

	r.logger.Info("load run finished",
		"users", cfg.Users,
		"requests", stats.Requests(),
		"failures", stats.Failures(),
		"elapsed", stats.Elapsed,
	)
	return stats, nil
}

func (r *Runner) user(ctx context.Context, id int, cfg Config, rng *rand.Rand, stats *Stats) {
	for ctx.Err() == nil {
		task := pick(cfg.Tasks, rng)
		resp, err := r.client.Get(ctx, task.Path, nil)
		if ctx.Err() != nil {
			return
		}

		switch {
		case err != nil:
			stats.record(task.Name, 0, false)
			r.logger.Debug("request failed", "user", id, "task", task.Name, "error", err)
		default:
			stats.record(task.Name, resp.Elapsed, resp.StatusCode < http.StatusBadRequest)
		}

		if !sleep(ctx, thinkTime(cfg.MinWait, cfg.MaxWait, rng)) {
			return
		}
	}
}

// pick chooses a task with probability proportional to its weight.
func pick(tasks []Task, rng *rand.Rand) Task {
	total := 0
	for _, t := range tasks {
		total += t.Weight
	}
	n := rng.IntN(total)
	for _, t := range tasks {
		if n < t.Weight {
			return t
		}
		n -= t.Weight
	}
	return tasks[len(tasks)-1]
}

// thinkTime returns a uniform duration in [lo, hi].
func thinkTime(lo, hi time.Duration, rng *rand.Rand) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(rng.Int64N(int64(hi-lo)+1))
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
