package loadgen

import (
	"sort"
	"sync"
	"time"
)

// TaskStats aggregates the requests of one task.
type TaskStats struct {
	Name     string
	Requests int
	Failures int
	Total    time.Duration
	Min      time.Duration
	Max      time.Duration
}

// Mean returns the mean response time of successful requests.
func (t TaskStats) Mean() time.Duration {
	ok := t.Requests - t.Failures
	if ok <= 0 {
		return 0
	}
	return t.Total / time.Duration(ok)
}

// Stats is safe for concurrent use by the users of a run.
type Stats struct {
	mu      sync.Mutex
	tasks   map[string]*TaskStats
	Elapsed time.Duration
}

func newStats() *Stats {
	return &Stats{tasks: make(map[string]*TaskStats)}
}

func (s *Stats) record(task string, elapsed time.Duration, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts, found := s.tasks[task]
	if !found {
		ts = &TaskStats{Name: task}
		s.tasks[task] = ts
	}
	ts.Requests++
	if !ok {
		ts.Failures++
		return
	}
	ts.Total += elapsed
	if ts.Min == 0 || elapsed < ts.Min {
		ts.Min = elapsed
	}
	if elapsed > ts.Max {
		ts.Max = elapsed
	}
}

// Tasks returns a snapshot of per-task stats sorted by name.
func (s *Stats) Tasks() []TaskStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]TaskStats, 0, len(s.tasks))
	for _, ts := range s.tasks {
		out = append(out, *ts)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Requests returns the total number of requests issued.
func (s *Stats) Requests() int {
	n := 0
	for _, t := range s.Tasks() {
		n += t.Requests
	}
	return n
}

// Failures returns the number of failed requests.
func (s *Stats) Failures() int {
	n := 0
	for _, t := range s.Tasks() {
		n += t.Failures
	}
	return n
}

// RPS returns the overall request rate of the run.
func (s *Stats) RPS() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Requests()) / s.Elapsed.Seconds()
}
