package steps

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/leca/dt-pokeapi/internal/client"
	"github.com/leca/dt-pokeapi/internal/config"
	"github.com/leca/dt-pokeapi/internal/pagination"
	"github.com/leca/dt-pokeapi/internal/probe"
)

// World is the state shared by the steps of one scenario. A fresh World is
// created for every scenario and must not be shared between goroutines.
type World struct {
	*pagination.RunContext

	ID      string
	Config  *config.Suite
	Client  *client.Client
	Fetcher *pagination.Fetcher
	Logger  *slog.Logger

	// Endpoint is the path selected by `the endpoint "..."`.
	Endpoint string

	// Response and JSON hold the most recent response. Response is nil when
	// the request produced no response (see TransportErr).
	Response     *client.Response
	JSON         any
	TransportErr error
	TimedOut     bool
	Elapsed      time.Duration

	// SecondResponse and SecondJSON hold the repeated fetch of the
	// temporal stability check.
	SecondResponse *client.Response
	SecondJSON     any
	lastLimit      int

	Burst *probe.BurstResult

	TestedEndpoints map[string]bool
	Coverage        float64
}

// NewWorld creates an empty world for one scenario run.
func NewWorld(cfg *config.Suite, c *client.Client, logger *slog.Logger) *World {
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.NewString()
	return &World{
		RunContext: pagination.NewRunContext(cfg.BaseURL),
		ID:         id,
		Config:     cfg,
		Client:     c,
		Fetcher:    pagination.NewFetcher(c),
		Logger:     logger.With("run_id", id),
	}
}

// setResponse records the outcome of a request as the current response.
func (w *World) setResponse(resp *client.Response, err error) {
	w.Response = resp
	w.TransportErr = err
	w.JSON = nil
	if resp != nil {
		w.JSON = resp.JSON
		w.Elapsed = resp.Elapsed
	}
}
