//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gavv/httpexpect/v2"
	"github.com/leca/dt-pokeapi/internal/client"
	"github.com/leca/dt-pokeapi/internal/config"
	"github.com/leca/dt-pokeapi/internal/database"
	"github.com/leca/dt-pokeapi/internal/loadgen"
	"github.com/leca/dt-pokeapi/internal/router"
	"github.com/leca/dt-pokeapi/internal/scenario"
	"github.com/leca/dt-pokeapi/internal/steps"
	"github.com/leca/dt-pokeapi/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedCount = 200

// setupTwin creates a twin server backed by a seeded in-memory SQLite
// catalog and a temporary sprite directory.
func setupTwin(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()

	db, err := database.NewSQLiteDB(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Seed(db, seedCount))

	srv := router.New(db, storage.NewFileSystem(t.TempDir()), cfg)
	ts := httptest.NewServer(srv.Router)
	t.Cleanup(ts.Close)
	return ts
}

func suiteConfig(ts *httptest.Server) *config.Suite {
	return &config.Suite{
		BaseURL:       ts.URL + "/api/v2",
		Timeout:       5 * time.Second,
		ForcedTimeout: time.Microsecond,
		LatencyLimit:  3 * time.Second,
		SlowLimit:     5 * time.Second,
	}
}

func newRunner(cfg *config.Suite, tags ...string) *scenario.Runner {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	c := client.New(cfg.BaseURL, client.WithDefaultTimeout(cfg.Timeout), client.WithLogger(logger))
	return scenario.NewRunner(steps.Vocabulary(),
		func() *steps.World { return steps.NewWorld(cfg, c, logger) },
		scenario.WithLogger(logger),
		scenario.WithTags(tags...),
	)
}

func requirePassed(t *testing.T, report *scenario.Report) {
	t.Helper()
	for _, s := range report.Failed() {
		for _, st := range s.Steps {
			if st.Error != "" {
				t.Errorf("%s / %s: %s [%s]: %s", s.Feature, s.Name, st.Line, st.Status, st.Error)
			}
		}
	}
}

func TestTwinListing(t *testing.T) {
	ts := setupTwin(t, &config.Config{})
	e := httpexpect.Default(t, ts.URL+"/api/v2")

	page := e.GET("/pokemon").WithQuery("limit", 5).WithQuery("offset", 5).Expect().
		Status(http.StatusOK).
		JSON().
		Object()

	page.HasValue("count", seedCount).
		HasValue("next", ts.URL+"/api/v2/pokemon/?offset=10&limit=5").
		HasValue("previous", ts.URL+"/api/v2/pokemon/?limit=5")
	results := page.Value("results").Array()
	results.Length().IsEqual(5)
	results.Value(0).Object().
		HasValue("name", "charizard").
		HasValue("url", ts.URL+"/api/v2/pokemon/6/")

	e.GET("/pokemon").WithQuery("offset", seedCount+1000).Expect().
		Status(http.StatusOK).
		JSON().
		Object().Value("results").Array().IsEmpty()
}

func TestTwinDetail(t *testing.T) {
	ts := setupTwin(t, &config.Config{})
	e := httpexpect.Default(t, ts.URL+"/api/v2")

	pika := e.GET("/pokemon/pikachu").Expect().
		Status(http.StatusOK).
		JSON().
		Object()
	pika.HasValue("id", 25).HasValue("name", "pikachu")
	pika.Value("abilities").Array().NotEmpty()
	pika.Value("stats").Array().Length().IsEqual(6)
	pika.Path("$.sprites.front_default").String().IsEqual(ts.URL + "/api/v2/sprites/pokemon/25.png")

	e.GET("/pokemon/{id}", 99999).Expect().
		Status(http.StatusNotFound).
		Body().IsEqual("Not Found")

	e.GET("/sprites/pokemon/25.png").WithQuery("size", 48).Expect().
		Status(http.StatusOK).
		ContentType("image/png", "")
}

func TestTwinHeaders(t *testing.T) {
	ts := setupTwin(t, &config.Config{})
	e := httpexpect.Default(t, ts.URL+"/api/v2")

	resp := e.GET("/pokemon/1").WithHeader("X-Correlation-ID", "test-123").Expect().
		Status(http.StatusOK)
	resp.Header("X-Correlation-ID").IsEqual("test-123")
	resp.Header("X-Content-Type-Options").IsEqual("nosniff")
	resp.Header("X-Frame-Options").IsEqual("DENY")
}

func TestFeaturesAgainstTwin(t *testing.T) {
	ts := setupTwin(t, &config.Config{})

	features, err := scenario.LoadDir("../../features")
	require.NoError(t, err)

	report := newRunner(suiteConfig(ts), "~ratelimit").Run(context.Background(), features)
	assert.NotEmpty(t, report.Scenarios)
	requirePassed(t, report)
}

func TestRateLimitFeatureAgainstLimitedTwin(t *testing.T) {
	ts := setupTwin(t, &config.Config{RateLimit: 10, RateWindow: time.Minute})

	features, err := scenario.LoadDir("../../features")
	require.NoError(t, err)

	report := newRunner(suiteConfig(ts), "ratelimit").Run(context.Background(), features)
	require.Len(t, report.Scenarios, 1)
	requirePassed(t, report)
}

func TestLoadgenAgainstTwin(t *testing.T) {
	ts := setupTwin(t, &config.Config{})

	cfg := loadgen.DefaultConfig()
	cfg.Users = 4
	cfg.Duration = 300 * time.Millisecond
	cfg.MinWait = time.Millisecond
	cfg.MaxWait = 10 * time.Millisecond

	stats, err := loadgen.NewRunner(client.New(ts.URL+"/api/v2"), nil).Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Positive(t, stats.Requests())
	assert.Zero(t, stats.Failures())
}
