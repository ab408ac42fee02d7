package steps_test

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/leca/dt-pokeapi/internal/client"
	"github.com/leca/dt-pokeapi/internal/config"
	"github.com/leca/dt-pokeapi/internal/database"
	"github.com/leca/dt-pokeapi/internal/router"
	"github.com/leca/dt-pokeapi/internal/scenario"
	"github.com/leca/dt-pokeapi/internal/steps"
	"github.com/leca/dt-pokeapi/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVocabulary_EveryFeatureLineMatches(t *testing.T) {
	reg := steps.Vocabulary()
	features, err := scenario.LoadDir("../../features")
	require.NoError(t, err)
	require.NotEmpty(t, features)

	for _, f := range features {
		for _, outline := range f.Scenarios {
			for _, s := range outline.Expand() {
				lines := append(append([]string{}, f.Background...), s.Steps...)
				var (
					prev    steps.Kind
					hasPrev bool
				)
				for _, line := range lines {
					kind, text, err := steps.ParseLine(line, prev, hasPrev)
					require.NoError(t, err, "%s / %s", f.Name, s.Name)
					_, _, err = reg.Match(kind, text)
					assert.NoError(t, err, "%s / %s: %s", f.Name, s.Name, line)
					prev, hasPrev = kind, true
				}
			}
		}
	}
}

func TestCoverage(t *testing.T) {
	assert.Zero(t, steps.Coverage(nil))
	assert.Equal(t, 100.0, steps.Coverage(map[string]bool{"pokemon": true, "ability": true}))
	assert.Equal(t, 75.0, steps.Coverage(map[string]bool{"pokemon": true, "ability": true, "move": true, "item": false}))
}

// twin starts a seeded twin and returns a world factory pointed at it.
func twin(t *testing.T, cfg *config.Config) func() *steps.World {
	t.Helper()

	db, err := database.NewSQLiteDB(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Seed(db, 160))

	ts := httptest.NewServer(router.New(db, storage.NewFileSystem(t.TempDir()), cfg).Router)
	t.Cleanup(ts.Close)

	suite := &config.Suite{
		BaseURL:       ts.URL + "/api/v2",
		Timeout:       5 * time.Second,
		ForcedTimeout: time.Microsecond,
		LatencyLimit:  3 * time.Second,
		SlowLimit:     5 * time.Second,
	}
	c := client.New(suite.BaseURL, client.WithDefaultTimeout(suite.Timeout))
	return func() *steps.World { return steps.NewWorld(suite, c, nil) }
}

// run executes the given step lines against a fresh world.
func run(t *testing.T, reg *steps.Registry, w *steps.World, lines ...string) error {
	t.Helper()
	var (
		prev    steps.Kind
		hasPrev bool
	)
	for _, line := range lines {
		kind, text, err := steps.ParseLine(line, prev, hasPrev)
		require.NoError(t, err)
		def, args, err := reg.Match(kind, text)
		require.NoError(t, err, line)
		if err := def.Fn(context.Background(), w, args); err != nil {
			return fmt.Errorf("%s: %w", line, err)
		}
		prev, hasPrev = kind, true
	}
	return nil
}

func TestPaginationSteps(t *testing.T) {
	newWorld := twin(t, &config.Config{})
	reg := steps.Vocabulary()

	err := run(t, reg, newWorld(),
		"Given the PokeAPI base URL is configured",
		"Given I request the list with limit 20 and offset 0",
		"And I request the list with limit 20 and offset 20",
		"Then there should be no duplicate pokemon between those pages",
		"And the metadata count should be consistent across these pages",
		"And next and previous links should be valid where applicable",
	)
	assert.NoError(t, err)

	err = run(t, reg, newWorld(),
		"Given the PokeAPI base URL is configured",
		"When I request the pokemon list with limit 10 and offset 0",
		"Then the number of results returned should be 20",
	)
	assert.Error(t, err)
}

func TestPokemonSteps(t *testing.T) {
	newWorld := twin(t, &config.Config{})
	reg := steps.Vocabulary()

	err := run(t, reg, newWorld(),
		`Given the endpoint "pokemon/pikachu"`,
		"When I send a GET request",
		"Then the response status should be 200",
		"And the response should validate against the Pokemon JSON schema",
		`And the JSON field "id" should equal "25"`,
	)
	assert.NoError(t, err)

	err = run(t, reg, newWorld(),
		`Given the endpoint "pokemon/99999"`,
		"When I send a GET request",
		"Then the response status should be 200",
	)
	assert.Error(t, err)
}

func TestPokemonSteps_ListedDetails(t *testing.T) {
	newWorld := twin(t, &config.Config{})
	reg := steps.Vocabulary()

	assert.NoError(t, run(t, reg, newWorld(),
		"When I request the pokemon list with limit 5 and offset 0",
		"Then every listed pokemon should have a valid structure",
		"And the first 3 listed pokemon should load their details",
	))

	var err error
	assert.NotPanics(t, func() {
		err = run(t, reg, newWorld(),
			"When I request the pokemon list with limit 5 and offset 0",
			"Then the first -1 listed pokemon should load their details",
		)
	})
	assert.ErrorContains(t, err, "must not be negative")
}

func TestNegativeSteps(t *testing.T) {
	newWorld := twin(t, &config.Config{})
	reg := steps.Vocabulary()

	err := run(t, reg, newWorld(),
		"Given the PokeAPI is available",
		`When I request the invalid pokemon id "-1"`,
		"Then the response status code should be 404",
		"And the error response should contain a descriptive message",
		"And the response should not expose sensitive information",
	)
	assert.NoError(t, err)

	err = run(t, reg, newWorld(),
		`When I request the pokemon "pikachu" with artificial delay`,
		"Then the response should timeout after the configured threshold",
	)
	assert.NoError(t, err)
}

func TestSecuritySteps_RateLimit(t *testing.T) {
	reg := steps.Vocabulary()

	open := twin(t, &config.Config{})
	assert.NoError(t, run(t, reg, open(),
		`When I send 5 rapid GET requests to "pokemon/1"`,
		"Then any rate limiting should be signalled with 429",
	))
	assert.Error(t, run(t, reg, open(),
		`When I send 5 rapid GET requests to "pokemon/1"`,
		"Then at least one response code should be 429",
	))
}

func TestSecuritySteps_RateLimited(t *testing.T) {
	reg := steps.Vocabulary()

	limited := twin(t, &config.Config{RateLimit: 3, RateWindow: time.Minute})
	assert.NoError(t, run(t, reg, limited(),
		`When I send 6 rapid GET requests to "pokemon/1"`,
		"Then at least one response code should be 429",
		"And any rate limiting should be signalled with 429",
	))
}

func TestSecuritySteps_Coverage(t *testing.T) {
	newWorld := twin(t, &config.Config{})
	reg := steps.Vocabulary()

	w := newWorld()
	err := run(t, reg, w,
		"Given I have executed tests for multiple endpoints",
		"When I calculate endpoint coverage",
		"Then the coverage percentage should be greater than 80",
	)
	require.NoError(t, err)
	assert.Equal(t, 100.0, w.Coverage)
}
