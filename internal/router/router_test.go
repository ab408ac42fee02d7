package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/leca/dt-pokeapi/internal/api"
	"github.com/leca/dt-pokeapi/internal/config"
	"github.com/leca/dt-pokeapi/internal/database"
	"github.com/leca/dt-pokeapi/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()
	db, err := database.NewSQLiteDB(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Seed(db, 10))

	ts := httptest.NewServer(New(db, storage.NewFileSystem(t.TempDir()), cfg).Router)
	t.Cleanup(ts.Close)
	return ts
}

func TestHealth(t *testing.T) {
	ts := newServer(t, &config.Config{})

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(10), body["pokemon"])
}

func TestSecurityAndCorrelationHeaders(t *testing.T) {
	ts := newServer(t, &config.Config{})

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/v2/pokemon/1", nil)
	require.NoError(t, err)
	req.Header.Set(api.CorrelationHeader, "test-123")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "test-123", resp.Header.Get(api.CorrelationHeader))
	for k := range api.SecurityHeaders {
		assert.NotEmpty(t, resp.Header.Get(k), k)
	}

	// headers are present on error responses too
	resp, err = http.Get(ts.URL + "/api/v2/pokemon/99999")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.NotEmpty(t, resp.Header.Get(api.CorrelationHeader))
}

func TestMethodNotAllowed(t *testing.T) {
	ts := newServer(t, &config.Config{})

	resp, err := http.Post(ts.URL+"/api/v2/pokemon", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestRateLimit(t *testing.T) {
	ts := newServer(t, &config.Config{RateLimit: 3, RateWindow: time.Minute})

	var statuses []int
	for range 5 {
		resp, err := http.Get(ts.URL + "/api/v2/pokemon/1")
		require.NoError(t, err)
		resp.Body.Close()
		statuses = append(statuses, resp.StatusCode)
	}
	assert.Equal(t, []int{200, 200, 200, 429, 429}, statuses)

	// health is outside the limiter
	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNoRateLimitByDefault(t *testing.T) {
	ts := newServer(t, &config.Config{})

	for range 20 {
		resp, err := http.Get(ts.URL + "/api/v2/pokemon?limit=1")
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
}
