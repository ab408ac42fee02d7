package config

import (
	"os"
	"strings"
	"time"
)

// Config holds the settings of the PokeAPI twin server.
type Config struct {
	ListenAddr string
	DBPath     string
	SpritePath string
	// BaseURL prefixes the links the twin emits. Empty derives it from the
	// request Host.
	BaseURL    string
	SeedCount  int
	RateLimit  int
	RateWindow time.Duration
}

// Suite holds the settings of the black-box test suite.
type Suite struct {
	BaseURL       string
	Timeout       time.Duration
	ForcedTimeout time.Duration
	LatencyLimit  time.Duration
	SlowLimit     time.Duration
	FeaturesDir   string
	Tags          []string
}

// Load reads the twin configuration from the environment.
func Load() *Config {
	return &Config{
		ListenAddr: getEnv("DT_LISTEN_ADDR", ":8080"),
		DBPath:     getEnv("DT_DB_PATH", "/data/db/pokeapi.db"),
		SpritePath: getEnv("DT_SPRITE_PATH", "/data/sprites"),
		BaseURL:    strings.TrimRight(getEnv("DT_BASE_URL", ""), "/"),
		SeedCount:  getEnvInt("DT_SEED_COUNT", 1302),
		RateLimit:  getEnvInt("DT_RATE_LIMIT", 0),
		RateWindow: getEnvDuration("DT_RATE_WINDOW", time.Second),
	}
}

// LoadSuite reads the suite configuration from the environment.
func LoadSuite() *Suite {
	return &Suite{
		BaseURL:       strings.TrimRight(getEnv("POKEAPI_BASE", "https://pokeapi.co/api/v2"), "/"),
		Timeout:       getEnvDuration("POKEAPI_TIMEOUT", 8*time.Second),
		ForcedTimeout: getEnvDuration("POKEAPI_FORCED_TIMEOUT", time.Microsecond),
		LatencyLimit:  getEnvDuration("POKEAPI_LATENCY_LIMIT", 3*time.Second),
		SlowLimit:     getEnvDuration("POKEAPI_SLOW_LIMIT", 5*time.Second),
		FeaturesDir:   getEnv("POKEQA_FEATURES", "features"),
		Tags:          splitList(getEnv("POKEQA_TAGS", "")),
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	var result int
	for _, c := range v {
		if c < '0' || c > '9' {
			return defaultValue
		}
		result = result*10 + int(c-'0')
	}
	return result
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
