package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env         string
	ListenAddr  string
	DatabaseURL string

	// WorkerSecret guards the POST /worker/run trigger; empty disables auth
	// (local development only).
	WorkerSecret string
	// APIKey guards the /v1 API via the X-API-Key header.
	APIKey string

	SerpAPIKey string

	WorkerPoll   time.Duration // 0 disables the background loop
	BatchSize    int
	FetchLimit   int
	LeaseTimeout time.Duration

	Rules Rules
}

// Rules are the lead qualification thresholds. They are loaded once and
// passed explicitly, so pipeline behavior is a function of (query, rules)
// rather than ambient settings.
type Rules struct {
	MinRating      float64
	MaxRating      float64
	MinReviews     int
	MaxReviews     int
	RequireWebsite bool
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var out int
		if _, err := fmt.Sscanf(v, "%d", &out); err == nil {
			return out
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		var out float64
		if _, err := fmt.Sscanf(v, "%g", &out); err == nil {
			return out
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	switch os.Getenv(key) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func Load() (Config, error) {
	// Best effort; a missing .env is the normal case outside development.
	_ = godotenv.Load()

	cfg := Config{
		Env:          getenv("APP_ENV", "development"),
		ListenAddr:   getenv("LISTEN_ADDR", ":8080"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		WorkerSecret: os.Getenv("WORKER_SECRET"),
		APIKey:       os.Getenv("PUBLIC_API_KEY"),
		SerpAPIKey:   os.Getenv("SERPAPI_KEY"),
		WorkerPoll:   getenvDuration("WORKER_POLL", 0),
		BatchSize:    getenvInt("WORKER_BATCH_SIZE", 5),
		FetchLimit:   getenvInt("SCRAPE_FETCH_LIMIT", 20),
		LeaseTimeout: getenvDuration("JOB_LEASE_TIMEOUT", 10*time.Minute),
		Rules: Rules{
			MinRating:      getenvFloat("QUALIFY_MIN_RATING", 0),
			MaxRating:      getenvFloat("QUALIFY_MAX_RATING", 5),
			MinReviews:     getenvInt("QUALIFY_MIN_REVIEWS", 0),
			MaxReviews:     getenvInt("QUALIFY_MAX_REVIEWS", 1000000),
			RequireWebsite: getenvBool("QUALIFY_REQUIRE_WEBSITE", false),
		},
	}
	if cfg.DatabaseURL == "" {
		// Not fatal for early local runs; warn via error value so callers can decide.
		return cfg, fmt.Errorf("DATABASE_URL not set")
	}
	return cfg, nil
}
