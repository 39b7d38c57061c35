package config

import (
	"os"
	"strconv"
	"time"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PROMISCUITY_"

// applyEnv overrides cfg from PROMISCUITY_* variables. Unparseable values
// are ignored.
func applyEnv(cfg *Config) {
	a := &cfg.Analysis
	a.Strategy = envOr("STRATEGY", a.Strategy)
	a.MaxTrees = envInt("MAX_TREES", a.MaxTrees)
	a.MaxSteps = envInt("MAX_STEPS", a.MaxSteps)
	a.Timeout.Duration = envDuration("TIMEOUT", a.Timeout.Duration)
	a.MaxBound = envInt64("MAX_BOUND", a.MaxBound)

	cfg.Batch.Workers = envInt("WORKERS", cfg.Batch.Workers)
	cfg.Batch.Column = envInt("COLUMN", cfg.Batch.Column)

	c := &cfg.Cache
	c.Backend = envOr("CACHE", c.Backend)
	c.Dir = envOr("CACHE_DIR", c.Dir)
	c.RedisURL = envOr("REDIS_URL", c.RedisURL)
	c.TTL.Duration = envDuration("CACHE_TTL", c.TTL.Duration)

	s := &cfg.Sink
	s.MongoURI = envOr("MONGO_URI", s.MongoURI)
	s.Database = envOr("MONGO_DATABASE", s.Database)
	s.Collection = envOr("MONGO_COLLECTION", s.Collection)

	cfg.Server.Addr = envOr("ADDR", cfg.Server.Addr)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
