package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	perr "github.com/matzehuels/promiscuity/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestLoadDefaultLocationMissing(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Analysis.Strategy != StrategySearch {
		t.Errorf("Strategy = %q, want %q", cfg.Analysis.Strategy, StrategySearch)
	}
	want := filepath.Join(os.Getenv("XDG_CACHE_HOME"), AppName)
	if cfg.Cache.Dir != want {
		t.Errorf("Cache.Dir = %q, want %q", cfg.Cache.Dir, want)
	}
}

func TestLoadExplicitMissing(t *testing.T) {
	isolate(t)
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("Load() of a missing explicit path should fail")
	}
}

func TestLoadDefaultLocation(t *testing.T) {
	isolate(t)
	dir := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), AppName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	body := "[batch]\nworkers = 9\n"
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Batch.Workers != 9 {
		t.Errorf("Workers = %d, want 9", cfg.Batch.Workers)
	}
}

func TestLoadPrecedence(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `
[analysis]
strategy = "filter"
max_trees = 50
timeout = "10s"
max_bound = 1000

[cache]
backend = "none"
`)

	t.Setenv("PROMISCUITY_MAX_TREES", "7")
	t.Setenv("PROMISCUITY_ADDR", ":9999")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"strategy from file", cfg.Analysis.Strategy, StrategyFilter},
		{"max_trees from env", cfg.Analysis.MaxTrees, 7},
		{"timeout from file", cfg.Analysis.Timeout.Duration, 10 * time.Second},
		{"max_bound from file", cfg.Analysis.MaxBound, int64(1000)},
		{"backend from file", cfg.Cache.Backend, BackendNone},
		{"addr from env", cfg.Server.Addr, ":9999"},
		{"workers default", cfg.Batch.Workers, 4},
		{"column default", cfg.Batch.Column, 2},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, tt.got, tt.want)
		}
	}

	b := cfg.Analysis.Budget()
	if b.MaxTrees != 7 || b.Timeout != 10*time.Second {
		t.Errorf("Budget() = %+v", b)
	}
}

func TestLoadBadEnvIgnored(t *testing.T) {
	isolate(t)
	t.Setenv("PROMISCUITY_WORKERS", "many")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Batch.Workers != 4 {
		t.Errorf("Workers = %d, want default 4", cfg.Batch.Workers)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"syntax", "[analysis\n"},
		{"unknown key", "[analysis]\nmax_tree = 3\n"},
		{"bad duration", "[analysis]\ntimeout = \"soon\"\n"},
		{"bad strategy", "[analysis]\nstrategy = \"guess\"\n"},
		{"bad backend", "[cache]\nbackend = \"memcached\"\n"},
		{"redis without url", "[cache]\nbackend = \"redis\"\n"},
		{"negative limit", "[analysis]\nmax_steps = -1\n"},
		{"zero workers", "[batch]\nworkers = 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			_, err := Load(writeConfig(t, tt.body))
			if !perr.Is(err, perr.ErrCodeInvalidConfig) {
				t.Errorf("Load() error = %v, want %s", err, perr.ErrCodeInvalidConfig)
			}
		})
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := CacheDir()
	if err != nil {
		t.Fatalf("CacheDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", AppName)
	if dir != expected {
		t.Errorf("CacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")

	dir, err := CacheDir()
	if err != nil {
		t.Fatalf("CacheDir() error: %v", err)
	}
	if want := filepath.Join("/tmp/custom-cache", AppName); dir != want {
		t.Errorf("CacheDir() = %q, want %q", dir, want)
	}
}

func TestPathXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")

	p, err := Path()
	if err != nil {
		t.Fatalf("Path() error: %v", err)
	}
	if want := filepath.Join("/tmp/cfg", AppName, "config.toml"); p != want {
		t.Errorf("Path() = %q, want %q", p, want)
	}
}
