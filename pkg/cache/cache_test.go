package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	// AnalysisKey should include options in hash
	ak1 := k.AnalysisKey("abc", AnalysisKeyOpts{Strategy: "search", MaxTrees: 10})
	ak2 := k.AnalysisKey("abc", AnalysisKeyOpts{Strategy: "search", MaxTrees: 20})
	if ak1 == ak2 {
		t.Error("Different AnalysisKeyOpts should produce different keys")
	}
	if ak1 != k.AnalysisKey("abc", AnalysisKeyOpts{Strategy: "search", MaxTrees: 10}) {
		t.Error("AnalysisKey should be deterministic")
	}
	if !strings.HasPrefix(ak1, "analysis:") {
		t.Errorf("AnalysisKey unexpected: %s", ak1)
	}

	// BoundKey depends on the annotation only
	if k.BoundKey("abc") == k.BoundKey("abd") {
		t.Error("Different annotations should produce different bound keys")
	}
	if k.BoundKey("abc") == ak1 {
		t.Error("Bound and analysis keys should not collide")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "ewt:")

	// All keys should be prefixed
	if got, want := scoped.BoundKey("abc"), "ewt:"+inner.BoundKey("abc"); got != want {
		t.Errorf("ScopedKeyer BoundKey = %s, want %s", got, want)
	}
	ak := scoped.AnalysisKey("abc", AnalysisKeyOpts{})
	if !strings.HasPrefix(ak, "ewt:analysis:") {
		t.Errorf("ScopedKeyer AnalysisKey should be prefixed: %s", ak)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.BoundKey("abc")
	if key != "prefix:"+NewDefaultKeyer().BoundKey("abc") {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestHashJSON(t *testing.T) {
	h1, err := HashJSON(map[string]int{"a": 1, "b": 2})
	if err != nil {
		t.Fatal(err)
	}
	h2, _ := HashJSON(map[string]int{"b": 2, "a": 1})
	if h1 != h2 {
		t.Error("HashJSON should not depend on map order")
	}
	if _, err := HashJSON(make(chan int)); err == nil {
		t.Error("HashJSON should fail for unencodable values")
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("empty cache hit")
	}
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "v" {
		t.Errorf("Get = %q, %v, %v", data, hit, err)
	}

	if err := c.Set(ctx, "old", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "old"); hit {
		t.Error("expired entry hit")
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	if err := c.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete missing error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("deleted entry hit")
	}

	_ = c.Set(ctx, "a", []byte("1"), 0)
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("entry survived Clear")
	}
}

func TestRedisCacheBadURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), "not-a-url"); err == nil {
		t.Error("NewRedisCache should fail for an invalid URL")
	}
}

func TestRetryable(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should be nil")
	}
	err := Retryable(ErrNetwork)
	if !IsRetryable(err) {
		t.Error("IsRetryable(Retryable(err)) = false")
	}
	if !errors.Is(err, ErrNetwork) {
		t.Error("Retryable should keep the wrapped error")
	}
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("Error() = %q, want %q", err.Error(), ErrNetwork.Error())
	}
	if IsRetryable(ErrNetwork) {
		t.Error("unmarked errors are not retryable")
	}
	if !IsRetryable(fmt.Errorf("insert: %w", err)) {
		t.Error("IsRetryable should look through wrapping")
	}
}

func TestBackoffRetry(t *testing.T) {
	ctx := context.Background()
	permanent := errors.New("permanent")
	fast := Backoff{Attempts: 3, Delay: time.Millisecond}

	tests := []struct {
		name      string
		fails     int
		err       error
		wantCalls int
		wantErr   error
	}{
		{"success", 0, nil, 1, nil},
		{"permanent error", 5, permanent, 1, permanent},
		{"transient then success", 2, Retryable(ErrNetwork), 3, nil},
		{"transient exhausted", 5, Retryable(ErrNetwork), 3, ErrNetwork},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := fast.Retry(ctx, func() error {
				calls++
				if calls <= tt.fails {
					return tt.err
				}
				return nil
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBackoffZeroAttempts(t *testing.T) {
	calls := 0
	_ = Backoff{}.Retry(context.Background(), func() error {
		calls++
		return Retryable(ErrNetwork)
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrNetwork)
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
