package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerQuickStopWritesNothing(t *testing.T) {
	var out syncBuffer
	s := newSpinner(context.Background(), &out, "Enumerating")
	s.Start()
	s.Stop()

	if got := out.String(); got != "" {
		t.Errorf("spinner wrote %q before its delay", got)
	}
}

func TestSpinnerDrawsAndClears(t *testing.T) {
	var out syncBuffer
	s := newSpinner(context.Background(), &out, "Enumerating")
	s.Start()
	time.Sleep(spinnerDelay + 200*time.Millisecond)
	s.Stop()

	got := out.String()
	if !strings.Contains(got, "Enumerating") {
		t.Errorf("output %q missing message", got)
	}
	if !strings.HasSuffix(got, "\r") {
		t.Errorf("output %q should end by clearing the line", got)
	}
}

func TestSpinnerContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinner(ctx, &syncBuffer{}, "Enumerating")
	s.Start()
	cancel()

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked after context cancel")
	}
	if !s.Cancelled() {
		t.Error("Cancelled() = false after context cancel")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner(context.Background(), &syncBuffer{}, "Enumerating")
	s.Start()
	s.Stop()
	s.Stop()
	s.Stop()
}
