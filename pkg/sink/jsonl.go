package sink

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/matzehuels/promiscuity/pkg/observability"
)

// JSONLSink writes records as newline-delimited JSON.
type JSONLSink struct {
	mu     sync.Mutex
	buf    *bufio.Writer
	enc    *json.Encoder
	closer io.Closer
}

// NewJSONLSink writes to w. Close flushes but does not close w.
func NewJSONLSink(w io.Writer) *JSONLSink {
	buf := bufio.NewWriter(w)
	return &JSONLSink{buf: buf, enc: json.NewEncoder(buf)}
}

// CreateJSONLFile creates (or truncates) path and writes to it.
// Close flushes and closes the file.
func CreateJSONLFile(path string) (*JSONLSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create sink file: %w", err)
	}
	s := NewJSONLSink(f)
	s.closer = f
	return s, nil
}

// Write encodes rec as one line.
func (s *JSONLSink) Write(ctx context.Context, rec Record) error {
	start := time.Now()
	s.mu.Lock()
	err := s.enc.Encode(rec)
	s.mu.Unlock()
	observability.Sink().OnWrite(ctx, "jsonl", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	return nil
}

// Close flushes buffered output.
func (s *JSONLSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.buf.Flush(); err != nil {
		return fmt.Errorf("flush sink: %w", err)
	}
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

var _ Sink = (*JSONLSink)(nil)
