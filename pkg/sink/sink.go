// Package sink persists per-sentence analysis outcomes.
//
// Batch runs fan results in to a [Sink] in input order. Two backends are
// provided: [JSONLSink] writes one JSON document per line to any writer, and
// [MongoSink] inserts documents into a MongoDB collection. [Multi] tees
// records to several sinks.
package sink

import (
	"context"
	"errors"
	"time"
)

// Record is one persisted analysis outcome.
type Record struct {
	RunID     string              `json:"run_id" bson:"run_id"`
	Line      int                 `json:"line" bson:"line"`
	ID        string              `json:"id" bson:"id"`
	Count     int                 `json:"count" bson:"count"`
	Bound     string              `json:"bound,omitempty" bson:"bound,omitempty"`
	Truncated bool                `json:"truncated,omitempty" bson:"truncated,omitempty"`
	Reason    string              `json:"reason,omitempty" bson:"reason,omitempty"`
	Skipped   bool                `json:"skipped,omitempty" bson:"skipped,omitempty"`
	Trees     []map[string]string `json:"trees,omitempty" bson:"trees,omitempty"`
	Code      string              `json:"code,omitempty" bson:"code,omitempty"`
	Error     string              `json:"error,omitempty" bson:"error,omitempty"`
	CreatedAt time.Time           `json:"created_at" bson:"created_at"`
}

// Failed reports whether the record describes a failed sentence.
func (r Record) Failed() bool { return r.Error != "" }

// Sink receives records. Implementations are safe for concurrent use.
type Sink interface {
	Write(ctx context.Context, rec Record) error
	Close() error
}

type multi []Sink

// Multi returns a sink that writes every record to each of sinks in order.
// A failing sink does not prevent the others from receiving the record.
func Multi(sinks ...Sink) Sink {
	return multi(sinks)
}

func (m multi) Write(ctx context.Context, rec Record) error {
	var errs []error
	for _, s := range m {
		if err := s.Write(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m multi) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
