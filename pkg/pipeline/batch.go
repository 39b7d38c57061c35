package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/promiscuity/pkg/annotation"
	perr "github.com/matzehuels/promiscuity/pkg/errors"
	"github.com/matzehuels/promiscuity/pkg/observability"
	"github.com/matzehuels/promiscuity/pkg/sink"
)

// BatchOptions configures Runner.Batch.
type BatchOptions struct {
	Options

	// Workers bounds concurrent analyses. Zero means DefaultWorkers.
	Workers int

	// Sink receives one record per input record, in input order.
	Sink sink.Sink

	// RunID tags every record. A random UUID is used when empty.
	RunID string

	// OnOutcome, if set, is called in input order as outcomes complete.
	OnOutcome func(Outcome)
}

// Outcome is the result of one batch record.
type Outcome struct {
	Line   int
	ID     string
	Result *Result
	Err    error
}

// Record converts the outcome to its persisted form.
func (o Outcome) Record(runID string) sink.Record {
	rec := sink.Record{
		RunID:     runID,
		Line:      o.Line,
		ID:        o.ID,
		CreatedAt: time.Now().UTC(),
	}
	if res := o.Result; res != nil {
		rec.Count = res.Count
		rec.Truncated = res.Truncated
		rec.Reason = res.Reason
		rec.Skipped = res.Skipped
		if res.Bound != nil {
			rec.Bound = res.Bound.String()
		}
		for _, t := range res.Trees {
			rec.Trees = append(rec.Trees, t.Map())
		}
	}
	if o.Err != nil {
		rec.Code = string(perr.GetCode(o.Err))
		rec.Error = perr.UserMessage(o.Err)
	}
	return rec
}

// BatchResult summarizes a batch run.
type BatchResult struct {
	RunID     string
	Outcomes  []Outcome
	Succeeded int
	Failed    int
	Duration  time.Duration
}

// Batch analyzes records concurrently. A failing record never aborts the
// batch: its error is kept in the matching Outcome. The returned error
// reports canceled contexts and sink failures only.
func (r *Runner) Batch(ctx context.Context, records []annotation.Record, opts BatchOptions) (*BatchResult, error) {
	r.applyLogger(&opts.Options)
	if err := opts.Options.ValidateAndSetDefaults(); err != nil {
		return nil, perr.Wrap(perr.ErrCodeInvalidConfig, err, "invalid options")
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	res := &BatchResult{RunID: runID, Outcomes: make([]Outcome, len(records))}
	start := time.Now()
	observability.Analysis().OnBatchStart(ctx, runID, len(records))
	opts.Logger.Info("starting batch", "run", runID, "records", len(records), "workers", workers)

	ready := make([]chan struct{}, len(records))
	for i := range ready {
		ready[i] = make(chan struct{})
	}

	// Fan results in, in input order.
	fanIn := make(chan error, 1)
	go func() {
		var errs []error
		for i := range records {
			<-ready[i]
			o := res.Outcomes[i]
			if opts.OnOutcome != nil {
				opts.OnOutcome(o)
			}
			if opts.Sink != nil {
				if err := opts.Sink.Write(ctx, o.Record(runID)); err != nil {
					errs = append(errs, fmt.Errorf("line %d: %w", o.Line, err))
				}
			}
		}
		fanIn <- errors.Join(errs...)
	}()

	g := new(errgroup.Group)
	g.SetLimit(workers)
	for i, rec := range records {
		g.Go(func() error {
			defer close(ready[i])
			res.Outcomes[i] = r.analyzeRecord(ctx, rec, opts.Options)
			return nil
		})
	}
	_ = g.Wait()
	sinkErr := <-fanIn

	for _, o := range res.Outcomes {
		if o.Err != nil {
			res.Failed++
		} else {
			res.Succeeded++
		}
	}
	res.Duration = time.Since(start)
	observability.Analysis().OnBatchComplete(ctx, runID, res.Succeeded, res.Failed, res.Duration)
	opts.Logger.Info("finished batch",
		"run", runID,
		"succeeded", res.Succeeded,
		"failed", res.Failed,
		"duration", res.Duration)

	if err := ctx.Err(); err != nil {
		return res, err
	}
	if sinkErr != nil {
		return res, fmt.Errorf("sink: %w", sinkErr)
	}
	return res, nil
}

func (r *Runner) analyzeRecord(ctx context.Context, rec annotation.Record, opts Options) Outcome {
	o := Outcome{Line: rec.Line, ID: strconv.Itoa(rec.Line)}
	if rec.Err != nil {
		o.Err = rec.Err
		opts.Logger.Warn("skipping record", "line", rec.Line, "error", rec.Err)
		return o
	}
	o.ID = rec.Annotation.ID
	o.Result, o.Err = r.Analyze(ctx, rec.Annotation, opts)
	if o.Err != nil {
		opts.Logger.Warn("analysis failed", "line", rec.Line, "id", o.ID, "error", o.Err)
	}
	return o
}
