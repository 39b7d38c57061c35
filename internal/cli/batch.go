package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/promiscuity/pkg/annotation"
	"github.com/matzehuels/promiscuity/pkg/pipeline"
	"github.com/matzehuels/promiscuity/pkg/sink"
)

// batchCommand creates the batch command.
func (c *CLI) batchCommand() *cobra.Command {
	var (
		flags     analysisFlags
		workers   int
		column    int
		output    string
		countOnly bool
		runID     string
	)

	cmd := &cobra.Command{
		Use:   "batch <input.tsv>",
		Short: "Analyze one annotation per line",
		Long: `Analyze a line-oriented file of annotations concurrently.

Each line holds one JSON annotation, either alone or in a tab-separated
column (--column, zero-based). A failing line is reported and does not stop
the batch. One JSON record per input line is written to --output in input
order; with a MongoDB URI configured, records are also stored there.

Examples:
  promiscuity batch corpus.tsv -o results.jsonl
  promiscuity batch --column -1 --count-only --workers 8 corpus.jsonl
  PROMISCUITY_MONGO_URI=mongodb://localhost:27017 promiscuity batch corpus.tsv`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: annotationFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts, err := flags.options(cmd, c.cfg.Analysis)
			if err != nil {
				return err
			}
			opts.Budget.CountOnly = countOnly
			if !cmd.Flags().Changed("workers") {
				workers = c.cfg.Batch.Workers
			}
			if !cmd.Flags().Changed("column") {
				column = c.cfg.Batch.Column
			}

			in := cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			reader := annotation.NewReader(in)
			reader.Column = column
			records, err := reader.ReadAll()
			if err != nil {
				return err
			}

			out, err := c.batchSink(cmd, output)
			if err != nil {
				return err
			}
			defer out.Close()

			runner, err := c.newRunner(ctx, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			logger := loggerFromContext(ctx)
			prog := newProgress(logger)
			var failed []string
			res, err := runner.Batch(ctx, records, pipeline.BatchOptions{
				Options: opts,
				Workers: workers,
				Sink:    out,
				RunID:   runID,
				OnOutcome: func(o pipeline.Outcome) {
					if o.Err != nil {
						failed = append(failed, o.ID)
					}
				},
			})
			if res == nil {
				return err
			}
			prog.done(fmt.Sprintf("Analyzed %d records", len(records)))

			if output != "" {
				printSuccess("Run %s: %d succeeded, %d failed", res.RunID, res.Succeeded, res.Failed)
				printFile(output)
			}
			if len(failed) > 0 {
				logger.Warn("some records failed", "ids", joinIDs(failed, 10))
			}
			return err
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVarP(&workers, "workers", "w", pipeline.DefaultWorkers, "concurrent analyses")
	cmd.Flags().IntVar(&column, "column", annotation.DefaultColumn, "tab column holding the JSON (-1 for the whole line)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "JSONL output file (stdout if empty)")
	cmd.Flags().BoolVar(&countOnly, "count-only", false, "store counts without the trees")
	cmd.Flags().StringVar(&runID, "run-id", "", "tag records with this run ID (random if empty)")
	return cmd
}

// batchSink opens the JSONL output and, when configured, the MongoDB sink.
func (c *CLI) batchSink(cmd *cobra.Command, output string) (sink.Sink, error) {
	var jsonl *sink.JSONLSink
	if output == "" || output == "-" {
		jsonl = sink.NewJSONLSink(cmd.OutOrStdout())
	} else {
		f, err := sink.CreateJSONLFile(output)
		if err != nil {
			return nil, err
		}
		jsonl = f
	}
	if c.cfg.Sink.MongoURI == "" {
		return jsonl, nil
	}
	ms, err := sink.NewMongoSink(cmd.Context(), c.cfg.Sink.MongoURI, c.cfg.Sink.Database, c.cfg.Sink.Collection)
	if err != nil {
		jsonl.Close()
		return nil, fmt.Errorf("connect mongo sink: %w", err)
	}
	c.Logger.Debug("storing records in mongo", "database", c.cfg.Sink.Database, "collection", c.cfg.Sink.Collection)
	return sink.Multi(jsonl, ms), nil
}
