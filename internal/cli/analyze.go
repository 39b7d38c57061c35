package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/promiscuity/pkg/annotation"
	"github.com/matzehuels/promiscuity/pkg/conll"
	"github.com/matzehuels/promiscuity/pkg/kirchhoff"
	"github.com/matzehuels/promiscuity/pkg/pipeline"
)

// analyze runs one annotation through the pipeline with a spinner.
func (c *CLI) analyze(ctx context.Context, ann *annotation.Annotation, opts pipeline.Options, noCache bool) (*pipeline.Result, error) {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return nil, err
	}
	defer runner.Close()

	spinner := newSpinner(ctx, c.errOut, fmt.Sprintf("Enumerating trees for %s...", ann.ID))
	spinner.Start()
	res, err := runner.Analyze(ctx, ann, opts)
	spinner.Stop()
	return res, err
}

// countCommand creates the count command.
func (c *CLI) countCommand() *cobra.Command {
	var flags analysisFlags

	cmd := &cobra.Command{
		Use:   "count <annotation.json>",
		Short: "Count the resolved trees of an annotation",
		Long: `Count the fully resolved dependency trees compatible with an annotation.

Use "-" to read the annotation from stdin.

Examples:
  promiscuity count sentence.json
  promiscuity count --max-trees 100000 --timeout 10s sentence.json
  promiscuity count --strategy both sentence.json   # cross-check against enumerate-then-filter`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: annotationFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd, c.cfg.Analysis)
			if err != nil {
				return err
			}
			opts.Budget.CountOnly = true

			ann, err := readAnnotation(cmd, args[0])
			if err != nil {
				return err
			}
			res, err := c.analyze(cmd.Context(), ann, opts, flags.noCache)
			if res != nil {
				printResult(cmd.OutOrStdout(), res)
			}
			return err
		},
	}

	flags.register(cmd)
	return cmd
}

// enumerateCommand creates the enumerate command.
func (c *CLI) enumerateCommand() *cobra.Command {
	var (
		flags  analysisFlags
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:     "enumerate <annotation.json>",
		Aliases: []string{"enum"},
		Short:   "List the resolved trees of an annotation",
		Long: `List every fully resolved dependency tree compatible with an annotation.

Output formats:
  json   one JSON object per line mapping each node to its parent
  keys   one canonical "child:parent ..." line per tree
  conll  CoNLL blocks separated by blank lines

Examples:
  promiscuity enumerate sentence.json
  promiscuity enumerate --format conll -o trees.conll sentence.json`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: annotationFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "keys" && format != "conll" {
				return fmt.Errorf("invalid --format %q (must be one of: json, keys, conll)", format)
			}
			opts, err := flags.options(cmd, c.cfg.Analysis)
			if err != nil {
				return err
			}

			ann, err := readAnnotation(cmd, args[0])
			if err != nil {
				return err
			}
			res, err := c.analyze(cmd.Context(), ann, opts, flags.noCache)
			if err != nil && res == nil {
				return err
			}

			w, closeOut, oerr := openOutput(cmd, output)
			if oerr != nil {
				return oerr
			}
			if werr := writeTrees(w, res, format); werr != nil {
				closeOut()
				return werr
			}
			if cerr := closeOut(); cerr != nil {
				return cerr
			}

			if output != "" {
				printSuccess("Wrote %d trees", res.Count)
				printFile(output)
			}
			if res.Truncated {
				printWarning("Search stopped early (%s); the list is incomplete", res.Reason)
			}
			if res.Skipped {
				printWarning("Bound %s exceeds --max-bound; nothing enumerated", res.Bound)
			}
			return err
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json, keys or conll")
	completeValues(cmd, "format", analyzeFormatValues)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}

// boundCommand creates the bound command.
func (c *CLI) boundCommand() *cobra.Command {
	var (
		maxBound int64
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "bound <annotation.json>",
		Short: "Count the unconstrained spanning trees of the candidate graph",
		Long: `Compute the Matrix-Tree bound: the exact number of spanning trees of the
candidate graph, ignoring CBB constraints. It is an upper bound on the
resolved tree count and cheap to compute, so it tells whether enumeration
is feasible before running it.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: annotationFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			ann, err := readAnnotation(cmd, args[0])
			if err != nil {
				return err
			}
			runner, err := c.newRunner(cmd.Context(), noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			b, g, err := runner.Bound(cmd.Context(), ann)
			if err != nil {
				return err
			}
			limit := c.cfg.Analysis.MaxBound
			if cmd.Flags().Changed("max-bound") {
				limit = maxBound
			}

			w := cmd.OutOrStdout()
			printKeyValue(w, "id", ann.ID)
			printKeyValue(w, "nodes", fmt.Sprint(g.Len()-1))
			printKeyValue(w, "candidates", fmt.Sprint(g.EdgeCount()))
			printKeyValue(w, "bound", b.String())
			if limit > 0 {
				status := StyleSuccess.Render("tractable")
				if !kirchhoff.Tractable(b, limit) {
					status = StyleWarning.Render(fmt.Sprintf("exceeds %d", limit))
				}
				printKeyValue(w, "status", status)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&maxBound, "max-bound", 0, "report whether the bound exceeds this")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	return cmd
}

// printResult prints the summary of one analysis.
func printResult(w io.Writer, res *pipeline.Result) {
	printKeyValue(w, "id", res.ID)
	printKeyValue(w, "trees", StyleNumber.Render(fmt.Sprint(res.Count)))
	printKeyValue(w, "bound", fmt.Sprint(res.Bound))
	printKeyValue(w, "strategy", res.Strategy)
	switch {
	case res.Skipped:
		printKeyValue(w, "status", StyleWarning.Render("skipped: bound exceeds limit"))
	case res.Truncated:
		printKeyValue(w, "status", StyleWarning.Render("truncated: "+res.Reason))
	default:
		printKeyValue(w, "status", StyleSuccess.Render("complete"))
	}
	printStats(w, res.Stats.Nodes, res.Stats.Groups, res.Stats.Candidates, res.CacheHit)
}

// writeTrees writes res.Trees in format.
func writeTrees(w io.Writer, res *pipeline.Result, format string) error {
	switch format {
	case "keys":
		for _, t := range res.Trees {
			if _, err := fmt.Fprintln(w, t.Key()); err != nil {
				return err
			}
		}
	case "conll":
		for i, t := range res.Trees {
			if i > 0 {
				fmt.Fprintln(w)
			}
			if err := conll.Write(w, res.Graph, t, conll.Options{}); err != nil {
				return err
			}
		}
	default:
		enc := json.NewEncoder(w)
		for _, t := range res.Trees {
			if err := enc.Encode(t); err != nil {
				return err
			}
		}
	}
	return nil
}

// joinIDs renders a short list of labels.
func joinIDs(ids []string, limit int) string {
	if len(ids) <= limit {
		return strings.Join(ids, ", ")
	}
	return strings.Join(ids[:limit], ", ") + fmt.Sprintf(" (+%d)", len(ids)-limit)
}
