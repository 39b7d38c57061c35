package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/promiscuity/pkg/pipeline"
	"github.com/matzehuels/promiscuity/pkg/render"
	"github.com/matzehuels/promiscuity/pkg/tree"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	formats  string // comma-separated output formats
	output   string // output path without extension
	index    int    // tree to draw, 0 for the candidate graph
	detailed bool   // add covered words to labels
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags analysisFlags
		opts  renderOpts
	)

	cmd := &cobra.Command{
		Use:   "render <annotation.json>",
		Short: "Draw the candidate graph or a resolved tree",
		Long: `Draw the candidate graph of an annotation, or one of its resolved trees,
with Graphviz. CBB groups are drawn as nested clusters; in a tree their
resolved heads are outlined.

PNG and PDF output need rsvg-convert on PATH.

Examples:
  promiscuity render sentence.json                    # candidate graph as SVG
  promiscuity render --tree 1 -f svg,dot sentence.json
  promiscuity render -f png -o out/sentence sentence.json`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: annotationFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseFormats(opts.formats)
			if err := pipeline.ValidateFormats(formats); err != nil {
				return err
			}
			for _, f := range formats {
				if (f == pipeline.FormatPNG || f == pipeline.FormatPDF) && !render.Available() {
					return fmt.Errorf("%s output needs rsvg-convert", f)
				}
				if f == pipeline.FormatCoNLL && opts.index == 0 {
					return fmt.Errorf("conll output needs --tree")
				}
			}

			ann, err := readAnnotation(cmd, args[0])
			if err != nil {
				return err
			}
			aopts, err := flags.options(cmd, c.cfg.Analysis)
			if err != nil {
				return err
			}
			if opts.index == 0 {
				aopts.Budget.CountOnly = true
			}
			res, err := c.analyze(cmd.Context(), ann, aopts, flags.noCache)
			if err != nil {
				return err
			}

			var t *tree.Tree
			if opts.index > 0 {
				if opts.index > len(res.Trees) {
					return fmt.Errorf("--tree %d out of range (%d trees)", opts.index, len(res.Trees))
				}
				t = &res.Trees[opts.index-1]
			}

			artifacts, err := pipeline.Render(res.Graph, t, pipeline.RenderOptions{
				Formats:  formats,
				Detailed: opts.detailed,
			})
			if err != nil {
				return err
			}

			base := opts.output
			if base == "" {
				base = outputBase(args[0], opts.index)
			}
			printSuccess("Rendered %s", res.ID)
			for _, f := range formats {
				path := base + "." + f
				if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
				printFile(path)
			}
			if opts.index == 0 && res.Count > 0 {
				printNextStep("Draw a resolved tree", fmt.Sprintf("%s render --tree 1 %s", appName, args[0]))
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output formats: dot, svg, png, pdf, conll, json (comma-separated)")
	completeValues(cmd, "format", renderFormatValues)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output path without extension")
	cmd.Flags().IntVarP(&opts.index, "tree", "t", 0, "draw this resolved tree (1-based) instead of the candidate graph")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "add covered words to node labels")
	return cmd
}

// outputBase derives the output path from the input file name.
func outputBase(input string, index int) string {
	base := "annotation"
	if input != "-" {
		base = strings.TrimSuffix(input, ".json")
	}
	if index > 0 {
		return fmt.Sprintf("%s.tree%d", base, index)
	}
	return base + ".candidates"
}
