package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/promiscuity/pkg/conll"
)

// conllCommand creates the conll command.
func (c *CLI) conllCommand() *cobra.Command {
	var (
		flags    analysisFlags
		index    int
		standard bool
		output   string
	)

	cmd := &cobra.Command{
		Use:   "conll <annotation.json>",
		Short: "Write resolved trees as CoNLL",
		Long: `Write resolved trees as ten-column CoNLL.

By default a ROOT row is emitted at index 1 and tokens are numbered from 2.
With --standard there is no ROOT row, tokens are numbered from 1 and root
attachments use head 0.

Examples:
  promiscuity conll sentence.json              # every tree
  promiscuity conll --tree 3 sentence.json     # only the third tree
  promiscuity conll --standard sentence.json`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: annotationFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd, c.cfg.Analysis)
			if err != nil {
				return err
			}
			ann, err := readAnnotation(cmd, args[0])
			if err != nil {
				return err
			}
			res, err := c.analyze(cmd.Context(), ann, opts, flags.noCache)
			if err != nil {
				return err
			}

			trees := res.Trees
			if index > 0 {
				if index > len(trees) {
					return fmt.Errorf("--tree %d out of range (%d trees)", index, len(trees))
				}
				trees = trees[index-1 : index]
			}

			w, closeOut, err := openOutput(cmd, output)
			if err != nil {
				return err
			}
			defer closeOut()

			for i, t := range trees {
				if i > 0 {
					fmt.Fprintln(w)
				}
				if err := conll.Write(w, res.Graph, t, conll.Options{Standard: standard}); err != nil {
					return err
				}
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVarP(&index, "tree", "t", 0, "write only this tree (1-based)")
	cmd.Flags().BoolVar(&standard, "standard", false, "standard numbering without a ROOT row")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}
