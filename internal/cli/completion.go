package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/promiscuity/pkg/pipeline"
)

// Value sets offered for enum-like flags.
var (
	strategyValues      = []string{pipeline.StrategySearch, pipeline.StrategyFilter, pipeline.StrategyBoth}
	analyzeFormatValues = []string{"json", "keys", "conll"}
	renderFormatValues  = []string{"dot", "svg", "png", "pdf", "conll", "json"}
)

// completeValues registers a fixed completion list for flag on cmd.
func completeValues(cmd *cobra.Command, flag string, values []string) {
	_ = cmd.RegisterFlagCompletionFunc(flag, cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
}

// completionCommand creates the completion command. Besides subcommands it
// completes --strategy and --format values.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for promiscuity.

  $ source <(promiscuity completion bash)
  $ promiscuity completion zsh > "${fpath[1]}/_promiscuity"
  $ promiscuity completion fish > ~/.config/fish/completions/promiscuity.fish
  PS> promiscuity completion powershell | Out-String | Invoke-Expression

Annotation file arguments complete as .json and .jsonl paths.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(w, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}
			return nil
		},
	}

	return cmd
}

// annotationFiles completes positional arguments as annotation files.
func annotationFiles(cmd *cobra.Command, args []string, toComplete string) ([]cobra.Completion, cobra.ShellCompDirective) {
	return []cobra.Completion{"json", "jsonl"}, cobra.ShellCompDirectiveFilterFileExt
}
