package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/homcount/pkg/bench"
	homio "github.com/matzehuels/homcount/pkg/io"
	"github.com/matzehuels/homcount/pkg/render"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for homcount. Decomposition arguments
complete to .ntd files and enum flags complete to their accepted values.

  bash:        source <(homcount completion bash)
  zsh:         homcount completion zsh > "${fpath[1]}/_homcount"
  fish:        homcount completion fish | source`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(c.out, true)
			case "zsh":
				return root.GenZshCompletion(c.out)
			case "fish":
				return root.GenFishCompletion(c.out, true)
			default:
				return root.GenPowerShellCompletionWithDesc(c.out)
			}
		},
	}
}

// registerCompletions walks the command tree and attaches argument and flag
// completions.
func registerCompletions(cmd *cobra.Command) {
	for _, sub := range cmd.Commands() {
		registerCompletions(sub)
	}

	switch cmd.Name() {
	case "count", "classes":
		cmd.ValidArgsFunction = completeDecomposition
	case "info":
		cmd.ValidArgsFunction = ntdFiles
	}

	for flag, values := range flagChoices(cmd) {
		if cmd.Flags().Lookup(flag) == nil {
			continue
		}
		_ = cmd.RegisterFlagCompletionFunc(flag, cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
	}
	if cmd.Flags().Lookup("decomposition") != nil {
		_ = cmd.RegisterFlagCompletionFunc("decomposition", ntdFiles)
	}
}

// flagChoices returns the accepted values of cmd's enum flags.
func flagChoices(cmd *cobra.Command) map[string][]string {
	formats := outputFormats
	switch {
	case cmd.Name() == "render":
		formats = render.Formats
	case cmd.HasParent() && cmd.Parent().Name() == "bench":
		formats = homio.Formats
	}
	return map[string][]string{
		"format":    formats,
		"store":     bench.Stores,
		"algorithm": bench.Algorithms,
	}
}

// completeDecomposition offers .ntd files for the first argument and any
// file after it.
func completeDecomposition(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return ntdFiles(cmd, args, toComplete)
	}
	return nil, cobra.ShellCompDirectiveDefault
}

func ntdFiles(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return []string{"ntd"}, cobra.ShellCompDirectiveFilterFileExt
}
