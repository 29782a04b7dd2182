package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/stipple/pkg/density"
	"github.com/matzehuels/stipple/pkg/pipeline"
)

// completionCommand prints shell completion scripts.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for your shell.

  $ source <(stipple completion bash)
  $ stipple completion zsh > "${fpath[1]}/_stipple"
  $ stipple completion fish | source
  PS> stipple completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// registerValueCompletions completes the enumerated flag values of the
// stipple flag set.
func registerValueCompletions(cmd *cobra.Command) {
	fixed := func(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return values, cobra.ShellCompDirectiveNoFileComp
		}
	}
	_ = cmd.RegisterFlagCompletionFunc("polarity",
		fixed(density.DarkOnLight.String(), density.LightOnDark.String()))
	_ = cmd.RegisterFlagCompletionFunc("format", fixed(pipeline.FormatSVG, pipeline.FormatPNG, pipeline.FormatJSON, pipeline.FormatCSV))
}
