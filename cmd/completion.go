package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var completionShells = []string{"bash", "zsh", "fish", "powershell"}

var outputFormats = []string{"json"}

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for couponctl.

Bash:
  $ source <(couponctl completion bash)

Zsh:
  $ couponctl completion zsh > "${fpath[1]}/_couponctl"

Fish:
  $ couponctl completion fish > ~/.config/fish/completions/couponctl.fish

PowerShell:
  PS> couponctl completion powershell | Out-String | Invoke-Expression

Completion covers commands, flags and the values of --output.
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             completionShells,
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		noDesc, _ := cmd.Flags().GetBool("no-descriptions")
		return writeCompletion(cmd.Root(), cmd.OutOrStdout(), args[0], !noDesc)
	},
}

func init() {
	completionCmd.Flags().Bool("no-descriptions", false, "Leave completion descriptions out")
	rootCmd.AddCommand(completionCmd)
}

func writeCompletion(root *cobra.Command, w io.Writer, shell string, desc bool) error {
	switch shell {
	case "bash":
		return root.GenBashCompletionV2(w, desc)
	case "zsh":
		if desc {
			return root.GenZshCompletion(w)
		}
		return root.GenZshCompletionNoDesc(w)
	case "fish":
		return root.GenFishCompletion(w, desc)
	case "powershell":
		if desc {
			return root.GenPowerShellCompletionWithDesc(w)
		}
		return root.GenPowerShellCompletion(w)
	}
	return fmt.Errorf("unsupported shell %q", shell)
}

// completeOutput offers the --output formats matching the typed prefix.
func completeOutput(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return lo.Filter(outputFormats, func(f string, _ int) bool {
		return strings.HasPrefix(f, toComplete)
	}), cobra.ShellCompDirectiveNoFileComp
}
