package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/NexusNoir555/KiloCode-Zed-extension/internal/config"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for kilocode.

Bash:
  $ source <(kilocode completion bash)

Zsh:
  $ kilocode completion zsh > "${fpath[1]}/_kilocode"

Fish:
  $ kilocode completion fish > ~/.config/fish/completions/kilocode.fish

PowerShell:
  PS> kilocode completion powershell | Out-String | Invoke-Expression
`,
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
		case "powershell":
			return cmd.Root().GenPowerShellCompletionWithDesc(out)
		}
		return fmt.Errorf("unsupported shell %q", args[0])
	},
}

var docsStyles = []string{"godoc", "rustdoc", "jsdoc", "tsdoc", "javadoc", "docstring", "doxygen"}

// registerRootCompletions must run after the persistent flags are defined.
func registerRootCompletions() {
	_ = rootCmd.RegisterFlagCompletionFunc("provider", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return config.ProviderNames(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("backend", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{config.BackendHTTP, config.BackendLangChain}, cobra.ShellCompDirectiveNoFileComp
	})
}

// registerTaskCompletions adds value completion to the task command flags.
func registerTaskCompletions(cmd *cobra.Command) {
	if cmd.Flags().Lookup("style") != nil {
		_ = cmd.RegisterFlagCompletionFunc("style", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return docsStyles, cobra.ShellCompDirectiveNoFileComp
		})
	}
}
