package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/waterfall/pkg/pipeline"
	"github.com/matzehuels/waterfall/pkg/waterfall"
)

// dataFileExts are the input extensions offered when completing a data file.
var dataFileExts = []string{"json", "toml", "csv", "xlsx"}

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for waterfall.

Completions cover subcommands, data files (.json, .toml, .csv, .xlsx) for
render, adapt, preview and convert, and the values of --format, --type,
--cache-backend and --session-backend.

Bash:
  $ source <(waterfall completion bash)

Zsh:
  $ waterfall completion zsh > "${fpath[1]}/_waterfall"

Fish:
  $ waterfall completion fish > ~/.config/fish/completions/waterfall.fish

PowerShell:
  PS> waterfall completion powershell | Out-String | Invoke-Expression
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
			return nil
		},
	}

	return cmd
}

// completeDataFiles completes the first n positional args as data files.
func completeDataFiles(n int) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) >= n {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return dataFileExts, cobra.ShellCompDirectiveFilterFileExt
	}
}

// formatCompletions lists the render formats. Completion after a comma
// keeps the already typed prefix so "svg,p" completes to "svg,png".
func formatCompletions(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix := ""
	if i := strings.LastIndexByte(toComplete, ','); i >= 0 {
		prefix = toComplete[:i+1]
	}
	out := make([]string, 0, len(pipeline.ValidFormats))
	for _, f := range []string{pipeline.FormatSVG, pipeline.FormatPNG, pipeline.FormatJSON, pipeline.FormatText} {
		out = append(out, prefix+f)
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

// registerFlagCompletions attaches value completions to the flags of cmd
// that are present on it.
func registerFlagCompletions(cmd *cobra.Command) {
	fixed := map[string][]string{
		"type":            {string(waterfall.ModeCumulative), string(waterfall.ModeCustom)},
		"cache-backend":   {backendFile, backendRedis, backendNone},
		"session-backend": {backendMemory, backendFile, backendRedis},
	}
	for name, values := range fixed {
		if cmd.Flags().Lookup(name) == nil && cmd.PersistentFlags().Lookup(name) == nil {
			continue
		}
		_ = cmd.RegisterFlagCompletionFunc(name, cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
	}
	if cmd.Flags().Lookup("format") != nil {
		_ = cmd.RegisterFlagCompletionFunc("format", formatCompletions)
	}
	for _, name := range []string{"options", "config"} {
		if cmd.Flags().Lookup(name) != nil || cmd.PersistentFlags().Lookup(name) != nil {
			_ = cmd.RegisterFlagCompletionFunc(name, func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
				return []string{"json", "toml"}, cobra.ShellCompDirectiveFilterFileExt
			})
		}
	}
}
