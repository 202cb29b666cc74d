// Package completion provides the shell completion command.
package completion

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"
)

// shell describes how to generate and load completions for one shell.
type shell struct {
	generate func(root *cobra.Command, w io.Writer) error
	load     string
}

var shells = map[string]shell{
	"bash": {
		generate: func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
		load:     "source <(redpush completion bash)",
	},
	"zsh": {
		generate: func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
		load:     `redpush completion zsh > "${fpath[1]}/_redpush"`,
	},
	"fish": {
		generate: func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
		load:     "redpush completion fish | source",
	},
	"powershell": {
		generate: func(root *cobra.Command, w io.Writer) error { return root.GenPowerShellCompletionWithDesc(w) },
		load:     "redpush completion powershell | Out-String | Invoke-Expression",
	},
}

// Shells returns the supported shell names in order.
func Shells() []string {
	names := make([]string, 0, len(shells))
	for name := range shells {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewCommand creates the completion command with one subcommand per shell.
// It replaces the completion command cobra would add on its own.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generate shell completion scripts",
		Long: `Generate the autocompletion script for redpush.

The script is written to stdout. Source it in the current session or save it
where your shell loads completions from.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	for _, name := range Shells() {
		cmd.AddCommand(newShellCommand(name, shells[name]))
	}
	return cmd
}

func newShellCommand(name string, sh shell) *cobra.Command {
	return &cobra.Command{
		Use:                   name,
		Short:                 fmt.Sprintf("Generate %s completion script", name),
		Long:                  fmt.Sprintf("Generate the autocompletion script for %s.\n\nTo load completions in your current shell session:\n\n  %s\n", name, sh.load),
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return sh.generate(cmd.Root(), cmd.OutOrStdout())
		},
	}
}
