package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/redpush/cmd/redpush/cmd/archive"
	"github.com/agentstation/redpush/cmd/redpush/cmd/completion"
	"github.com/agentstation/redpush/cmd/redpush/cmd/dashboards"
	"github.com/agentstation/redpush/cmd/redpush/cmd/diff"
	"github.com/agentstation/redpush/cmd/redpush/cmd/dump"
	"github.com/agentstation/redpush/cmd/redpush/cmd/push"
	"github.com/agentstation/redpush/cmd/redpush/cmd/users"
	"github.com/agentstation/redpush/cmd/redpush/cmd/version"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Sync commands
	rootCmd.AddCommand(dump.NewCommand(a))
	rootCmd.AddCommand(diff.NewCommand(a))
	rootCmd.AddCommand(push.NewCommand(a))
	rootCmd.AddCommand(archive.NewCommand(a))
	rootCmd.AddCommand(dashboards.NewCommand(a))

	// Management commands
	rootCmd.AddCommand(users.NewCommand(a))
	rootCmd.AddCommand(version.NewCommand(a))

	completionCmd := completion.NewCommand()
	completionCmd.GroupID = "management"
	rootCmd.AddCommand(completionCmd)
}
