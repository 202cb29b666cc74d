package app

import (
	"context"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/agentstation/redpush/internal/cmd/output"
	"github.com/agentstation/redpush/pkg/constants"
	"github.com/agentstation/redpush/pkg/errors"
	"github.com/agentstation/redpush/pkg/logging"
)

// Exit codes
const (
	ExitError      = 1
	ExitUsage      = 2
	ExitConnection = 3 // Redash could not be reached
	ExitRemote     = 4 // Redash answered with an error status
	ExitData       = 5 // local files are malformed or break redpush_id rules
)

// Execute runs the redpush CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "redpush",
		Short:   "Redash queries and dashboards as code",
		Version: a.version,
		Long: `redpush keeps Redash queries, dashboards and users in YAML files.

Queries are matched by redpush_id, a stable identifier you assign in YAML,
never by the id Redash generates. Dump pulls the server state, diff shows
what would change, push creates and updates, and archive removes remote
queries that are no longer defined locally.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "sync",
		Title: "Sync Commands:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands:",
	})

	// Values are copied into the config by setupCommand, only when set.
	c := a.config
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default is $HOME/.redpush.yaml)")
	flags.String("redash-url", c.RedashURL, "Redash base URL (env "+constants.EnvRedashURL+")")
	flags.String("api-key", "", "Redash user API key (env "+constants.EnvRedashKey+")")
	flags.BoolP("verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	flags.BoolP("quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	flags.String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")
	flags.Bool("no-color", false, "disable colored output")
	flags.String("format", "table", "output format: table, json, yaml")
	flags.Int("concurrency", c.Concurrency, "parallel requests when fetching full definitions")
	flags.Duration("timeout", c.Timeout, "timeout of a single HTTP request")

	rootCmd.SetVersionTemplate("redpush {{.Version}}\n")
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errors.NewUsageError(cmd.Name(), err.Error())
	})

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs. It reloads an explicit
// --config file, re-applies the flags the user set, rebuilds the logger and
// tags the context with a run id.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	if f := cmd.Flags().Lookup("config"); f != nil && f.Changed {
		config, err := LoadConfig(f.Value.String())
		if err != nil {
			return err
		}
		a.config = config
	}
	a.config.UpdateFromFlags(cmd.Flags())

	if _, err := output.ParseFormat(a.config.Format); err != nil {
		return errors.NewUsageError(cmd.Name(), err.Error())
	}

	logger := NewLogger(a.config)
	logging.SetDefault(logger)
	a.logger = &logger

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithLogger(ctx, a.logger)
	ctx = logging.WithRunID(ctx, uuid.NewString())
	a.logger = logging.FromContext(ctx)
	cmd.SetContext(ctx)

	return nil
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.IsUsage(err):
		return ExitUsage
	case errors.IsConnection(err):
		return ExitConnection
	case errors.IsRemote(err):
		return ExitRemote
	case errors.IsParse(err), errors.IsIntegrity(err):
		return ExitData
	default:
		return ExitError
	}
}

// ExitOnError prints an error and exits with the mapped status.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(ExitCode(err))
	}
}
