// Package cmdutil provides shared flags and helpers for redpush commands.
package cmdutil

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/redpush/internal/appcontext"
	"github.com/agentstation/redpush/internal/cmd/printer"
	"github.com/agentstation/redpush/pkg/errors"
)

// AddInFileFlag adds -i/--in-file to a command.
func AddInFileFlag(cmd *cobra.Command, usage string) *string {
	var path string
	cmd.Flags().StringVarP(&path, "in-file", "i", "", usage)
	return &path
}

// AddOutFileFlag adds -o/--out-file to a command.
func AddOutFileFlag(cmd *cobra.Command, usage string) *string {
	var path string
	cmd.Flags().StringVarP(&path, "out-file", "o", "", usage)
	return &path
}

// AddDryRunFlag adds --dry-run to a command.
func AddDryRunFlag(cmd *cobra.Command) *bool {
	var dryRun bool
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would change without calling Redash")
	return &dryRun
}

// RequirePath returns a UsageError when a required path flag is empty.
// It runs before any connection setup so a missing flag exits with the
// usage status even when no server is configured.
func RequirePath(cmd *cobra.Command, flag, value string) error {
	if value == "" {
		return errors.NewUsageError(cmd.Name(), "no file provided (--"+flag+" is required)")
	}
	return nil
}

// Printer returns a status printer on the command's stderr.
func Printer(cmd *cobra.Command, app appcontext.Interface) *printer.Printer {
	return printer.New(cmd.ErrOrStderr(), app.Quiet(), app.NoColor())
}
