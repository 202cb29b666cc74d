// Package archive provides the archive command.
package archive

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/redpush"
	"github.com/agentstation/redpush/internal/appcontext"
	"github.com/agentstation/redpush/internal/cmd/cmdutil"
	"github.com/agentstation/redpush/internal/cmd/output"
)

// NewCommand creates the archive command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var allowEmpty bool

	cmd := &cobra.Command{
		Use:     "archive",
		GroupID: "sync",
		Short:   "Archive remote queries missing from YAML",
		Long: `Archive lists every remote query, archived ones included, and archives
those whose redpush_id is not defined locally.

Remote queries without a redpush_id were never managed by redpush and are
skipped. Archived queries that are defined locally again are reported, push
restores them. An empty local file would archive everything, so it is
refused unless --allow-empty is given.`,
		Example: `  redpush archive -i queries.yaml --dry-run
  redpush archive -i queries.yaml`,
		Args: cobra.NoArgs,
	}

	inFile := cmdutil.AddInFileFlag(cmd, "YAML file or directory to read the queries from")
	dryRun := cmdutil.AddDryRunFlag(cmd)
	cmd.Flags().BoolVar(&allowEmpty, "allow-empty", false, "archive every remote query when the local file is empty")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		if err := cmdutil.RequirePath(cmd, "in-file", *inFile); err != nil {
			return err
		}
		s, err := app.Syncer()
		if err != nil {
			return err
		}
		p := cmdutil.Printer(cmd, app)

		res, err := s.Archive(cmd.Context(), redpush.ArchiveOptions{
			InFile:     *inFile,
			DryRun:     *dryRun,
			AllowEmpty: allowEmpty,
		})
		if res != nil && res.Plan != nil {
			if res.Plan.Destructive {
				p.Warning("The local file is empty: every remote query (%d) is an archive target", res.Plan.RemoteCount)
			}
			if ferr := output.FormatOperation(cmd.OutOrStdout(), app.OutputFormat(), res, false); ferr != nil && err == nil {
				err = ferr
			}
			if res.Result != nil {
				if res.Result.IsSuccess() {
					p.Success("%s", res.Result.String())
				} else {
					p.Warning("%s", res.Result.String())
				}
			}
		}
		return err
	}

	return cmd
}
