// Package push provides the push command.
package push

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/redpush"
	"github.com/agentstation/redpush/internal/appcontext"
	"github.com/agentstation/redpush/internal/cmd/cmdutil"
	"github.com/agentstation/redpush/internal/cmd/output"
)

// NewCommand creates the push command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var showUnchanged bool

	cmd := &cobra.Command{
		Use:     "push",
		GroupID: "sync",
		Short:   "Create and update remote queries from YAML",
		Long: `Push matches every local query against the server by redpush_id.

Queries without a match (or without a redpush_id) are created. Matches are
updated in place, keeping their remote id; only the fields present locally
are sent, so server-managed fields are left alone. Queries whose fields
already match are skipped. Remote queries missing locally are not touched,
use archive for that.

Writes run one at a time and stop at the first failure.`,
		Example: `  redpush push -i queries.yaml --dry-run
  redpush push -i ./redash/queries`,
		Args: cobra.NoArgs,
	}

	inFile := cmdutil.AddInFileFlag(cmd, "YAML file or directory to read the queries from")
	dryRun := cmdutil.AddDryRunFlag(cmd)
	cmd.Flags().BoolVar(&showUnchanged, "show-unchanged", false, "list unchanged queries in the plan table")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		if err := cmdutil.RequirePath(cmd, "in-file", *inFile); err != nil {
			return err
		}
		s, err := app.Syncer()
		if err != nil {
			return err
		}
		p := cmdutil.Printer(cmd, app)

		res, err := s.Push(cmd.Context(), redpush.PushOptions{InFile: *inFile, DryRun: *dryRun})
		if res != nil && res.Plan != nil {
			if ferr := output.FormatOperation(cmd.OutOrStdout(), app.OutputFormat(), res, showUnchanged); ferr != nil && err == nil {
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
