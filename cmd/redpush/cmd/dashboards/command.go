// Package dashboards provides the dashboards command.
package dashboards

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/redpush"
	"github.com/agentstation/redpush/internal/appcontext"
	"github.com/agentstation/redpush/internal/cmd/cmdutil"
	"github.com/agentstation/redpush/internal/cmd/output"
)

// NewCommand creates the dashboards command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dashboards",
		GroupID: "sync",
		Short:   "Write every dashboard to one YAML file",
		Example: `  redpush dashboards -o dashboards.yaml`,
		Args:    cobra.NoArgs,
	}

	outFile := cmdutil.AddOutFileFlag(cmd, "file to store the dashboards")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		if err := cmdutil.RequirePath(cmd, "out-file", *outFile); err != nil {
			return err
		}
		s, err := app.Syncer()
		if err != nil {
			return err
		}

		res, err := s.Dashboards(cmd.Context(), redpush.DashboardsOptions{OutFile: *outFile})
		if err != nil {
			return err
		}

		cmdutil.Printer(cmd, app).Success("Dumped %d dashboards into %s", res.Dashboards, *outFile)
		if f := app.OutputFormat(); output.Format(f).Structured() {
			return output.FormatDump(cmd.OutOrStdout(), f, res)
		}
		return nil
	}

	return cmd
}
