// Package dump provides the dump command.
package dump

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/redpush"
	"github.com/agentstation/redpush/internal/appcontext"
	"github.com/agentstation/redpush/internal/cmd/cmdutil"
	"github.com/agentstation/redpush/internal/cmd/output"
	"github.com/agentstation/redpush/pkg/errors"
)

// Flags holds the dump command flags.
type Flags struct {
	OutFile           *string
	OutPath           string
	Split             bool
	IncludeDashboards bool
}

// NewCommand creates the dump command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "dump",
		GroupID: "sync",
		Short:   "Write every remote query to YAML",
		Long: `Dump fetches every active query with its full definition and writes
it to YAML.

By default all queries go to one file (--out-file). With --split-file each
query is written to <out-path>/queries/{id}-{slug}.yaml, and
--include-dashboards adds <out-path>/dashboards/. Files of queries that were
renamed or removed are never deleted.`,
		Example: `  redpush dump -o queries.yaml
  redpush dump --split-file -p ./redash --include-dashboards`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := redpush.DumpOptions{
				OutFile:           *flags.OutFile,
				OutPath:           flags.OutPath,
				Split:             flags.Split,
				IncludeDashboards: flags.IncludeDashboards,
			}
			if opts.Split && opts.OutPath == "" {
				return errors.NewUsageError(cmd.Name(), "no out path provided (--out-path is required with --split-file)")
			}
			if !opts.Split {
				if err := cmdutil.RequirePath(cmd, "out-file", opts.OutFile); err != nil {
					return err
				}
			}

			s, err := app.Syncer()
			if err != nil {
				return err
			}
			p := cmdutil.Printer(cmd, app)
			p.Step("Fetching queries")

			res, err := s.Dump(cmd.Context(), opts)
			if err != nil {
				return err
			}

			if res.Dashboards > 0 {
				p.Success("Dumped %d queries and %d dashboards into %d files", res.Queries, res.Dashboards, len(res.Files))
			} else {
				p.Success("Dumped %d queries into %d file(s)", res.Queries, len(res.Files))
			}
			if f := app.OutputFormat(); output.Format(f).Structured() {
				return output.FormatDump(cmd.OutOrStdout(), f, res)
			}
			return nil
		},
	}

	flags.OutFile = cmdutil.AddOutFileFlag(cmd, "file to store the queries")
	cmd.Flags().BoolVar(&flags.Split, "split-file", false, "write one YAML file per query")
	cmd.Flags().StringVarP(&flags.OutPath, "out-path", "p", "", "folder to store the split YAML files")
	cmd.Flags().BoolVar(&flags.IncludeDashboards, "include-dashboards", false, "also dump dashboards (split mode only)")

	return cmd
}
