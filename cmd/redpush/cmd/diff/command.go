// Package diff provides the diff command.
package diff

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/redpush"
	"github.com/agentstation/redpush/internal/appcontext"
	"github.com/agentstation/redpush/internal/cmd/cmdutil"
	"github.com/agentstation/redpush/pkg/errors"
)

// NewCommand creates the diff command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var (
		style       string
		contextSize int
	)

	cmd := &cobra.Command{
		Use:     "diff",
		GroupID: "sync",
		Short:   "Compare remote queries with YAML",
		Long: `Diff sorts both the remote queries and the local YAML by redpush_id,
orders every field alphabetically and compares the two YAML texts line by
line. Nothing is changed on either side.

The default style is an HTML page with a side-by-side table, suitable for
redirecting to a file. --style unified prints a unified diff instead.
Remote queries without a redpush_id are left out.`,
		Example: `  redpush diff -i queries.yaml > diff.html
  redpush diff -i queries.yaml --style unified --context 5`,
		Args: cobra.NoArgs,
	}

	inFile := cmdutil.AddInFileFlag(cmd, "YAML file or directory to compare against")
	cmd.Flags().StringVar(&style, "style", redpush.StyleHTML, "output style: html or unified")
	cmd.Flags().IntVar(&contextSize, "context", 0, "context lines around changes (0 for the style default)")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		if err := cmdutil.RequirePath(cmd, "in-file", *inFile); err != nil {
			return err
		}
		if style != redpush.StyleHTML && style != redpush.StyleUnified {
			return errors.NewUsageError(cmd.Name(), "unknown --style "+style+" (html or unified)")
		}
		if contextSize < 0 {
			return errors.NewUsageError(cmd.Name(), "--context must not be negative")
		}
		s, err := app.Syncer()
		if err != nil {
			return err
		}

		res, err := s.Diff(cmd.Context(), redpush.DiffOptions{
			InFile:  *inFile,
			Style:   style,
			Context: contextSize,
		}, cmd.OutOrStdout())
		if err != nil {
			return err
		}

		p := cmdutil.Printer(cmd, app)
		if res.Excluded > 0 {
			p.Warning("%d remote queries have no redpush_id and were left out", res.Excluded)
		}
		if res.Stat.HasChanges() {
			p.Info("%d remote / %d local queries: %s", res.Remote, res.Local, res.Stat)
		} else {
			p.Success("No differences (%d queries)", res.Local)
		}
		return nil
	}

	return cmd
}
