// Package users provides the users command.
package users

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/redpush"
	"github.com/agentstation/redpush/internal/appcontext"
	"github.com/agentstation/redpush/internal/cmd/cmdutil"
	"github.com/agentstation/redpush/internal/cmd/output"
)

// NewCommand creates the users command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		GroupID: "management",
		Short:   "Create users from a CSV file",
		Long: `Users reads a CSV file without header, one "firstname,lastname,email" row
per user, and creates each user on the server. Every row is validated before
the first user is created. Creation stops at the first failure.`,
		Example: `  redpush users -i users.csv`,
		Args:    cobra.NoArgs,
	}

	inFile := cmdutil.AddInFileFlag(cmd, "CSV file to read the users from (firstname,lastname,email)")
	dryRun := cmdutil.AddDryRunFlag(cmd)

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		if err := cmdutil.RequirePath(cmd, "in-file", *inFile); err != nil {
			return err
		}
		s, err := app.Syncer()
		if err != nil {
			return err
		}
		p := cmdutil.Printer(cmd, app)

		res, err := s.Users(cmd.Context(), redpush.UsersOptions{InFile: *inFile, DryRun: *dryRun})
		if res != nil && len(res.Created) > 0 {
			if ferr := output.FormatUsers(cmd.OutOrStdout(), app.OutputFormat(), res.Created); ferr != nil && err == nil {
				err = ferr
			}
		}
		if err != nil {
			if res != nil && res.Failed != nil {
				p.Warning("Created %d users before %s failed", len(res.Created), res.Failed.Name())
			}
			return err
		}
		if res.DryRun {
			p.Success("Would create %d users", len(res.Created))
		} else {
			p.Success("Created %d users", len(res.Created))
		}
		return nil
	}

	return cmd
}
