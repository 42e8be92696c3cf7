package cli

import (
	"fmt"

	"github.com/pweat/rejestr-prac/internal/infra"

	"github.com/spf13/cobra"
)

func newMigrateCommand(open dbOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Long: `Creates missing tables, columns and indexes. Every statement is
idempotent, so running it against an up-to-date database changes nothing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := open()
			if err != nil {
				return err
			}
			if err := infra.ApplySchema(db.WithContext(cmd.Context())); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	}
}
