// Package cli holds the rejestrctl operator commands.
package cli

import (
	"errors"

	"github.com/pweat/rejestr-prac/internal/infra"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

// NewRootCommand builds the command tree. DATABASE_URL comes from the
// --database-url flag or the environment.
func NewRootCommand() *cobra.Command {
	v := viper.New()
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "rejestrctl",
		Short:         "Operator tools for the rejestr-prac backend",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().String("database-url", "", "PostgreSQL DSN (default $DATABASE_URL)")
	_ = v.BindPFlag("DATABASE_URL", root.PersistentFlags().Lookup("database-url"))

	open := func() (*gorm.DB, error) {
		dsn := v.GetString("DATABASE_URL")
		if dsn == "" {
			return nil, errors.New("DATABASE_URL is required")
		}
		return infra.Open(dsn)
	}

	root.AddCommand(
		newMigrateCommand(open),
		newSeedUserCommand(open),
		newHashPasswordCommand(),
	)
	return root
}

type dbOpener func() (*gorm.DB, error)
