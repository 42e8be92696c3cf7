package cli

import (
	"fmt"

	"github.com/pweat/rejestr-prac/internal/model"
	"github.com/pweat/rejestr-prac/internal/repository"
	"github.com/pweat/rejestr-prac/internal/service"

	"github.com/spf13/cobra"
)

func newSeedUserCommand(open dbOpener) *cobra.Command {
	var username, password, role string

	cmd := &cobra.Command{
		Use:   "seed-user",
		Short: "Create a user or reset its password and role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !model.ValidRole(role) {
				return fmt.Errorf("unknown role %q (viewer, editor, admin)", role)
			}
			if len(username) < 3 || len(password) < 6 {
				return fmt.Errorf("username needs at least 3 characters and password at least 6")
			}
			hash, err := service.HashPassword(password)
			if err != nil {
				return err
			}

			db, err := open()
			if err != nil {
				return err
			}
			repo := repository.NewUserRepository(db)
			u := &model.User{Username: username, PasswordHash: hash, Role: role}
			if err := repo.Upsert(cmd.Context(), u); err != nil {
				return fmt.Errorf("seed user: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "user %q saved with role %s\n", username, role)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "login name")
	cmd.Flags().StringVar(&password, "password", "", "plain-text password")
	cmd.Flags().StringVar(&role, "role", model.RoleAdmin, "viewer, editor or admin")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newHashPasswordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <plain>",
		Short: "Print the bcrypt hash of a password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := service.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
