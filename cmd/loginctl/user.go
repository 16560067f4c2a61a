package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mkrupp/homecase-login/internal/domain"
	"github.com/mkrupp/homecase-login/internal/repo/user"
	"github.com/mkrupp/homecase-login/internal/svc/loginsvc"
)

var errMissingFlag = errors.New("missing flag")

func newUserCmd(cfg *Config) *cobra.Command {
	//nolint:exhaustruct
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage login accounts",
	}

	userCmd.AddCommand(newUserAddCmd(cfg))

	return userCmd
}

func newUserAddCmd(cfg *Config) *cobra.Command {
	var username, password, roleName string

	//nolint:exhaustruct
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a user with a bcrypt-hashed password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if username == "" || password == "" {
				return fmt.Errorf("%w: --username and --password are required", errMissingFlag)
			}

			role, err := domain.ParseRole(roleName)
			if err != nil {
				return err
			}

			repo, err := user.NewSQLiteUserRepository(cfg.User)
			if err != nil {
				return fmt.Errorf("open user repo: %w", err)
			}
			defer repo.Close()

			if err := loginsvc.RegisterUser(cmd.Context(), repo, username, password, role); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created user %q with role %s\n", username, role)

			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "login name")
	cmd.Flags().StringVar(&password, "password", "", "password, stored as a bcrypt hash")
	cmd.Flags().StringVar(&roleName, "role", domain.RoleUser.String(), "role: user or admin")

	return cmd
}
