package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mkrupp/homecase-login/internal/infra/config"
	"github.com/mkrupp/homecase-login/internal/infra/logging"
	"github.com/mkrupp/homecase-login/internal/repo/user"
	"github.com/mkrupp/homecase-login/internal/svc/loginsvc"
)

const (
	appName = "homecase"
	svcName = "loginsvc"
)

// Config is the subset of the service configuration the CLI needs. It reads the
// same variables as loginsvc so both agree on the database and key file.
type Config struct {
	config.EnvConfig

	Log  logging.LoggerConfig            `envPrefix:"LOG_"`
	Auth loginsvc.AuthConfig             `envPrefix:"AUTH_"`
	User user.SQLiteUserRepositoryConfig `envPrefix:"USER_"`
}

func newRootCmd() *cobra.Command {
	var (
		cfg     Config
		envFile string
	)

	//nolint:exhaustruct
	rootCmd := &cobra.Command{
		Use:   "loginctl",
		Short: "Administer the login service",
		Long: `loginctl manages the user store and signing key of loginsvc.

Example usage:
  loginctl user add --username admin --password s3cret --role admin
  loginctl key generate --file var/storage/loginsvc.key`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadDotenv(envFile); err != nil {
				return err
			}

			if err := config.Parse(cmd.Context(), &cfg, strings.ToUpper(appName+"_"+svcName)); err != nil {
				return fmt.Errorf("parse config: %w", err)
			}

			logging.Configure(cmd.Context(), cfg.Log, appName+".loginctl")

			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	rootCmd.AddCommand(newUserCmd(&cfg), newKeyCmd(&cfg))

	return rootCmd
}
