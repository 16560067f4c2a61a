package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mkrupp/homecase-login/internal/svc/loginsvc"
)

func newKeyCmd(cfg *Config) *cobra.Command {
	//nolint:exhaustruct
	keyCmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the token signing key",
	}

	keyCmd.AddCommand(newKeyGenerateCmd(cfg))

	return keyCmd
}

func newKeyGenerateCmd(cfg *Config) *cobra.Command {
	var file string

	//nolint:exhaustruct
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a new random signing key file; existing files are never replaced",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if file == "" {
				file = cfg.Auth.SigningKeyFile
			}

			key, err := loginsvc.GenerateSigningKey(loginsvc.DefaultKeySize)
			if err != nil {
				return err
			}

			if err := loginsvc.WriteSigningKeyFile(file, key); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d byte signing key to %s\n", len(key), file)

			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "key file path (default: AUTH_SIGNING_KEY_FILE)")

	return cmd
}
