package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/familysafe/internal/auth"
	"github.com/mmynk/familysafe/internal/config"
	"github.com/mmynk/familysafe/internal/models"
)

func newTokenCmd() *cobra.Command {
	var address string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for an address",
		Long: `Signs a token with FAMILYSAFE_JWT_SECRET that lets the holder act as
the given address. Hand it to the owner of the address so they can register
a password login. The token does not grant membership.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if address == "" {
				return errors.New("--address is required")
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			token, err := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL).Generate(models.Address(address))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&address, "address", "", "address the token acts as")
	return cmd
}
