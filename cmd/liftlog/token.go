// ABOUTME: CLI command for minting API tokens.
// ABOUTME: Signs a JWT for an owner with the configured secret.
package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/harperreed/liftlog/internal/identity"
)

var tokenTTL time.Duration

var tokenCmd = &cobra.Command{
	Use:         "token [owner]",
	Short:       "Mint a bearer token for the HTTP API",
	Long:        `Sign a JWT for owner (default: the configured owner) with jwt_secret.`,
	Args:        cobra.MaximumNArgs(1),
	Annotations: skipStore,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.JWTSecret == "" {
			return fmt.Errorf("jwt_secret is not set")
		}
		owner := cfg.GetOwner()
		if len(args) == 1 {
			owner = args[0]
		}

		guard, err := identity.NewJWTGuard(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience)
		if err != nil {
			return err
		}
		token, err := guard.Issue(owner, tokenTTL)
		if err != nil {
			return fmt.Errorf("failed to sign token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 30*24*time.Hour, "token lifetime")
	rootCmd.AddCommand(tokenCmd)
}
