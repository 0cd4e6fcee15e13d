package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"medsched/config"
	"medsched/pkg/auth"
)

// tokenCmd signs a token with the configured key, for local development against a
// server that would otherwise only accept tokens from the auth service.
func tokenCmd() *cobra.Command {
	var (
		userID      int64
		role        string
		physicianID int64
		locationIDs []int64
		ttl         time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a development access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}
			if cfg.IsProduction() {
				return errors.New("refusing to issue tokens in production")
			}

			claims := auth.Claims{UserID: userID, Role: auth.Role(role), LocationIDs: locationIDs}
			if !claims.Role.IsValid() {
				return fmt.Errorf("unknown role %q", role)
			}
			if physicianID > 0 {
				claims.PhysicianID = &physicianID
			}

			tokens, err := auth.NewTokenManager(cfg.JWT.SigningKey, cfg.JWT.Issuer)
			if err != nil {
				return err
			}

			token, err := tokens.NewToken(claims, ttl)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 1, "User ID")
	cmd.Flags().StringVar(&role, "role", string(auth.RoleAdmin), "admin, staff, physician or patient")
	cmd.Flags().Int64Var(&physicianID, "physician", 0, "Physician ID for physician tokens")
	cmd.Flags().Int64SliceVar(&locationIDs, "locations", nil, "Location scope for staff tokens")
	cmd.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "Token lifetime")

	return cmd
}
