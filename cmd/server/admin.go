package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sipe/inventory-api/internal/core/service"
	"github.com/sipe/inventory-api/internal/infrastructure/db/mongo"
	"github.com/sipe/inventory-api/pkg/logger"
)

func seedAdminCmd() *cobra.Command {
	var username, email, password string

	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create the first admin account if it does not exist",
		Long: `Create an admin account from flags or from ADMIN_USERNAME, ADMIN_EMAIL
and ADMIN_PASSWORD. Nothing changes when the email is already registered.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			username = valueOr(username, a.cfg.Admin.Username)
			email = valueOr(email, a.cfg.Admin.Email)
			password = valueOr(password, a.cfg.Admin.Password)
			if email == "" || password == "" {
				return errors.New("seed-admin: an email and a password are required")
			}

			users := service.NewUserService(mongo.NewUserRepository(a.db), logger.Component("users"))
			created, err := users.EnsureAdmin(ctx, username, email, password)
			if err != nil {
				return fmt.Errorf("seed-admin: %w", err)
			}
			if created {
				a.log.Info().Str("email", email).Msg("admin account created")
			} else {
				a.log.Info().Str("email", email).Msg("admin account already exists")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Admin username (default ADMIN_USERNAME)")
	cmd.Flags().StringVarP(&email, "email", "e", "", "Admin email (default ADMIN_EMAIL)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Admin password (default ADMIN_PASSWORD)")

	return cmd
}

func resetPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-password [email] [new-password]",
		Short: "Set a new password for an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			users := service.NewUserService(mongo.NewUserRepository(a.db), logger.Component("users"))
			if err := users.ResetPassword(ctx, args[0], args[1]); err != nil {
				return fmt.Errorf("reset-password: %w", err)
			}
			a.log.Info().Str("email", args[0]).Msg("password updated")
			return nil
		},
	}
}

func valueOr(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
