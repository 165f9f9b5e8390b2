// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/gatehouse/gatehouse/internal/auth"
	authpg "github.com/gatehouse/gatehouse/internal/auth/postgres"
	"github.com/gatehouse/gatehouse/internal/config"
	"github.com/gatehouse/gatehouse/internal/store"
)

// Default timeout for seed command.
const defaultSeedTimeout = 30 * time.Second

// seedConfig holds configuration for the seed command.
type seedConfig struct {
	name     string
	email    string
	password string
	timeout  time.Duration
}

// NewSeedCmd creates the seed subcommand.
func NewSeedCmd() *cobra.Command {
	cfg := &seedConfig{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the initial admin account",
		Long: `Creates an admin account so the admin page is reachable on a fresh
database. Runs pending migrations first. This command is idempotent - it
will not create a duplicate if an account with the email already exists.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, args, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.name, "name", "Admin", "display name for the admin account")
	cmd.Flags().StringVar(&cfg.email, "email", "", "email for the admin account (required)")
	cmd.Flags().StringVar(&cfg.password, "password", "", "password for the admin account (required)")
	cmd.Flags().DurationVar(&cfg.timeout, "timeout", defaultSeedTimeout, "timeout for database operations (e.g., 30s, 1m)")

	return cmd
}

func runSeed(cmd *cobra.Command, _ []string, seedCfg *seedConfig) error {
	in, err := auth.SignupInput{
		Name:     seedCfg.name,
		Email:    seedCfg.email,
		Password: seedCfg.password,
	}.Validate()
	if err != nil {
		return err
	}

	appCfg, err := config.Load(resolveConfigFile(), nil)
	if err != nil {
		return err
	}
	if appCfg.Database.URL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database URL is required (set DATABASE_URL or database.url)")
	}

	// Add timeout to prevent indefinite hangs
	// Use cmd.Context() to respect SIGINT/SIGTERM signals
	ctx, cancel := context.WithTimeout(cmd.Context(), seedCfg.timeout)
	defer cancel()

	cmd.Println("Running migrations...")
	migrator, err := store.NewMigrator(appCfg.Database.URL)
	if err != nil {
		return err
	}
	if err := migrator.Up(); err != nil {
		_ = migrator.Close() //nolint:errcheck // migration error takes precedence
		return err
	}
	if err := migrator.Close(); err != nil {
		return err
	}

	cmd.Println("Connecting to database...")
	pool, err := store.Connect(ctx, appCfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	hash, err := auth.NewBcryptHasher(appCfg.Password.Cost).Hash(in.Password)
	if err != nil {
		return err
	}
	admin, err := auth.NewUser(in.Name, in.Email, hash)
	if err != nil {
		return err
	}
	admin.Role = auth.RoleAdmin

	users := authpg.NewUserRepository(pool)
	if err := users.Create(ctx, admin); err != nil {
		if errors.Is(err, auth.ErrDuplicateEmail) {
			cmd.Println("Account already exists, skipping seed")
			slog.Info("admin account already seeded", "email", auth.NormalizeEmail(in.Email))
			return nil
		}
		return oops.Code("SEED_FAILED").With("operation", "create admin account").Wrap(err)
	}

	cmd.Printf("Created admin account: %s\n", in.Email)
	slog.Info("created admin account", "id", admin.ID.String(), "email", auth.NormalizeEmail(in.Email))
	return nil
}
