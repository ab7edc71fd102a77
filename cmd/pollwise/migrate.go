// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pollwise Contributors

package main

import (
	"fmt"
	"log/slog"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/pollwise/pollwise/internal/config"
)

// migratorFactory opens a Migrator. Tests replace it.
var migratorFactory = defaultMigratorFactory

// NewMigrateCmd creates the migrate command and its subcommands.
// Running migrate with no subcommand applies every pending migration.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
		Long:  `Apply, roll back or inspect the embedded PostgreSQL schema migrations.`,
		RunE:  withMigrator(migrateUp),
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE:  withMigrator(migrateUp),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back every migration (drops all tables)",
		RunE:  withMigrator(migrateDown),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show the applied migration version",
		RunE:  withMigrator(migrateVersion),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "pending",
		Short: "List migrations that up would apply",
		RunE:  withMigrator(migratePending),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "force VERSION",
		Short: "Mark VERSION as applied without running it",
		Long: `Force records VERSION as the applied migration and clears the dirty
flag. Use it only to recover from a migration that failed halfway.`,
		Args: cobra.ExactArgs(1),
		RunE: withMigrator(migrateForce),
	})

	return cmd
}

type migrateAction func(cmd *cobra.Command, args []string, m Migrator) error

// withMigrator opens a Migrator for the configured database around action.
func withMigrator(action migrateAction) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, (*config.Config).ValidateDatabase)
		if err != nil {
			return oops.Code("CONFIG_INVALID").Wrap(err)
		}

		m, err := migratorFactory(cfg.Database.URL)
		if err != nil {
			return oops.Code("MIGRATION_INIT_FAILED").With("operation", "open migrator").Wrap(err)
		}
		defer func() {
			if closeErr := m.Close(); closeErr != nil {
				slog.Warn("failed to close migrator", "error", closeErr)
			}
		}()

		return action(cmd, args, m)
	}
}

func migrateUp(cmd *cobra.Command, _ []string, m Migrator) error {
	cmd.Println("Running migrations...")
	if err := m.Up(); err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "up").Wrap(err)
	}
	return printVersion(cmd, m, "Migrations completed successfully")
}

func migrateDown(cmd *cobra.Command, _ []string, m Migrator) error {
	cmd.Println("Rolling back migrations...")
	if err := m.Down(); err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "down").Wrap(err)
	}
	cmd.Println("All migrations rolled back")
	return nil
}

func migrateVersion(cmd *cobra.Command, _ []string, m Migrator) error {
	return printVersion(cmd, m, "")
}

func migratePending(cmd *cobra.Command, _ []string, m Migrator) error {
	pending, err := m.PendingMigrations()
	if err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "pending").Wrap(err)
	}
	if len(pending) == 0 {
		cmd.Println("No pending migrations")
		return nil
	}
	for _, v := range pending {
		cmd.Printf("%06d\n", v)
	}
	return nil
}

func migrateForce(cmd *cobra.Command, args []string, m Migrator) error {
	version, err := parseForceVersion(args[0])
	if err != nil {
		return err
	}
	if err := m.Force(version); err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "force").Wrap(err)
	}
	cmd.Printf("Forced version %d\n", version)
	return nil
}

func printVersion(cmd *cobra.Command, m Migrator, prefix string) error {
	version, dirty, err := m.Version()
	if err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "version").Wrap(err)
	}
	if prefix != "" {
		cmd.Println(prefix)
	}
	status := "clean"
	if dirty {
		status = "dirty"
	}
	cmd.Printf("Schema version: %d (%s)\n", version, status)
	return nil
}

// parseForceVersion parses the leading integer of s.
func parseForceVersion(s string) (int, error) {
	var version int
	if _, err := fmt.Sscanf(s, "%d", &version); err != nil {
		return 0, oops.Code("INVALID_VERSION").With("input", s).Wrapf(err, "invalid version %q", s)
	}
	return version, nil
}
