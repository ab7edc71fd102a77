// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pollwise Contributors

package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/pollwise/pollwise/internal/config"
	"github.com/pollwise/pollwise/internal/xdg"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the Pollwise CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pollwise",
		Short: "Pollwise - survey API",
		Long: `Pollwise serves the sign-up, login and survey API backed by
PostgreSQL, and provides the tooling to migrate and seed its database.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSeedCmd())
	cmd.AddCommand(NewErrorsCmd())

	return cmd
}

// loadConfig loads the configuration for cmd and checks it with validate.
// Without --config, $XDG_CONFIG_HOME/pollwise/config.yaml is used if present.
func loadConfig(cmd *cobra.Command, validate func(*config.Config) error) (*config.Config, error) {
	path := configFile
	if path == "" {
		found, err := xdg.FindConfigFile()
		if err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").Wrap(err)
		}
		path = found
	}

	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return nil, oops.With("config_file", path).Wrap(err)
	}
	if err := validate(cfg); err != nil {
		return nil, oops.With("config_file", path).Wrap(err)
	}
	return cfg, nil
}
