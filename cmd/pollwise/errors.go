// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pollwise Contributors

package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/pollwise/pollwise/internal/config"
	"github.com/pollwise/pollwise/internal/store"
)

const defaultErrorsLimit = 20

// errorsConfig holds configuration for the errors command.
type errorsConfig struct {
	limit   int
	full    bool
	timeout time.Duration
}

// recentErrorLogs is the read side of store.ErrorLogRepository.
type recentErrorLogs interface {
	Recent(ctx context.Context, limit int) ([]store.ErrorLogEntry, error)
}

// NewErrorsCmd creates the errors subcommand.
func NewErrorsCmd() *cobra.Command {
	cfg := &errorsConfig{}

	cmd := &cobra.Command{
		Use:   "errors",
		Short: "List recently recorded server faults",
		Long: `Prints the newest entries of the error_logs table, where the API
records the stack trace of every 500 response.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runErrors(cmd, cfg)
		},
	}

	cmd.Flags().IntVar(&cfg.limit, "limit", defaultErrorsLimit, "maximum number of entries to show")
	cmd.Flags().BoolVar(&cfg.full, "full", false, "print the complete stack trace of each entry")
	cmd.Flags().DurationVar(&cfg.timeout, "timeout", 10*time.Second, "timeout for database operations")

	return cmd
}

func runErrors(cmd *cobra.Command, errCfg *errorsConfig) error {
	cfg, err := loadConfig(cmd, (*config.Config).ValidateDatabase)
	if err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), errCfg.timeout)
	defer cancel()

	pool, err := defaultPoolFactory(ctx, cfg.Database.URL)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}
	defer pool.Close()

	return listErrorLogs(ctx, cmd.OutOrStdout(), store.NewErrorLogRepository(pool), errCfg)
}

func listErrorLogs(ctx context.Context, w io.Writer, logs recentErrorLogs, cfg *errorsConfig) error {
	entries, err := logs.Recent(ctx, cfg.limit)
	if err != nil {
		return oops.Code("ERROR_LOG_LIST_FAILED").With("limit", cfg.limit).Wrap(err)
	}
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No server faults recorded")
		return err //nolint:wrapcheck // terminal write
	}

	for _, e := range entries {
		stack := e.Stack
		if !cfg.full {
			stack, _, _ = strings.Cut(stack, "\n")
		}
		if _, err := fmt.Fprintf(w, "%s  %s  %s\n", e.CreatedAt.UTC().Format(time.RFC3339), e.ID, stack); err != nil {
			return err //nolint:wrapcheck // terminal write
		}
	}
	return nil
}
