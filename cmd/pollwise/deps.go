// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pollwise Contributors

package main

import (
	"context"
	"net"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pollwise/pollwise/internal/config"
	"github.com/pollwise/pollwise/internal/observability"
	"github.com/pollwise/pollwise/internal/store"
)

// Pool is the part of *pgxpool.Pool the commands use.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// ObservabilityServer wraps the methods used from observability.Server.
type ObservabilityServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
}

// Migrator wraps the methods used from store.Migrator.
type Migrator interface {
	Up() error
	Down() error
	Version() (version uint, dirty bool, err error)
	Force(version int) error
	PendingMigrations() ([]uint, error)
	Close() error
}

// ServeDeps contains injectable dependencies for the serve command.
// Nil fields use their default implementations.
type ServeDeps struct {
	// ConfigLoader loads and validates configuration.
	// Default: config.Load from --config and flags, then Validate.
	ConfigLoader func() (*config.Config, error)

	// PoolFactory connects to the database.
	// Default: store.NewPool with store.DefaultRetryPolicy
	PoolFactory func(ctx context.Context, url string) (Pool, error)

	// ObservabilityServerFactory creates the metrics/health server.
	// Default: observability.NewServer with auth and httpapi metrics
	ObservabilityServerFactory func(addr string, readiness observability.ReadinessChecker) ObservabilityServer

	// Listen opens the API listener.
	// Default: net.Listen
	Listen func(network, address string) (net.Listener, error)
}

func defaultPoolFactory(ctx context.Context, url string) (Pool, error) {
	pool, err := store.NewPool(ctx, url, store.DefaultRetryPolicy)
	if err != nil {
		return nil, err //nolint:wrapcheck // already coded by store
	}
	return pool, nil
}

func defaultMigratorFactory(url string) (Migrator, error) {
	m, err := store.NewMigrator(url)
	if err != nil {
		return nil, err //nolint:wrapcheck // already coded by store
	}
	return m, nil
}
