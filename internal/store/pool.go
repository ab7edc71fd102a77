// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pollwise Contributors

// Package store provides the PostgreSQL schema, connection pool, and the
// error log sink.
package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// poolIface is the subset of *pgxpool.Pool used by the repositories.
type poolIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// RetryPolicy bounds how long NewPool waits for the database to come up.
type RetryPolicy struct {
	Attempts uint64
	Base     time.Duration
	Max      time.Duration
}

// DefaultRetryPolicy retries for roughly half a minute.
var DefaultRetryPolicy = RetryPolicy{Attempts: 8, Base: 250 * time.Millisecond, Max: 5 * time.Second}

func (p RetryPolicy) backoff() retry.Backoff {
	b := retry.NewExponential(p.Base)
	b = retry.WithCappedDuration(p.Max, b)
	return retry.WithMaxRetries(p.Attempts, b)
}

// NewPool connects to databaseURL and pings it, retrying with exponential
// backoff until the policy is exhausted or ctx is done.
func NewPool(ctx context.Context, databaseURL string, policy RetryPolicy) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, oops.Code("DB_INVALID_URL").Wrap(err)
	}

	var pool *pgxpool.Pool
	err = retry.Do(ctx, policy.backoff(), func(ctx context.Context) error {
		p, err := pgxpool.NewWithConfig(ctx, cfg)
		if err != nil {
			return retry.RetryableError(err)
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return retry.RetryableError(err)
		}
		pool = p
		return nil
	})
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").
			With("host", cfg.ConnConfig.Host).
			With("database", cfg.ConnConfig.Database).
			Wrap(err)
	}
	return pool, nil
}
