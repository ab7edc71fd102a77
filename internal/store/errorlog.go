// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pollwise Contributors

package store

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// ErrorLogEntry is one recorded server fault.
type ErrorLogEntry struct {
	ID        ulid.ULID
	Stack     string
	CreatedAt time.Time
}

// ErrorLogRepository stores server fault stack traces in the error_logs table.
type ErrorLogRepository struct {
	pool poolIface
	now  func() time.Time
}

// NewErrorLogRepository creates a new ErrorLogRepository.
func NewErrorLogRepository(pool poolIface) *ErrorLogRepository {
	return &ErrorLogRepository{pool: pool, now: time.Now}
}

// LogError records stack as a new entry.
func (r *ErrorLogRepository) LogError(ctx context.Context, stack string) error {
	id := ulid.Make()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO error_logs (id, stack, created_at)
		VALUES ($1, $2, $3)
	`, id.String(), stack, r.now().UTC())
	if err != nil {
		return oops.Code("ERROR_LOG_WRITE_FAILED").
			With("id", id.String()).
			Wrap(err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (r *ErrorLogRepository) Recent(ctx context.Context, limit int) ([]ErrorLogEntry, error) {
	if limit <= 0 {
		return nil, oops.Code("ERROR_LOG_INVALID_LIMIT").With("limit", limit).Errorf("limit must be positive")
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, stack, created_at
		FROM error_logs
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, oops.Code("ERROR_LOG_READ_FAILED").With("operation", "query error logs").Wrap(err)
	}
	defer rows.Close()

	var entries []ErrorLogEntry
	for rows.Next() {
		var (
			idStr string
			entry ErrorLogEntry
		)
		if err := rows.Scan(&idStr, &entry.Stack, &entry.CreatedAt); err != nil {
			return nil, oops.Code("ERROR_LOG_READ_FAILED").With("operation", "scan error log").Wrap(err)
		}
		if entry.ID, err = ulid.Parse(idStr); err != nil {
			return nil, oops.Code("ERROR_LOG_READ_FAILED").With("id", idStr).Wrap(err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("ERROR_LOG_READ_FAILED").With("operation", "iterate error logs").Wrap(err)
	}
	return entries, nil
}
