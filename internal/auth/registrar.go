// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pollwise Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/oops"
)

// Registrar creates new accounts.
type Registrar struct {
	accounts AccountRepository
	hasher   Hasher
	logger   *slog.Logger
}

// NewRegistrar creates a Registrar that logs to slog.Default().
func NewRegistrar(accounts AccountRepository, hasher Hasher) (*Registrar, error) {
	return NewRegistrarWithLogger(accounts, hasher, slog.Default())
}

// NewRegistrarWithLogger creates a Registrar with an explicit logger.
func NewRegistrarWithLogger(accounts AccountRepository, hasher Hasher, logger *slog.Logger) (*Registrar, error) {
	if accounts == nil {
		return nil, oops.Code("AUTH_INVALID_DEPENDENCY").Errorf("account repository is required")
	}
	if hasher == nil {
		return nil, oops.Code("AUTH_INVALID_DEPENDENCY").Errorf("password hasher is required")
	}
	if logger == nil {
		return nil, oops.Code("AUTH_INVALID_DEPENDENCY").Errorf("logger is required")
	}
	return &Registrar{accounts: accounts, hasher: hasher, logger: logger}, nil
}

// Register creates an account for req.
// created is false with a nil error when the email is already in use,
// whether detected by the lookup or by the repository on insert.
// Unacceptable input is returned as an error wrapping ErrInvalid.
func (r *Registrar) Register(ctx context.Context, req SignUp) (account *Account, created bool, err error) {
	_, err = r.accounts.GetByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return r.taken(ctx)
	case !errors.Is(err, ErrNotFound):
		recordRegistration(OutcomeError)
		return nil, false, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "get account by email").
			Wrap(err)
	}

	hash, err := r.hasher.Hash(req.Password)
	if err != nil {
		return r.fail(ctx, "hash password", err)
	}

	account, err = NewAccount(req.Name, req.Email, hash)
	if err != nil {
		return r.fail(ctx, "build account", err)
	}

	if err := r.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, ErrEmailInUse) {
			return r.taken(ctx)
		}
		recordRegistration(OutcomeError)
		return nil, false, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "create account").
			Wrap(err)
	}

	recordRegistration(OutcomeSuccess)
	r.logger.InfoContext(ctx, "account registered", "account_id", account.ID.String())
	return account, true, nil
}

func (r *Registrar) taken(ctx context.Context) (*Account, bool, error) {
	recordRegistration(OutcomeRejected)
	r.logger.DebugContext(ctx, "registration rejected", "reason", "email_in_use")
	return nil, false, nil
}

// fail wraps err for operation. Errors wrapping ErrInvalid are counted as
// rejections rather than faults.
func (r *Registrar) fail(ctx context.Context, operation string, err error) (*Account, bool, error) {
	if errors.Is(err, ErrInvalid) {
		recordRegistration(OutcomeRejected)
		r.logger.DebugContext(ctx, "registration rejected", "reason", "invalid_input", "operation", operation)
	} else {
		recordRegistration(OutcomeError)
	}
	return nil, false, oops.Code("AUTH_REGISTER_FAILED").
		With("operation", operation).
		Wrap(err)
}
