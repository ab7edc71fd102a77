// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pollwise Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/oops"
)

// Rejection reasons, used only for debug logging.
const (
	reasonUnknownAccount = "unknown_account"
	reasonBadPassword    = "bad_password"
	reasonNoToken        = "no_token"
)

// Authenticator checks credentials and issues access tokens.
type Authenticator struct {
	accounts AccountLookup
	comparer HashComparer
	issuer   TokenIssuer
	tokens   TokenPersister
	logger   *slog.Logger
}

// NewAuthenticator creates an Authenticator that logs to slog.Default().
func NewAuthenticator(accounts AccountLookup, comparer HashComparer, issuer TokenIssuer, tokens TokenPersister) (*Authenticator, error) {
	return NewAuthenticatorWithLogger(accounts, comparer, issuer, tokens, slog.Default())
}

// NewAuthenticatorWithLogger creates an Authenticator with an explicit logger.
func NewAuthenticatorWithLogger(accounts AccountLookup, comparer HashComparer, issuer TokenIssuer, tokens TokenPersister, logger *slog.Logger) (*Authenticator, error) {
	if accounts == nil {
		return nil, oops.Code("AUTH_INVALID_DEPENDENCY").Errorf("account lookup is required")
	}
	if comparer == nil {
		return nil, oops.Code("AUTH_INVALID_DEPENDENCY").Errorf("hash comparer is required")
	}
	if issuer == nil {
		return nil, oops.Code("AUTH_INVALID_DEPENDENCY").Errorf("token issuer is required")
	}
	if tokens == nil {
		return nil, oops.Code("AUTH_INVALID_DEPENDENCY").Errorf("token persister is required")
	}
	if logger == nil {
		return nil, oops.Code("AUTH_INVALID_DEPENDENCY").Errorf("logger is required")
	}
	return &Authenticator{
		accounts: accounts,
		comparer: comparer,
		issuer:   issuer,
		tokens:   tokens,
		logger:   logger,
	}, nil
}

// Authenticate verifies creds and returns a freshly issued access token.
//
// ok is false with a nil error when the email is unknown, the password does
// not match, or the issuer produced no token. Each collaborator is called at
// most once and in order: lookup, compare, issue, persist. The token is
// persisted only on success, and a persistence failure is returned as an
// error instead of the token.
func (a *Authenticator) Authenticate(ctx context.Context, creds Credentials) (token string, ok bool, err error) {
	account, err := a.accounts.GetByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return a.reject(ctx, reasonUnknownAccount)
		}
		return a.fail(oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "get account by email").
			Wrap(err))
	}

	valid, err := a.comparer.Compare(creds.Password, account.PasswordHash)
	if err != nil {
		return a.fail(oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "compare password").
			With("account_id", account.ID.String()).
			Wrap(err))
	}
	if !valid {
		return a.reject(ctx, reasonBadPassword)
	}

	token, err = a.issuer.Issue(ctx, account.ID)
	if err != nil {
		return a.fail(oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "issue access token").
			With("account_id", account.ID.String()).
			Wrap(err))
	}
	if token == "" {
		return a.reject(ctx, reasonNoToken)
	}

	if err := a.tokens.UpdateAccessToken(ctx, account.ID, token); err != nil {
		return a.fail(oops.Code("AUTH_TOKEN_PERSIST_FAILED").
			With("operation", "persist access token").
			With("account_id", account.ID.String()).
			Wrap(err))
	}

	recordAttempt(OutcomeSuccess)
	return token, true, nil
}

func (a *Authenticator) reject(ctx context.Context, reason string) (string, bool, error) {
	recordAttempt(OutcomeRejected)
	a.logger.DebugContext(ctx, "authentication rejected", "reason", reason)
	return "", false, nil
}

func (a *Authenticator) fail(err error) (string, bool, error) {
	recordAttempt(OutcomeError)
	return "", false, err
}
