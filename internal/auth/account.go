// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pollwise Contributors

package auth

import (
	"context"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// MaxNameLength is the longest display name an account may carry.
const MaxNameLength = 100

// Account is a stored user account. Values returned by repositories are
// snapshots and are never mutated by the services in this package.
type Account struct {
	ID           ulid.ULID
	Name         string
	Email        string
	PasswordHash string
	AccessToken  *string // nil until the first successful login
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Credentials are the email and plaintext password presented at login.
type Credentials struct {
	Email    string
	Password string
}

// SignUp carries the fields needed to register a new account.
type SignUp struct {
	Name     string
	Email    string
	Password string
}

// NewAccount creates a validated Account with a fresh ID.
// Name and email failures wrap ErrInvalid.
func NewAccount(name, email, passwordHash string) (*Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, oops.Code("ACCOUNT_INVALID_NAME").Wrapf(ErrInvalid, "name cannot be empty")
	}
	if len(name) > MaxNameLength {
		return nil, oops.Code("ACCOUNT_INVALID_NAME").
			With("max", MaxNameLength).
			Wrapf(ErrInvalid, "name must be at most %d characters", MaxNameLength)
	}
	if strings.TrimSpace(email) == "" {
		return nil, oops.Code("ACCOUNT_INVALID_EMAIL").Wrapf(ErrInvalid, "email cannot be empty")
	}
	if passwordHash == "" {
		return nil, oops.Code("ACCOUNT_INVALID_HASH").Errorf("password hash cannot be empty")
	}

	now := time.Now().UTC()
	return &Account{
		ID:           ulid.Make(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// AccountLookup resolves accounts by email.
type AccountLookup interface {
	// GetByEmail retrieves an account by email (case-insensitive).
	// Returns an error wrapping ErrNotFound if no account has the given email.
	GetByEmail(ctx context.Context, email string) (*Account, error)
}

// TokenPersister records issued access tokens.
type TokenPersister interface {
	// UpdateAccessToken stores token as the current access token of the account.
	UpdateAccessToken(ctx context.Context, id ulid.ULID, token string) error
}

// AccountRepository manages account persistence.
type AccountRepository interface {
	AccountLookup
	TokenPersister

	// Create stores a new account.
	// Returns an error wrapping ErrEmailInUse if the email is already taken.
	Create(ctx context.Context, account *Account) error

	// GetByID retrieves an account by ID.
	GetByID(ctx context.Context, id ulid.ULID) (*Account, error)
}
