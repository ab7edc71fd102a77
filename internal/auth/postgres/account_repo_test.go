// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pollwise Contributors

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pollwise/pollwise/internal/auth"
	"github.com/pollwise/pollwise/pkg/errutil"
)

var accountColumns = []string{"id", "name", "email", "password_hash", "access_token", "created_at", "updated_at"}

func newTestAccount() *auth.Account {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &auth.Account{
		ID:           ulid.Make(),
		Name:         "any_name",
		Email:        "any_email@mail.com",
		PasswordHash: "hashed_password",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestAccountRepository_Create(t *testing.T) {
	account := newTestAccount()

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantCode  string
		wantIs    error
	}{
		{
			name: "inserts account",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO accounts`).
					WithArgs(account.ID.String(), account.Name, account.Email, account.PasswordHash,
						account.AccessToken, account.CreatedAt, account.UpdatedAt).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
		},
		{
			name: "unique violation maps to email in use",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO accounts`).
					WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
						pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})
			},
			wantCode: "ACCOUNT_EMAIL_IN_USE",
			wantIs:   auth.ErrEmailInUse,
		},
		{
			name: "database error",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO accounts`).
					WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
						pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnError(errors.New("connection refused"))
			},
			wantCode: "ACCOUNT_CREATE_FAILED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err, "failed to create mock")
			defer mock.Close()

			tt.setupMock(mock)

			err = NewAccountRepository(mock).Create(context.Background(), account)
			if tt.wantCode == "" {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				errutil.AssertErrorCode(t, err, tt.wantCode)
				if tt.wantIs != nil {
					assert.ErrorIs(t, err, tt.wantIs)
				}
			}
			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}

func TestAccountRepository_GetByEmail(t *testing.T) {
	account := newTestAccount()
	token := "stored_token"

	t.Run("returns matching account", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT (.+) FROM accounts WHERE LOWER\(email\) = LOWER\(\$1\)`).
			WithArgs("ANY_EMAIL@mail.com").
			WillReturnRows(pgxmock.NewRows(accountColumns).AddRow(
				account.ID.String(), account.Name, account.Email, account.PasswordHash,
				&token, account.CreatedAt, account.UpdatedAt,
			))

		got, err := NewAccountRepository(mock).GetByEmail(context.Background(), "ANY_EMAIL@mail.com")
		require.NoError(t, err)
		assert.Equal(t, account.ID, got.ID)
		assert.Equal(t, account.Email, got.Email)
		assert.Equal(t, account.PasswordHash, got.PasswordHash)
		require.NotNil(t, got.AccessToken)
		assert.Equal(t, token, *got.AccessToken)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no rows wraps ErrNotFound", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT (.+) FROM accounts`).
			WithArgs("missing@mail.com").
			WillReturnError(pgx.ErrNoRows)

		got, err := NewAccountRepository(mock).GetByEmail(context.Background(), "missing@mail.com")
		require.Error(t, err)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, auth.ErrNotFound)
		errutil.AssertErrorCode(t, err, "ACCOUNT_NOT_FOUND")
		errutil.AssertErrorContext(t, err, "email", "missing@mail.com")
	})

	t.Run("database error is not ErrNotFound", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT (.+) FROM accounts`).
			WithArgs("any_email@mail.com").
			WillReturnError(errors.New("connection refused"))

		_, err = NewAccountRepository(mock).GetByEmail(context.Background(), "any_email@mail.com")
		require.Error(t, err)
		assert.NotErrorIs(t, err, auth.ErrNotFound)
		errutil.AssertErrorCode(t, err, "ACCOUNT_GET_BY_EMAIL_FAILED")
	})

	t.Run("corrupt id", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT (.+) FROM accounts`).
			WithArgs("any_email@mail.com").
			WillReturnRows(pgxmock.NewRows(accountColumns).AddRow(
				"not-a-ulid", account.Name, account.Email, account.PasswordHash,
				nil, account.CreatedAt, account.UpdatedAt,
			))

		_, err = NewAccountRepository(mock).GetByEmail(context.Background(), "any_email@mail.com")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "ACCOUNT_INVALID_ID")
		errutil.AssertErrorContext(t, err, "id", "not-a-ulid")
	})
}

func TestAccountRepository_GetByID(t *testing.T) {
	account := newTestAccount()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT (.+) FROM accounts WHERE id = \$1`).
		WithArgs(account.ID.String()).
		WillReturnRows(pgxmock.NewRows(accountColumns).AddRow(
			account.ID.String(), account.Name, account.Email, account.PasswordHash,
			nil, account.CreatedAt, account.UpdatedAt,
		))
	mock.ExpectQuery(`SELECT (.+) FROM accounts WHERE id = \$1`).
		WithArgs(pgxmock.AnyArg()).
		WillReturnError(pgx.ErrNoRows)

	repo := NewAccountRepository(mock)

	got, err := repo.GetByID(context.Background(), account.ID)
	require.NoError(t, err)
	assert.Equal(t, account.Name, got.Name)
	assert.Nil(t, got.AccessToken)

	_, err = repo.GetByID(context.Background(), ulid.Make())
	assert.ErrorIs(t, err, auth.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_UpdateAccessToken(t *testing.T) {
	id := ulid.Make()

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantCode  string
		wantIs    error
	}{
		{
			name: "updates token",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE accounts SET access_token`).
					WithArgs(id.String(), "any_token", pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
		},
		{
			name: "missing account",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE accounts SET access_token`).
					WithArgs(id.String(), "any_token", pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
			wantCode: "ACCOUNT_NOT_FOUND",
			wantIs:   auth.ErrNotFound,
		},
		{
			name: "database error",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE accounts SET access_token`).
					WithArgs(id.String(), "any_token", pgxmock.AnyArg()).
					WillReturnError(errors.New("connection refused"))
			},
			wantCode: "ACCOUNT_UPDATE_TOKEN_FAILED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.setupMock(mock)

			err = NewAccountRepository(mock).UpdateAccessToken(context.Background(), id, "any_token")
			if tt.wantCode == "" {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				errutil.AssertErrorCode(t, err, tt.wantCode)
				if tt.wantIs != nil {
					assert.ErrorIs(t, err, tt.wantIs)
				}
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
