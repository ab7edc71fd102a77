// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pollwise Contributors

// Package mocks provides testify mocks for the auth capabilities.
package mocks

import (
	"context"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/mock"

	"github.com/pollwise/pollwise/internal/auth"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockAccountRepository mocks auth.AccountRepository.
type MockAccountRepository struct {
	mock.Mock
}

// NewMockAccountRepository creates a MockAccountRepository whose expectations
// are asserted when the test finishes.
func NewMockAccountRepository(t testingT) *MockAccountRepository {
	m := &MockAccountRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockAccountRepository) GetByEmail(ctx context.Context, email string) (*auth.Account, error) {
	args := m.Called(ctx, email)
	account, _ := args.Get(0).(*auth.Account)
	return account, args.Error(1)
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id ulid.ULID) (*auth.Account, error) {
	args := m.Called(ctx, id)
	account, _ := args.Get(0).(*auth.Account)
	return account, args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, account *auth.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockAccountRepository) UpdateAccessToken(ctx context.Context, id ulid.ULID, token string) error {
	return m.Called(ctx, id, token).Error(0)
}

// MockPasswordHasher mocks auth.PasswordHasher.
type MockPasswordHasher struct {
	mock.Mock
}

// NewMockPasswordHasher creates a MockPasswordHasher whose expectations are
// asserted when the test finishes.
func NewMockPasswordHasher(t testingT) *MockPasswordHasher {
	m := &MockPasswordHasher{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Compare(password, hash string) (bool, error) {
	args := m.Called(password, hash)
	return args.Bool(0), args.Error(1)
}

// MockTokenIssuer mocks auth.TokenIssuer.
type MockTokenIssuer struct {
	mock.Mock
}

// NewMockTokenIssuer creates a MockTokenIssuer whose expectations are
// asserted when the test finishes.
func NewMockTokenIssuer(t testingT) *MockTokenIssuer {
	m := &MockTokenIssuer{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockTokenIssuer) Issue(ctx context.Context, accountID ulid.ULID) (string, error) {
	args := m.Called(ctx, accountID)
	return args.String(0), args.Error(1)
}
