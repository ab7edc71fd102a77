// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pollwise Contributors

// Package mocks provides testify mocks for the survey package.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pollwise/pollwise/internal/survey"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockRepository mocks survey.Repository.
type MockRepository struct {
	mock.Mock
}

// NewMockRepository creates a MockRepository whose expectations are
// asserted when the test finishes.
func NewMockRepository(t testingT) *MockRepository {
	m := &MockRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockRepository) Create(ctx context.Context, s *survey.Survey) error {
	return m.Called(ctx, s).Error(0)
}
