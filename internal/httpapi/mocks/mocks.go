// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pollwise Contributors

// Package mocks provides testify mocks for the httpapi collaborators.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pollwise/pollwise/internal/auth"
	"github.com/pollwise/pollwise/internal/survey"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockAuthenticator mocks httpapi.Authenticator.
type MockAuthenticator struct {
	mock.Mock
}

// NewMockAuthenticator creates a MockAuthenticator whose expectations are
// asserted when the test finishes.
func NewMockAuthenticator(t testingT) *MockAuthenticator {
	m := &MockAuthenticator{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockAuthenticator) Authenticate(ctx context.Context, creds auth.Credentials) (string, bool, error) {
	args := m.Called(ctx, creds)
	return args.String(0), args.Bool(1), args.Error(2)
}

// MockRegistrar mocks httpapi.Registrar.
type MockRegistrar struct {
	mock.Mock
}

// NewMockRegistrar creates a MockRegistrar whose expectations are asserted
// when the test finishes.
func NewMockRegistrar(t testingT) *MockRegistrar {
	m := &MockRegistrar{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockRegistrar) Register(ctx context.Context, req auth.SignUp) (*auth.Account, bool, error) {
	args := m.Called(ctx, req)
	account, _ := args.Get(0).(*auth.Account)
	return account, args.Bool(1), args.Error(2)
}

// MockSurveyAdder mocks httpapi.SurveyAdder.
type MockSurveyAdder struct {
	mock.Mock
}

// NewMockSurveyAdder creates a MockSurveyAdder whose expectations are
// asserted when the test finishes.
func NewMockSurveyAdder(t testingT) *MockSurveyAdder {
	m := &MockSurveyAdder{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockSurveyAdder) Add(ctx context.Context, req survey.NewSurvey) (*survey.Survey, error) {
	args := m.Called(ctx, req)
	s, _ := args.Get(0).(*survey.Survey)
	return s, args.Error(1)
}

// MockLogSink mocks httpapi.LogSink.
type MockLogSink struct {
	mock.Mock
}

// NewMockLogSink creates a MockLogSink whose expectations are asserted
// when the test finishes.
func NewMockLogSink(t testingT) *MockLogSink {
	m := &MockLogSink{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockLogSink) LogError(ctx context.Context, stack string) error {
	return m.Called(ctx, stack).Error(0)
}
