// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pollwise Contributors

package survey

import (
	"context"
	"log/slog"

	"github.com/samber/oops"
)

// Service publishes surveys.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a Service that logs to slog.Default().
func NewService(repo Repository) (*Service, error) {
	return NewServiceWithLogger(repo, slog.Default())
}

// NewServiceWithLogger creates a Service with an explicit logger.
func NewServiceWithLogger(repo Repository, logger *slog.Logger) (*Service, error) {
	if repo == nil {
		return nil, oops.Code("SURVEY_INVALID_DEPENDENCY").Errorf("survey repository is required")
	}
	if logger == nil {
		return nil, oops.Code("SURVEY_INVALID_DEPENDENCY").Errorf("logger is required")
	}
	return &Service{repo: repo, logger: logger}, nil
}

// Add validates and stores a new survey. Content errors wrap ErrInvalid.
func (s *Service) Add(ctx context.Context, req NewSurvey) (*Survey, error) {
	sv, err := New(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, sv); err != nil {
		return nil, oops.Code("SURVEY_ADD_FAILED").
			With("survey_id", sv.ID.String()).
			Wrap(err)
	}
	s.logger.InfoContext(ctx, "survey added", "survey_id", sv.ID.String(), "answers", len(sv.Answers))
	return sv, nil
}

