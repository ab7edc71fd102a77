// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pollwise Contributors

// Package postgres provides the PostgreSQL survey repository.
package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/pollwise/pollwise/internal/survey"
)

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// SurveyRepository implements survey.Repository using PostgreSQL.
// Answers are stored as a JSONB array.
type SurveyRepository struct {
	pool execer
}

// NewSurveyRepository creates a new SurveyRepository.
func NewSurveyRepository(pool execer) *SurveyRepository {
	return &SurveyRepository{pool: pool}
}

// Create stores a new survey.
func (r *SurveyRepository) Create(ctx context.Context, s *survey.Survey) error {
	answersJSON, err := json.Marshal(s.Answers)
	if err != nil {
		return oops.Code("SURVEY_CREATE_FAILED").
			With("operation", "marshal answers").
			Wrap(err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO surveys (id, question, answers, created_at)
		VALUES ($1, $2, $3, $4)
	`, s.ID.String(), s.Question, answersJSON, s.CreatedAt)
	if err != nil {
		return oops.Code("SURVEY_CREATE_FAILED").
			With("operation", "insert survey").
			With("id", s.ID.String()).
			Wrap(err)
	}
	return nil
}

// Compile-time interface check.
var _ survey.Repository = (*SurveyRepository)(nil)
