// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pollwise Contributors

// Package survey manages the questions clients publish for voting.
package survey

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Limits on survey content.
const (
	MaxQuestionLength = 500
	MaxAnswers        = 20
)

// ErrInvalid is wrapped by every survey content error.
var ErrInvalid = errors.New("invalid survey")

// Answer is one choice offered by a survey. Image is an optional URL.
type Answer struct {
	Image  string `json:"image,omitempty"`
	Answer string `json:"answer"`
}

// Survey is a published question with its answers.
type Survey struct {
	ID        ulid.ULID
	Question  string
	Answers   []Answer
	CreatedAt time.Time
}

// NewSurvey carries the fields needed to publish a survey.
type NewSurvey struct {
	Question string
	Answers  []Answer
}

// New creates a validated Survey with a fresh ID.
func New(req NewSurvey) (*Survey, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, oops.Code("SURVEY_INVALID_QUESTION").Wrapf(ErrInvalid, "question cannot be empty")
	}
	if len(question) > MaxQuestionLength {
		return nil, oops.Code("SURVEY_INVALID_QUESTION").
			With("max", MaxQuestionLength).
			Wrapf(ErrInvalid, "question must be at most %d characters", MaxQuestionLength)
	}
	if len(req.Answers) == 0 {
		return nil, oops.Code("SURVEY_INVALID_ANSWERS").Wrapf(ErrInvalid, "at least one answer is required")
	}
	if len(req.Answers) > MaxAnswers {
		return nil, oops.Code("SURVEY_INVALID_ANSWERS").
			With("max", MaxAnswers).
			Wrapf(ErrInvalid, "at most %d answers are allowed", MaxAnswers)
	}

	answers := make([]Answer, len(req.Answers))
	for i, a := range req.Answers {
		text := strings.TrimSpace(a.Answer)
		if text == "" {
			return nil, oops.Code("SURVEY_INVALID_ANSWER").
				With("index", i).
				Wrapf(ErrInvalid, "answer %d cannot be empty", i)
		}
		answers[i] = Answer{Image: strings.TrimSpace(a.Image), Answer: text}
	}

	return &Survey{
		ID:        ulid.Make(),
		Question:  question,
		Answers:   answers,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Repository persists surveys.
type Repository interface {
	Create(ctx context.Context, s *Survey) error
}
