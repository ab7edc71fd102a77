// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pollwise Contributors

package survey_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pollwise/pollwise/internal/survey"
	"github.com/pollwise/pollwise/internal/survey/mocks"
	"github.com/pollwise/pollwise/pkg/errutil"
)

func anyNewSurvey() survey.NewSurvey {
	return survey.NewSurvey{
		Question: "any_question",
		Answers:  []survey.Answer{{Image: "any_image", Answer: "any_answer"}},
	}
}

func TestNewService_NilDependencies(t *testing.T) {
	_, err := survey.NewService(nil)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "SURVEY_INVALID_DEPENDENCY")

	_, err = survey.NewServiceWithLogger(mocks.NewMockRepository(t), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logger")
}

func TestService_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the survey", func(t *testing.T) {
		repo := mocks.NewMockRepository(t)
		svc, err := survey.NewService(repo)
		require.NoError(t, err)

		repo.On("Create", ctx, mock.MatchedBy(func(s *survey.Survey) bool {
			return s.Question == "any_question" && len(s.Answers) == 1
		})).Return(nil).Once()

		s, err := svc.Add(ctx, anyNewSurvey())
		require.NoError(t, err)
		assert.Equal(t, "any_question", s.Question)
	})

	t.Run("invalid survey never reaches the repository", func(t *testing.T) {
		repo := mocks.NewMockRepository(t)
		svc, err := survey.NewService(repo)
		require.NoError(t, err)

		_, err = svc.Add(ctx, survey.NewSurvey{Question: "any_question"})
		require.Error(t, err)
		assert.ErrorIs(t, err, survey.ErrInvalid)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("repository failure propagates", func(t *testing.T) {
		repo := mocks.NewMockRepository(t)
		svc, err := survey.NewService(repo)
		require.NoError(t, err)

		dbErr := errors.New("connection refused")
		repo.On("Create", ctx, mock.Anything).Return(dbErr).Once()

		_, err = svc.Add(ctx, anyNewSurvey())
		require.Error(t, err)
		assert.ErrorIs(t, err, dbErr)
		assert.NotErrorIs(t, err, survey.ErrInvalid)
		errutil.AssertErrorCode(t, err, "SURVEY_ADD_FAILED")
	})
}
