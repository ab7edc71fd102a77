// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pollwise Contributors

//go:build integration

package postgres_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/pollwise/pollwise/internal/store"
	"github.com/pollwise/pollwise/internal/survey"
	surveypg "github.com/pollwise/pollwise/internal/survey/postgres"
)

func TestSurveyRepository_Integration(t *testing.T) {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("pollwise_test"),
		postgres.WithUsername("pollwise"),
		postgres.WithPassword("pollwise"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	migrator, err := store.NewMigrator(connStr)
	require.NoError(t, err)
	require.NoError(t, migrator.Up())
	require.NoError(t, migrator.Close())

	pool, err := store.NewPool(ctx, connStr, store.DefaultRetryPolicy)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	s, err := survey.New(survey.NewSurvey{
		Question: "any_question",
		Answers:  []survey.Answer{{Image: "any_image", Answer: "any_answer"}, {Answer: "other_answer"}},
	})
	require.NoError(t, err)

	require.NoError(t, surveypg.NewSurveyRepository(pool).Create(ctx, s))

	var (
		question    string
		answersJSON []byte
	)
	err = pool.QueryRow(ctx, `SELECT question, answers FROM surveys WHERE id = $1`, s.ID.String()).
		Scan(&question, &answersJSON)
	require.NoError(t, err)
	assert.Equal(t, "any_question", question)

	var answers []survey.Answer
	require.NoError(t, json.Unmarshal(answersJSON, &answers))
	assert.Equal(t, s.Answers, answers)
}
