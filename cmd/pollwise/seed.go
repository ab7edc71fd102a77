// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pollwise Contributors

package main

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"os"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pollwise/pollwise/internal/auth"
	authpg "github.com/pollwise/pollwise/internal/auth/postgres"
	"github.com/pollwise/pollwise/internal/config"
	"github.com/pollwise/pollwise/internal/httpapi"
	"github.com/pollwise/pollwise/internal/survey"
	surveypg "github.com/pollwise/pollwise/internal/survey/postgres"
	"github.com/pollwise/pollwise/internal/validation"
)

// Default timeout for seed command.
const defaultSeedTimeout = 30 * time.Second

//go:embed seed.yaml
var defaultSeedData []byte

// seedConfig holds configuration for the seed command.
type seedConfig struct {
	file    string
	timeout time.Duration
	surveys bool
}

// seedFile is the YAML layout of a seed file.
type seedFile struct {
	Accounts []seedAccount `yaml:"accounts"`
	Surveys  []seedSurvey  `yaml:"surveys"`
}

type seedAccount struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

type seedSurvey struct {
	Question string       `yaml:"question"`
	Answers  []seedAnswer `yaml:"answers"`
}

type seedAnswer struct {
	Answer string `yaml:"answer"`
	Image  string `yaml:"image"`
}

// seedResult counts what a seed run did.
type seedResult struct {
	AccountsCreated int
	AccountsSkipped int
	SurveysAdded    int
}

// NewSeedCmd creates the seed subcommand.
func NewSeedCmd() *cobra.Command {
	cfg := &seedConfig{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load accounts and surveys from a YAML seed file",
		Long: `Applies pending migrations, then creates the accounts and surveys in
the seed file (a built-in sample when --file is not given).
Accounts whose email is already registered are skipped, so seeding accounts
is idempotent. Surveys have no natural key and are added on every run;
pass --surveys=false to seed accounts only.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.file, "file", "", "seed file path (default: built-in sample data)")
	cmd.Flags().DurationVar(&cfg.timeout, "timeout", defaultSeedTimeout, "timeout for database operations (e.g., 30s, 1m)")
	cmd.Flags().BoolVar(&cfg.surveys, "surveys", true, "seed surveys as well as accounts")

	return cmd
}

func runSeed(cmd *cobra.Command, seedCfg *seedConfig) error {
	data := defaultSeedData
	if seedCfg.file != "" {
		var err error
		if data, err = os.ReadFile(seedCfg.file); err != nil {
			return oops.Code("SEED_READ_FAILED").With("file", seedCfg.file).Wrap(err)
		}
	}
	fixture, err := parseSeedFile(data)
	if err != nil {
		return oops.With("file", seedCfg.file).Wrap(err)
	}
	if !seedCfg.surveys {
		fixture.Surveys = nil
	}

	cfg, err := loadConfig(cmd, (*config.Config).ValidateDatabase)
	if err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}

	// cmd.Context() carries SIGINT/SIGTERM cancellation.
	ctx, cancel := context.WithTimeout(cmd.Context(), seedCfg.timeout)
	defer cancel()

	cmd.Println("Running migrations...")
	m, err := migratorFactory(cfg.Database.URL)
	if err != nil {
		return oops.Code("MIGRATION_INIT_FAILED").Wrap(err)
	}
	upErr := m.Up()
	closeErr := m.Close()
	if err := errors.Join(upErr, closeErr); err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "run migrations").Wrap(err)
	}

	cmd.Println("Connecting to database...")
	pool, err := defaultPoolFactory(ctx, cfg.Database.URL)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}
	defer pool.Close()

	hasher, err := auth.NewPasswordHasher(cfg.Auth.Hasher, cfg.Auth.BcryptCost)
	if err != nil {
		return oops.Code("SEED_FAILED").Wrap(err)
	}
	registrar, err := auth.NewRegistrar(authpg.NewAccountRepository(pool), hasher)
	if err != nil {
		return oops.Code("SEED_FAILED").Wrap(err)
	}
	surveys, err := survey.NewService(surveypg.NewSurveyRepository(pool))
	if err != nil {
		return oops.Code("SEED_FAILED").Wrap(err)
	}

	result, err := applySeed(ctx, fixture, registrar, surveys)
	if err != nil {
		return err
	}

	cmd.Printf("Seed complete: %d accounts created, %d already present, %d surveys added\n",
		result.AccountsCreated, result.AccountsSkipped, result.SurveysAdded)
	return nil
}

// seedAccountChain checks seed accounts the way sign-up checks requests.
func seedAccountChain() validation.Chain {
	return validation.NewChain(
		validation.Required(validation.FieldName),
		validation.Required(validation.FieldEmail),
		validation.Required(validation.FieldPassword),
		validation.Email(validation.FieldEmail, validation.NewEmailFormatChecker()),
	)
}

// parseSeedFile decodes and validates a seed file. Unknown keys are errors.
func parseSeedFile(data []byte) (*seedFile, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var fixture seedFile
	if err := dec.Decode(&fixture); err != nil {
		return nil, oops.Code("SEED_PARSE_FAILED").Wrap(err)
	}

	chain := seedAccountChain()
	for i, a := range fixture.Accounts {
		in := validation.Input{
			validation.FieldName:     a.Name,
			validation.FieldEmail:    a.Email,
			validation.FieldPassword: a.Password,
		}
		if err := chain.Validate(in); err != nil {
			return nil, oops.Code("SEED_INVALID_ACCOUNT").With("index", i).Wrap(err)
		}
	}
	for i, s := range fixture.Surveys {
		if _, err := survey.New(s.toNewSurvey()); err != nil {
			return nil, oops.Code("SEED_INVALID_SURVEY").With("index", i).Wrap(err)
		}
	}
	return &fixture, nil
}

func (s seedSurvey) toNewSurvey() survey.NewSurvey {
	answers := make([]survey.Answer, len(s.Answers))
	for i, a := range s.Answers {
		answers[i] = survey.Answer{Image: a.Image, Answer: a.Answer}
	}
	return survey.NewSurvey{Question: s.Question, Answers: answers}
}

// applySeed registers every account and adds every survey in order,
// stopping at the first failure.
func applySeed(ctx context.Context, fixture *seedFile, registrar httpapi.Registrar, surveys httpapi.SurveyAdder) (seedResult, error) {
	var result seedResult

	for _, a := range fixture.Accounts {
		_, created, err := registrar.Register(ctx, auth.SignUp{Name: a.Name, Email: a.Email, Password: a.Password})
		if err != nil {
			return result, oops.Code("SEED_ACCOUNT_FAILED").With("email", a.Email).Wrap(err)
		}
		if created {
			result.AccountsCreated++
		} else {
			result.AccountsSkipped++
		}
	}

	for _, s := range fixture.Surveys {
		if _, err := surveys.Add(ctx, s.toNewSurvey()); err != nil {
			return result, oops.Code("SEED_SURVEY_FAILED").With("question", s.Question).Wrap(err)
		}
		result.SurveysAdded++
	}

	return result, nil
}
