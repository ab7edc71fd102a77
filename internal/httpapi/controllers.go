// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pollwise Contributors

package httpapi

import (
	"context"
	"errors"

	"github.com/samber/oops"

	"github.com/pollwise/pollwise/internal/auth"
	"github.com/pollwise/pollwise/internal/survey"
	"github.com/pollwise/pollwise/internal/validation"
)

// Authenticator exchanges credentials for an access token.
type Authenticator interface {
	Authenticate(ctx context.Context, creds auth.Credentials) (token string, ok bool, err error)
}

// Registrar creates accounts.
type Registrar interface {
	Register(ctx context.Context, req auth.SignUp) (account *auth.Account, created bool, err error)
}

// SurveyAdder publishes surveys.
type SurveyAdder interface {
	Add(ctx context.Context, req survey.NewSurvey) (*survey.Survey, error)
}

// AccessTokenBody is the success body of login and sign-up.
type AccessTokenBody struct {
	AccessToken string `json:"accessToken"`
}

// LoginController exchanges an email and password for an access token.
type LoginController struct {
	chain validation.Rule
	auth  Authenticator
}

// NewLoginController creates a LoginController.
func NewLoginController(chain validation.Rule, authenticator Authenticator) (*LoginController, error) {
	if chain == nil {
		return nil, oops.Code("HTTPAPI_INVALID_DEPENDENCY").Errorf("validation chain is required")
	}
	if authenticator == nil {
		return nil, oops.Code("HTTPAPI_INVALID_DEPENDENCY").Errorf("authenticator is required")
	}
	return &LoginController{chain: chain, auth: authenticator}, nil
}

// Handle responds 400 on invalid input, 401 on bad credentials, and 200
// with the access token on success.
func (c *LoginController) Handle(ctx context.Context, req Request) Response {
	if err := c.chain.Validate(req.Body); err != nil {
		return BadRequest(err)
	}

	fields, err := stringFields(req.Body, validation.FieldEmail, validation.FieldPassword)
	if err != nil {
		return BadRequest(err)
	}
	email, password := fields[0], fields[1]

	token, ok, err := c.auth.Authenticate(ctx, auth.Credentials{Email: email, Password: password})
	if err != nil {
		return ServerError(err)
	}
	if !ok {
		return Unauthorized()
	}
	return OK(AccessTokenBody{AccessToken: token})
}

// SignUpController registers an account and logs it in.
type SignUpController struct {
	chain     validation.Rule
	registrar Registrar
	auth      Authenticator
}

// NewSignUpController creates a SignUpController.
func NewSignUpController(chain validation.Rule, registrar Registrar, authenticator Authenticator) (*SignUpController, error) {
	if chain == nil {
		return nil, oops.Code("HTTPAPI_INVALID_DEPENDENCY").Errorf("validation chain is required")
	}
	if registrar == nil {
		return nil, oops.Code("HTTPAPI_INVALID_DEPENDENCY").Errorf("registrar is required")
	}
	if authenticator == nil {
		return nil, oops.Code("HTTPAPI_INVALID_DEPENDENCY").Errorf("authenticator is required")
	}
	return &SignUpController{chain: chain, registrar: registrar, auth: authenticator}, nil
}

// Handle responds 400 on invalid input or account data, 403 when the email is taken, and
// 200 with an access token for the new account on success.
func (c *SignUpController) Handle(ctx context.Context, req Request) Response {
	if err := c.chain.Validate(req.Body); err != nil {
		return BadRequest(err)
	}

	fields, err := stringFields(req.Body, validation.FieldName, validation.FieldEmail, validation.FieldPassword)
	if err != nil {
		return BadRequest(err)
	}
	name, email, password := fields[0], fields[1], fields[2]

	_, created, err := c.registrar.Register(ctx, auth.SignUp{Name: name, Email: email, Password: password})
	if err != nil {
		if errors.Is(err, auth.ErrInvalid) {
			return BadRequest(err)
		}
		return ServerError(err)
	}
	if !created {
		return Forbidden(ErrEmailInUse)
	}

	token, ok, err := c.auth.Authenticate(ctx, auth.Credentials{Email: email, Password: password})
	if err != nil {
		return ServerError(err)
	}
	if !ok {
		return ServerError(oops.Code("SIGNUP_NO_TOKEN").
			With("email", email).
			Errorf("new account could not be authenticated"))
	}
	return OK(AccessTokenBody{AccessToken: token})
}

// AddSurveyController publishes a survey.
type AddSurveyController struct {
	chain   validation.Rule
	surveys SurveyAdder
}

// NewAddSurveyController creates an AddSurveyController.
func NewAddSurveyController(chain validation.Rule, surveys SurveyAdder) (*AddSurveyController, error) {
	if chain == nil {
		return nil, oops.Code("HTTPAPI_INVALID_DEPENDENCY").Errorf("validation chain is required")
	}
	if surveys == nil {
		return nil, oops.Code("HTTPAPI_INVALID_DEPENDENCY").Errorf("survey service is required")
	}
	return &AddSurveyController{chain: chain, surveys: surveys}, nil
}

// Handle responds 400 on invalid input or survey content and 204 on success.
func (c *AddSurveyController) Handle(ctx context.Context, req Request) Response {
	if err := c.chain.Validate(req.Body); err != nil {
		return BadRequest(err)
	}

	question, ok := req.Body.String(validation.FieldQuestion)
	if !ok {
		return BadRequest(&validation.FieldError{Field: validation.FieldQuestion, Cause: validation.CauseInvalid})
	}
	answers, ok := decodeAnswers(req.Body[validation.FieldAnswers])
	if !ok {
		return BadRequest(&validation.FieldError{Field: validation.FieldAnswers, Cause: validation.CauseInvalid})
	}

	if _, err := c.surveys.Add(ctx, survey.NewSurvey{Question: question, Answers: answers}); err != nil {
		if errors.Is(err, survey.ErrInvalid) {
			return BadRequest(err)
		}
		return ServerError(err)
	}
	return NoContent()
}

// stringFields returns the values of fields in order. A field holding
// anything but a string is reported as invalid.
func stringFields(in validation.Input, fields ...string) ([]string, error) {
	values := make([]string, len(fields))
	for i, field := range fields {
		v, ok := in.String(field)
		if !ok {
			return nil, &validation.FieldError{Field: field, Cause: validation.CauseInvalid}
		}
		values[i] = v
	}
	return values, nil
}

// decodeAnswers converts a decoded JSON array of {image, answer} objects.
func decodeAnswers(v any) ([]survey.Answer, bool) {
	items, ok := v.([]any)
	if !ok {
		return nil, false
	}
	answers := make([]survey.Answer, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, false
		}
		var a survey.Answer
		if a.Answer, ok = obj["answer"].(string); !ok {
			return nil, false
		}
		if img, present := obj["image"]; present && img != nil {
			if a.Image, ok = img.(string); !ok {
				return nil, false
			}
		}
		answers = append(answers, a)
	}
	return answers, true
}
