// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pollwise Contributors

package validation

// Field names of the request bodies.
const (
	FieldName                 = "name"
	FieldEmail                = "email"
	FieldPassword             = "password"
	FieldPasswordConfirmation = "passwordConfirmation"
	FieldQuestion             = "question"
	FieldAnswers              = "answers"
)

// LoginChain validates a login body.
func LoginChain(checker FormatChecker) Chain {
	return NewChain(
		Required(FieldEmail),
		Required(FieldPassword),
		Email(FieldEmail, checker),
	)
}

// SignUpChain validates a sign-up body.
func SignUpChain(checker FormatChecker) Chain {
	return NewChain(
		Required(FieldName),
		Required(FieldEmail),
		Required(FieldPassword),
		Required(FieldPasswordConfirmation),
		CompareFields(FieldPassword, FieldPasswordConfirmation),
		Email(FieldEmail, checker),
	)
}

// AddSurveyChain validates a new survey body.
func AddSurveyChain() Chain {
	return NewChain(
		Required(FieldQuestion),
		Required(FieldAnswers),
	)
}
