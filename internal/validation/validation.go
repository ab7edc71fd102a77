// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pollwise Contributors

// Package validation provides composable field rules for request input.
//
// A Chain runs its rules in order and reports the first failure as a
// *FieldError. Rules never mutate the input and hold no state beyond their
// configured field names, so a Chain can be shared across goroutines.
package validation

import (
	"errors"
	"strings"
)

// Input is decoded request data keyed by field name.
type Input map[string]any

// String returns the value of key if it is a string.
func (in Input) String(key string) (string, bool) {
	s, ok := in[key].(string)
	return s, ok
}

// Cause classifies a field failure.
type Cause string

// Field failure causes.
const (
	CauseMissing  Cause = "missing"
	CauseInvalid  Cause = "invalid"
	CauseMismatch Cause = "mismatch"
)

// Sentinels matched by errors.Is against a *FieldError of the same cause.
var (
	ErrMissing  = errors.New("missing param")
	ErrInvalid  = errors.New("invalid param")
	ErrMismatch = errors.New("mismatched param")
)

// FieldError reports the field that failed and why.
type FieldError struct {
	Field string
	Cause Cause
}

func (e *FieldError) Error() string {
	switch e.Cause {
	case CauseMissing:
		return "Missing param: " + e.Field
	case CauseMismatch:
		return "Mismatched param: " + e.Field
	default:
		return "Invalid param: " + e.Field
	}
}

// Unwrap returns the sentinel for the error's cause.
func (e *FieldError) Unwrap() error {
	switch e.Cause {
	case CauseMissing:
		return ErrMissing
	case CauseMismatch:
		return ErrMismatch
	case CauseInvalid:
		return ErrInvalid
	default:
		return nil
	}
}

// Code returns a stable machine-readable code such as VALIDATION_MISSING.
func (e *FieldError) Code() string {
	return "VALIDATION_" + strings.ToUpper(string(e.Cause))
}

// Rule checks one aspect of an Input. It returns nil or a *FieldError.
type Rule interface {
	Validate(in Input) error
}

// RuleFunc adapts a function to the Rule interface.
type RuleFunc func(in Input) error

// Validate calls f(in).
func (f RuleFunc) Validate(in Input) error {
	return f(in)
}
