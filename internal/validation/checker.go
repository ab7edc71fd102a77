// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pollwise Contributors

package validation

import "github.com/go-playground/validator/v10"

// FormatChecker reports whether a value is well formed.
type FormatChecker interface {
	IsValid(value string) bool
}

// FormatCheckerFunc adapts a function to the FormatChecker interface.
type FormatCheckerFunc func(value string) bool

// IsValid calls f(value).
func (f FormatCheckerFunc) IsValid(value string) bool {
	return f(value)
}

// EmailFormatChecker validates RFC 5322 addresses with go-playground/validator.
type EmailFormatChecker struct {
	validate *validator.Validate
}

// NewEmailFormatChecker creates an EmailFormatChecker.
func NewEmailFormatChecker() *EmailFormatChecker {
	return &EmailFormatChecker{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// IsValid reports whether value is a well-formed email address.
func (c *EmailFormatChecker) IsValid(value string) bool {
	return c.validate.Var(value, "required,email") == nil
}
