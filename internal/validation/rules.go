// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pollwise Contributors

package validation

import "reflect"

type requiredRule struct {
	field string
}

// Required fails with CauseMissing when field is absent, nil, an empty
// string, or an empty list or object. false and 0 are present values.
func Required(field string) Rule {
	return requiredRule{field: field}
}

func (r requiredRule) Validate(in Input) error {
	if isEmpty(in[r.field]) {
		return &FieldError{Field: r.field, Cause: CauseMissing}
	}
	return nil
}

func isEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case []any:
		return len(val) == 0
	case []string:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	default:
		return false
	}
}

type emailRule struct {
	field   string
	checker FormatChecker
}

// Email fails with CauseInvalid when field is present and checker rejects
// it. An absent field passes; pair with Required to demand it.
func Email(field string, checker FormatChecker) Rule {
	return emailRule{field: field, checker: checker}
}

func (r emailRule) Validate(in Input) error {
	v := in[r.field]
	if isEmpty(v) {
		return nil
	}
	s, ok := v.(string)
	if !ok || !r.checker.IsValid(s) {
		return &FieldError{Field: r.field, Cause: CauseInvalid}
	}
	return nil
}

type compareRule struct {
	field   string
	compare string
}

// CompareFields fails with CauseMismatch, reported on compare, when the
// values of field and compare differ.
func CompareFields(field, compare string) Rule {
	return compareRule{field: field, compare: compare}
}

func (r compareRule) Validate(in Input) error {
	if !reflect.DeepEqual(in[r.field], in[r.compare]) {
		return &FieldError{Field: r.compare, Cause: CauseMismatch}
	}
	return nil
}
