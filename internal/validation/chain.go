// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pollwise Contributors

package validation

// Chain is an ordered list of rules. The zero Chain accepts everything.
type Chain struct {
	rules []Rule
}

// NewChain creates a Chain that evaluates rules in the given order.
func NewChain(rules ...Rule) Chain {
	return Chain{rules: append([]Rule(nil), rules...)}
}

// Validate returns the first rule failure, or nil if every rule passes.
// Rules after the first failure are not evaluated.
func (c Chain) Validate(in Input) error {
	for _, rule := range c.rules {
		if err := rule.Validate(in); err != nil {
			return err
		}
	}
	return nil
}

// Len reports the number of rules in the chain.
func (c Chain) Len() int {
	return len(c.rules)
}

var _ Rule = Chain{}
