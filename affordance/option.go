//
// Copyright (C) 2026 The agentbench Authors. All rights reserved.
//
// agentbench is licensed under the Apache License Version 2.0.
//
//

package affordance

const defaultFuzzyThreshold = 0.8

// Option configures a Validator.
type Option func(*Validator)

// WithCaseSensitiveTargets makes target matching case-sensitive.
// Matching is case-insensitive by default.
func WithCaseSensitiveTargets() Option {
	return func(v *Validator) {
		v.caseSensitive = true
	}
}

// WithFuzzyMatching enables near-match acceptance at the given similarity
// threshold in (0, 1]. Out-of-range thresholds keep the default of 0.8.
func WithFuzzyMatching(threshold float64) Option {
	return func(v *Validator) {
		v.fuzzyEnabled = true
		if threshold > 0 && threshold <= 1 {
			v.fuzzyThreshold = threshold
		}
	}
}
