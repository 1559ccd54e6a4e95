//
// Copyright (C) 2026 The agentbench Authors. All rights reserved.
//
// agentbench is licensed under the Apache License Version 2.0.
//
//

// Package affordance validates parsed actions against the UI elements
// available in the current observation.
package affordance

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/droidworld/agentbench/action"
	"github.com/droidworld/agentbench/episode"
)

// Verdict is the outcome of validating an action against an observation.
type Verdict int

const (
	// VerdictUnknown represents an unknown validation outcome.
	VerdictUnknown Verdict = iota
	// VerdictValid means the action's target exactly matches an on-screen element.
	VerdictValid
	// VerdictValidFuzzy means the target was accepted via fuzzy matching.
	// Kept distinct from VerdictValid so failure-rate statistics can tell
	// the two apart.
	VerdictValidFuzzy
	// VerdictInvalidTarget means the target names no element on screen.
	// This is the formal definition of a hallucination.
	VerdictInvalidTarget
	// VerdictInvalidVerb means the verb is not part of the environment's
	// grammar for this context.
	VerdictInvalidVerb
)

// String returns the string representation of the verdict.
func (v Verdict) String() string {
	switch v {
	case VerdictValid:
		return "valid"
	case VerdictValidFuzzy:
		return "valid_fuzzy"
	case VerdictInvalidTarget:
		return "invalid_target"
	case VerdictInvalidVerb:
		return "invalid_verb"
	default:
		return "unknown"
	}
}

// Valid reports whether the verdict accepts the action, exactly or fuzzily.
func (v Verdict) Valid() bool {
	return v == VerdictValid || v == VerdictValidFuzzy
}

// Validator checks actions against observation affordances.
type Validator struct {
	verbs          action.VerbSet
	caseSensitive  bool
	fuzzyEnabled   bool
	fuzzyThreshold float64
}

// New creates a validator for the given verb set. Target matching is
// case-insensitive and fuzzy matching is disabled unless options say
// otherwise.
func New(verbs action.VerbSet, opt ...Option) *Validator {
	v := &Validator{verbs: verbs, fuzzyThreshold: defaultFuzzyThreshold}
	for _, o := range opt {
		o(v)
	}
	return v
}

// Validate checks the action against the observation's UI elements.
// Targetless verbs bypass target matching entirely.
func (v *Validator) Validate(a action.Action, obs episode.Observation) Verdict {
	if !v.verbs.Contains(a.Verb) {
		return VerdictInvalidVerb
	}
	if v.verbs.Targetless(a.Verb) {
		return VerdictValid
	}
	for _, label := range obs.UIElements {
		if v.equalLabel(a.Target, label) {
			return VerdictValid
		}
	}
	if v.fuzzyEnabled {
		for _, label := range obs.UIElements {
			if v.similarity(a.Target, label) >= v.fuzzyThreshold {
				return VerdictValidFuzzy
			}
		}
	}
	return VerdictInvalidTarget
}

func (v *Validator) equalLabel(target, label string) bool {
	if v.caseSensitive {
		return target == label
	}
	return strings.EqualFold(target, label)
}

// similarity is a normalized Levenshtein ratio in [0, 1]. Case folds unless
// the validator is case-sensitive.
func (v *Validator) similarity(target, label string) float64 {
	if !v.caseSensitive {
		target = strings.ToLower(target)
		label = strings.ToLower(label)
	}
	longest := max(len([]rune(target)), len([]rune(label)))
	if longest == 0 {
		return 0
	}
	dist := levenshtein.ComputeDistance(target, label)
	return 1 - float64(dist)/float64(longest)
}
