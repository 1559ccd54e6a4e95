//
// Copyright (C) 2026 The agentbench Authors. All rights reserved.
//
// agentbench is licensed under the Apache License Version 2.0.
//
//

// Package action defines the structured action grammar shared by policies,
// validators and the episode runner.
package action

import (
	"strings"
)

// Verb identifies the kind of UI interaction an action performs.
type Verb string

// Verbs understood by the default simulated environment.
const (
	VerbClick     Verb = "CLICK"
	VerbType      Verb = "TYPE"
	VerbSwipe     Verb = "SWIPE"
	VerbScroll    Verb = "SCROLL"
	VerbLongClick Verb = "LONGCLICK"
	VerbBack      Verb = "BACK"
)

// VerbSpec describes how a verb behaves within the grammar.
type VerbSpec struct {
	// Targetless marks verbs that operate without a UI element target.
	Targetless bool
}

// VerbSet enumerates the verbs an environment accepts. It is configuration,
// not a hard-coded list, so new environments can extend the grammar.
type VerbSet map[Verb]VerbSpec

// DefaultVerbSet returns the verb set of the default mobile-UI environment.
func DefaultVerbSet() VerbSet {
	return VerbSet{
		VerbClick:     {},
		VerbType:      {},
		VerbSwipe:     {},
		VerbScroll:    {},
		VerbLongClick: {},
		VerbBack:      {Targetless: true},
	}
}

// Contains reports whether the verb belongs to the set.
func (s VerbSet) Contains(v Verb) bool {
	_, ok := s[v]
	return ok
}

// Targetless reports whether the verb operates without a target.
func (s VerbSet) Targetless(v Verb) bool {
	return s[v].Targetless
}

// Verbs returns the verbs of the set in unspecified order.
func (s VerbSet) Verbs() []Verb {
	verbs := make([]Verb, 0, len(s))
	for v := range s {
		verbs = append(verbs, v)
	}
	return verbs
}

// Action is a single structured instruction: a verb, a target naming a UI
// element, and an optional parameter such as text to type.
type Action struct {
	// Verb is the kind of interaction.
	Verb Verb `json:"verb"`
	// Target names the UI element the action operates on. Empty for
	// targetless verbs.
	Target string `json:"target,omitempty"`
	// Param carries an optional argument, e.g. the text for TYPE.
	Param string `json:"param,omitempty"`
}

// String serializes the action back into grammar form:
// VERB("target"), VERB("target", "param") or VERB() for targetless verbs.
// Parsing the returned text yields the identical action.
func (a Action) String() string {
	var b strings.Builder
	b.WriteString(string(a.Verb))
	b.WriteByte('(')
	if a.Target != "" || a.Param != "" {
		b.WriteString(quote(a.Target))
		if a.Param != "" {
			b.WriteString(", ")
			b.WriteString(quote(a.Param))
		}
	}
	b.WriteByte(')')
	return b.String()
}

// Equal reports structural equality between two actions. The verb and the
// parameter compare exactly; the target comparison is case-insensitive
// unless caseSensitiveTarget is set.
func (a Action) Equal(other Action, caseSensitiveTarget bool) bool {
	if a.Verb != other.Verb || a.Param != other.Param {
		return false
	}
	if caseSensitiveTarget {
		return a.Target == other.Target
	}
	return strings.EqualFold(a.Target, other.Target)
}

func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		if r == '"' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}
