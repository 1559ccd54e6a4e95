//
// Copyright (C) 2026 The agentbench Authors. All rights reserved.
//
// agentbench is licensed under the Apache License Version 2.0.
//
//

package action

import (
	"fmt"
	"regexp"
	"strings"
)

// ParseFailure describes why raw policy output did not yield an action.
// It is a recorded outcome, not a crash: parsing never panics on malformed
// input.
type ParseFailure struct {
	// Raw is the original response text.
	Raw string `json:"raw"`
	// Reason explains why no action could be extracted.
	Reason string `json:"reason"`
}

// Error implements the error interface.
func (f *ParseFailure) Error() string {
	return fmt.Sprintf("parse action: %s", f.Reason)
}

// actionExprRe matches one action expression: VERB(), VERB("target") or
// VERB("target", "param"), with backslash-escaped quotes inside strings.
var actionExprRe = regexp.MustCompile(
	`([A-Za-z_][A-Za-z0-9_]*)\(\s*(?:"((?:[^"\\]|\\.)*)"\s*(?:,\s*"((?:[^"\\]|\\.)*)"\s*)?)?\)`)

// verbCallRe matches anything that merely looks like the start of an action
// expression. Used to distinguish malformed quoting from a plain absence of
// action text.
var verbCallRe = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_]*)\(`)

// Parser extracts actions from free-form policy responses.
type Parser struct {
	verbs VerbSet
}

// NewParser creates a parser for the given verb set.
func NewParser(verbs VerbSet) *Parser {
	return &Parser{verbs: verbs}
}

// Verbs returns the verb set the parser accepts.
func (p *Parser) Verbs() VerbSet { return p.verbs }

// Parse locates the last well-formed action expression in raw text and
// returns the parsed action. Policies are expected to emit free-form
// reasoning followed by the action line, so surrounding text is ignored and
// the final expression wins. On failure a ParseFailure is returned instead.
func (p *Parser) Parse(raw string) (*Action, *ParseFailure) {
	matches := actionExprRe.FindAllStringSubmatch(raw, -1)
	sawUnknownVerb := false
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		verb := Verb(strings.ToUpper(m[1]))
		if !p.verbs.Contains(verb) {
			sawUnknownVerb = true
			continue
		}
		target := unquote(m[2])
		param := unquote(m[3])
		if target == "" && param == "" && !p.verbs.Targetless(verb) {
			return nil, &ParseFailure{Raw: raw, Reason: fmt.Sprintf("verb %s requires a target", verb)}
		}
		return &Action{Verb: verb, Target: target, Param: param}, nil
	}
	if sawUnknownVerb {
		return nil, &ParseFailure{Raw: raw, Reason: "verb not in the configured verb set"}
	}
	if p.looksMalformed(raw) {
		return nil, &ParseFailure{Raw: raw, Reason: "malformed action expression"}
	}
	return nil, &ParseFailure{Raw: raw, Reason: "no action expression found"}
}

// looksMalformed reports whether the text contains what starts as a call to
// a known verb but never forms a complete expression.
func (p *Parser) looksMalformed(raw string) bool {
	for _, m := range verbCallRe.FindAllStringSubmatch(raw, -1) {
		if p.verbs.Contains(Verb(strings.ToUpper(m[1]))) {
			return true
		}
	}
	return false
}

func unquote(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	escaped := false
	for _, r := range s {
		if escaped {
			b.WriteRune(r)
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
