//
// Copyright (C) 2026 The agentbench Authors. All rights reserved.
//
// agentbench is licensed under the Apache License Version 2.0.
//
//

// Package prompt assembles the text sent to a policy from a goal, the
// current observation and optional few-shot or history context.
package prompt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/droidworld/agentbench/action"
	"github.com/droidworld/agentbench/episode"
)

// Assembler renders prompts from a template. It is the engine's only
// input-shaping point: the prompt a policy receives comes from here and
// nowhere else.
type Assembler struct {
	tmpl Template
}

// NewAssembler creates an assembler for the given template.
func NewAssembler(tmpl Template) *Assembler {
	return &Assembler{tmpl: tmpl}
}

// TemplateName returns the name of the underlying template.
func (a *Assembler) TemplateName() string { return a.tmpl.Name }

// Assemble produces the exact prompt text for one step.
func (a *Assembler) Assemble(goal string, obs episode.Observation, hist History) string {
	stateText := ""
	if obs.StateText != "" {
		stateText = "\n- State: " + obs.StateText
	}
	replacer := strings.NewReplacer(
		"{goal}", goal,
		"{app_name}", obs.App,
		"{ui_elements}", formatElements(obs.UIElements),
		"{state_text}", stateText,
		"{few_shot_block}", a.tmpl.FewShotBlock,
		"{history_block}", formatHistory(hist),
		"{reasoning_instruction}", a.tmpl.ReasoningInstruction,
	)
	return replacer.Replace(a.tmpl.Body)
}

func formatElements(elements []string) string {
	quoted := make([]string, len(elements))
	for i, e := range elements {
		quoted[i] = strconv.Quote(e)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func formatHistory(hist History) string {
	entries := hist.Entries()
	if len(entries) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\nPrevious steps:\n")
	for i, entry := range entries {
		fmt.Fprintf(&b, "%d. App: %s, Action: %s\n", i+1, entry.Observation.App, entry.Action.String())
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// HistoryEntry is one prior step kept for context.
type HistoryEntry struct {
	// Observation is the screen the action was taken from.
	Observation episode.Observation
	// Action is the action the policy produced.
	Action action.Action
	// Reasoning is the free-form text the policy emitted alongside.
	Reasoning string
}

// History is a bounded ordered sequence of prior steps. It has value
// semantics and a fixed window so prompts never grow without bound; a zero
// limit keeps it permanently empty.
type History struct {
	entries []HistoryEntry
	limit   int
}

// NewHistory creates a history bounded to limit entries.
func NewHistory(limit int) History {
	return History{limit: limit}
}

// Append returns a history extended with the entry, discarding the oldest
// entry once the window is full. The receiver is not modified.
func (h History) Append(entry HistoryEntry) History {
	if h.limit <= 0 {
		return h
	}
	entries := append(append([]HistoryEntry(nil), h.entries...), entry)
	if len(entries) > h.limit {
		entries = entries[len(entries)-h.limit:]
	}
	return History{entries: entries, limit: h.limit}
}

// Entries returns the retained entries, oldest first.
func (h History) Entries() []HistoryEntry { return h.entries }

// Len returns the number of retained entries.
func (h History) Len() int { return len(h.entries) }
