//
// Copyright (C) 2026 The agentbench Authors. All rights reserved.
//
// agentbench is licensed under the Apache License Version 2.0.
//
//

package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParserRoundTrip(t *testing.T) {
	parser := NewParser(DefaultVerbSet())
	actions := []Action{
		{Verb: VerbClick, Target: "Apps"},
		{Verb: VerbType, Target: "Search", Param: "slack"},
		{Verb: VerbSwipe, Target: "up"},
		{Verb: VerbLongClick, Target: "Slack"},
		{Verb: VerbBack},
		{Verb: VerbClick, Target: `Element "quoted"`},
		{Verb: VerbType, Target: "Path", Param: `a\b`},
	}
	for _, want := range actions {
		got, failure := parser.Parse(want.String())
		require.Nil(t, failure, "parse %q", want.String())
		assert.Equal(t, want, *got)
		assert.Equal(t, want.String(), got.String())
	}
}

func TestParserToleratesReasoningText(t *testing.T) {
	parser := NewParser(DefaultVerbSet())
	raw := "The goal is to uninstall Slack. The Apps entry leads to the app list,\n" +
		"so the next step is to open it.\n\nAction: CLICK(\"Apps\")"
	got, failure := parser.Parse(raw)
	require.Nil(t, failure)
	assert.Equal(t, Action{Verb: VerbClick, Target: "Apps"}, *got)
}

func TestParserPicksLastExpression(t *testing.T) {
	parser := NewParser(DefaultVerbSet())
	raw := `First I considered CLICK("Settings") but the better move is CLICK("Apps").`
	got, failure := parser.Parse(raw)
	require.Nil(t, failure)
	assert.Equal(t, "Apps", got.Target)
}

func TestParserLowercaseVerb(t *testing.T) {
	parser := NewParser(DefaultVerbSet())
	got, failure := parser.Parse(`click("Apps")`)
	require.Nil(t, failure)
	assert.Equal(t, VerbClick, got.Verb)
}

func TestParserFailures(t *testing.T) {
	parser := NewParser(DefaultVerbSet())
	tests := map[string]struct {
		raw    string
		reason string
	}{
		"no action":        {"I am not sure what to do here.", "no action expression found"},
		"unknown verb":     {`UNINSTALL("Slack")`, "verb not in the configured verb set"},
		"malformed quotes": {`CLICK("Apps`, "malformed action expression"},
		"missing target":   {`CLICK()`, "verb CLICK requires a target"},
		"empty":            {"", "no action expression found"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, failure := parser.Parse(tt.raw)
			require.Nil(t, got)
			require.NotNil(t, failure)
			assert.Equal(t, tt.reason, failure.Reason)
			assert.Equal(t, tt.raw, failure.Raw)
			assert.Contains(t, failure.Error(), tt.reason)
		})
	}
}

func TestParserSkipsUnknownVerbBeforeKnown(t *testing.T) {
	parser := NewParser(DefaultVerbSet())
	// The last expression has an unknown verb; the parser falls back to the
	// preceding well-formed one.
	got, failure := parser.Parse(`CLICK("Apps") then UNINSTALL("Slack")`)
	require.Nil(t, failure)
	assert.Equal(t, "Apps", got.Target)
}
