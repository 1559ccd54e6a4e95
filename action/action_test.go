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
)

func TestActionString(t *testing.T) {
	tests := map[string]struct {
		action Action
		want   string
	}{
		"target only":      {Action{Verb: VerbClick, Target: "Apps"}, `CLICK("Apps")`},
		"target and param": {Action{Verb: VerbType, Target: "Search", Param: "slack"}, `TYPE("Search", "slack")`},
		"targetless":       {Action{Verb: VerbBack}, `BACK()`},
		"escaped quotes":   {Action{Verb: VerbClick, Target: `Say "hi"`}, `CLICK("Say \"hi\"")`},
		"escaped backslash": {
			Action{Verb: VerbType, Target: "Path", Param: `C:\tmp`},
			`TYPE("Path", "C:\\tmp")`,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.action.String())
		})
	}
}

func TestActionEqual(t *testing.T) {
	a := Action{Verb: VerbClick, Target: "Apps"}
	assert.True(t, a.Equal(Action{Verb: VerbClick, Target: "apps"}, false))
	assert.False(t, a.Equal(Action{Verb: VerbClick, Target: "apps"}, true))
	assert.True(t, a.Equal(Action{Verb: VerbClick, Target: "Apps"}, true))
	assert.False(t, a.Equal(Action{Verb: VerbLongClick, Target: "Apps"}, false))
	assert.False(t, a.Equal(Action{Verb: VerbClick, Target: "Apps", Param: "x"}, false))
}

func TestDefaultVerbSet(t *testing.T) {
	verbs := DefaultVerbSet()
	assert.True(t, verbs.Contains(VerbClick))
	assert.True(t, verbs.Contains(VerbBack))
	assert.True(t, verbs.Targetless(VerbBack))
	assert.False(t, verbs.Targetless(VerbClick))
	assert.False(t, verbs.Contains(Verb("UNINSTALL")))
	assert.Len(t, verbs.Verbs(), 6)
}

func TestVerbSetExtension(t *testing.T) {
	verbs := DefaultVerbSet()
	verbs[Verb("HOME")] = VerbSpec{Targetless: true}
	assert.True(t, verbs.Contains(Verb("HOME")))
	assert.True(t, verbs.Targetless(Verb("HOME")))
}
