//
// Copyright (C) 2026 The agentbench Authors. All rights reserved.
//
// agentbench is licensed under the Apache License Version 2.0.
//
//

package replay

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droidworld/agentbench/policy"
)

func TestReplayInOrder(t *testing.T) {
	ctx := context.Background()
	p := New(&Transcript{Entries: []Entry{
		{Response: `CLICK("Apps")`},
		{Response: `CLICK("Slack")`},
	}})

	got, err := p.NextAction(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, `CLICK("Apps")`, got)

	got, err = p.NextAction(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, `CLICK("Slack")`, got)

	_, err = p.NextAction(ctx, "")
	assert.ErrorIs(t, err, policy.ErrUnavailable)
}

func TestRecordThenReplay(t *testing.T) {
	ctx := context.Background()
	inner := policy.Func(func(ctx context.Context, prompt string) (string, error) {
		return "response to " + prompt, nil
	})
	recorder := NewRecorder(inner)

	for _, prompt := range []string{"p1", "p2"} {
		_, err := recorder.NextAction(ctx, prompt)
		require.NoError(t, err)
	}

	path := filepath.Join(t.TempDir(), "run.transcript.json")
	require.NoError(t, recorder.Save(path))

	replayed, err := Load(path)
	require.NoError(t, err)
	got, err := replayed.NextAction(ctx, "ignored")
	require.NoError(t, err)
	assert.Equal(t, "response to p1", got)
}

func TestRecorderSkipsFailures(t *testing.T) {
	ctx := context.Background()
	inner := policy.Func(func(ctx context.Context, prompt string) (string, error) {
		return "", policy.ErrUnavailable
	})
	recorder := NewRecorder(inner)
	_, err := recorder.NextAction(ctx, "p")
	require.Error(t, err)
	assert.Empty(t, recorder.Transcript().Entries)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestTranscriptValidate(t *testing.T) {
	assert.ErrorIs(t, (&Transcript{}).Validate(), ErrEmptyTranscript)
	assert.NoError(t, (&Transcript{Entries: []Entry{{Response: "x"}}}).Validate())
}
