//
// Copyright (C) 2026 The agentbench Authors. All rights reserved.
//
// agentbench is licensed under the Apache License Version 2.0.
//
//

package local

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droidworld/agentbench/action"
	"github.com/droidworld/agentbench/episode"
)

func newEpisode(id string) *episode.Episode {
	return &episode.Episode{
		EpisodeID: id,
		Goal:      "Uninstall the Slack app",
		Steps: []episode.Step{
			{
				Observation: episode.Observation{
					App:        "Settings",
					UIElements: []string{"Apps", "Search", "Battery"},
					StateText:  "Cookies ✓",
				},
				GroundTruth: action.Action{Verb: action.VerbClick, Target: "Apps"},
			},
			{
				Observation: episode.Observation{App: "Apps", UIElements: []string{"Slack", "Chrome"}},
				GroundTruth: action.Action{Verb: action.VerbLongClick, Target: "Slack"},
			},
		},
	}
}

func TestManagerRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := New(t.TempDir(), action.DefaultVerbSet())
	defer m.Close()

	want := newEpisode("uninstall_slack_001")
	require.NoError(t, m.Put(ctx, want))
	got, err := m.Get(ctx, "uninstall_slack_001")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestManagerGetMissing(t *testing.T) {
	m := New(t.TempDir(), action.DefaultVerbSet())
	_, err := m.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, episode.ErrNotFound)
}

func TestManagerListSkipsMalformed(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	m := New(dir, action.DefaultVerbSet())
	require.NoError(t, m.Put(ctx, newEpisode("good")))

	// Unparsable ground truth is bad episode data, skipped on List.
	bad := `{"goal":"g","steps":[{"observation":{"app":"Home","ui_elements":["A"]},"ground_truth":"UNINSTALL(\"Slack\")"}]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.episode.json"), []byte(bad), 0o644))
	// Files without the episode suffix are ignored entirely.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	episodes, err := m.List(ctx)
	require.NoError(t, err)
	require.Len(t, episodes, 1)
	assert.Equal(t, "good", episodes[0].EpisodeID)

	_, err = m.Get(ctx, "bad")
	assert.ErrorIs(t, err, episode.ErrBadEpisodeData)
}

func TestManagerListEmptyDir(t *testing.T) {
	m := New(filepath.Join(t.TempDir(), "missing"), action.DefaultVerbSet())
	episodes, err := m.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, episodes)
}

func TestManagerIDFromFilename(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	raw := `{"goal":"Open calculator","steps":[{"observation":{"app":"Home","ui_elements":["Calculator"]},"ground_truth":"CLICK(\"Calculator\")"}]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "calc.episode.json"), []byte(raw), 0o644))
	m := New(dir, action.DefaultVerbSet())
	got, err := m.Get(ctx, "calc")
	require.NoError(t, err)
	assert.Equal(t, "calc", got.EpisodeID)
}

func TestManagerDelete(t *testing.T) {
	ctx := context.Background()
	m := New(t.TempDir(), action.DefaultVerbSet())
	require.NoError(t, m.Put(ctx, newEpisode("ep")))
	require.NoError(t, m.Delete(ctx, "ep"))
	assert.ErrorIs(t, m.Delete(ctx, "ep"), episode.ErrNotFound)
}
