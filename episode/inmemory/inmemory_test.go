//
// Copyright (C) 2026 The agentbench Authors. All rights reserved.
//
// agentbench is licensed under the Apache License Version 2.0.
//
//

package inmemory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droidworld/agentbench/action"
	"github.com/droidworld/agentbench/episode"
)

func newEpisode(id string) *episode.Episode {
	return &episode.Episode{
		EpisodeID: id,
		Goal:      "Open the calculator",
		Steps: []episode.Step{
			{
				Observation: episode.Observation{App: "Home", UIElements: []string{"Calculator", "Chrome"}},
				GroundTruth: action.Action{Verb: action.VerbClick, Target: "Calculator"},
			},
		},
	}
}

func TestManagerPutGet(t *testing.T) {
	ctx := context.Background()
	m := New()
	defer m.Close()

	require.NoError(t, m.Put(ctx, newEpisode("ep1")))
	got, err := m.Get(ctx, "ep1")
	require.NoError(t, err)
	assert.Equal(t, newEpisode("ep1"), got)

	// Stored episodes are isolated from caller mutation.
	got.Steps[0].Observation.UIElements[0] = "mutated"
	again, err := m.Get(ctx, "ep1")
	require.NoError(t, err)
	assert.Equal(t, "Calculator", again.Steps[0].Observation.UIElements[0])
}

func TestManagerGetMissing(t *testing.T) {
	m := New()
	_, err := m.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, episode.ErrNotFound)
}

func TestManagerListOrdered(t *testing.T) {
	ctx := context.Background()
	m := New()
	require.NoError(t, m.Put(ctx, newEpisode("b")))
	require.NoError(t, m.Put(ctx, newEpisode("a")))
	episodes, err := m.List(ctx)
	require.NoError(t, err)
	require.Len(t, episodes, 2)
	assert.Equal(t, "a", episodes[0].EpisodeID)
	assert.Equal(t, "b", episodes[1].EpisodeID)
}

func TestManagerDelete(t *testing.T) {
	ctx := context.Background()
	m := New()
	require.NoError(t, m.Put(ctx, newEpisode("ep1")))
	require.NoError(t, m.Delete(ctx, "ep1"))
	assert.ErrorIs(t, m.Delete(ctx, "ep1"), episode.ErrNotFound)
}

func TestManagerInvalidInput(t *testing.T) {
	ctx := context.Background()
	m := New()
	assert.Error(t, m.Put(ctx, nil))
	assert.Error(t, m.Put(ctx, &episode.Episode{}))
	_, err := m.Get(ctx, "")
	assert.Error(t, err)
}
