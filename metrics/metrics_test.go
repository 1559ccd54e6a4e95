//
// Copyright (C) 2026 The agentbench Authors. All rights reserved.
//
// agentbench is licensed under the Apache License Version 2.0.
//
//

package metrics

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droidworld/agentbench/result"
)

func sampleResults() []*result.EpisodeResult {
	return []*result.EpisodeResult{
		{
			EpisodeID:    "ep-1",
			Variant:      "base",
			State:        result.StateSucceeded,
			StepAccuracy: 1.0,
		},
		{
			EpisodeID:    "ep-2",
			Variant:      "base",
			State:        result.StateFailed,
			StepAccuracy: 0.5,
			Steps: []result.StepRecord{
				{Index: 0, Correct: true, Verdict: "valid"},
				{Index: 1, Failure: result.FailureHallucination, Verdict: "invalid_target"},
			},
		},
		{
			EpisodeID:    "ep-1",
			Variant:      "few_shot",
			State:        result.StateSucceeded,
			StepAccuracy: 1.0,
		},
		{
			EpisodeID: "ep-3",
			Variant:   "few_shot",
			State:     result.StateAborted,
		},
	}
}

func TestSnapshot(t *testing.T) {
	agg := NewAggregator()
	for _, res := range sampleResults() {
		agg.Ingest(res)
	}

	report := agg.Snapshot()
	require.Len(t, report.Variants, 2)

	base := report.Variants[0]
	assert.Equal(t, "base", base.Variant)
	assert.Equal(t, 2, base.Episodes)
	assert.Equal(t, 1, base.Successes)
	assert.Equal(t, 0.5, base.SuccessRate)
	assert.Equal(t, 0.75, base.StepAccuracy)
	assert.Equal(t, 1, base.Failures[result.FailureHallucination])
	assert.Equal(t, 0.5, base.ActionValidity)
	assert.Equal(t, 0.0, base.FuzzyRate)
	assert.Equal(t, map[string]int{"succeeded": 1, "failed": 1}, base.States)

	fewShot := report.Variants[1]
	assert.Equal(t, "few_shot", fewShot.Variant)
	assert.Equal(t, 1, fewShot.Failures[result.FailurePolicyError])

	overall := report.Overall
	assert.Equal(t, 4, overall.Episodes)
	assert.Equal(t, 2, overall.Successes)
	assert.Equal(t, 0.5, overall.SuccessRate)
}

func TestSnapshotOrderIndependent(t *testing.T) {
	results := sampleResults()
	agg := NewAggregator()
	for _, res := range results {
		agg.Ingest(res)
	}
	want := agg.Snapshot()

	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 5; trial++ {
		shuffled := append([]*result.EpisodeResult(nil), results...)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		other := NewAggregator()
		for _, res := range shuffled {
			other.Ingest(res)
		}
		assert.Equal(t, want, other.Snapshot())
	}
}

func TestSnapshotEmpty(t *testing.T) {
	report := NewAggregator().Snapshot()
	assert.Empty(t, report.Variants)
	assert.Equal(t, 0, report.Overall.Episodes)
	assert.Equal(t, 0.0, report.Overall.SuccessRate)
}

func TestIngestNil(t *testing.T) {
	agg := NewAggregator()
	agg.Ingest(nil)
	assert.Equal(t, 0, agg.Snapshot().Overall.Episodes)
}

func TestSnapshotDoesNotReset(t *testing.T) {
	agg := NewAggregator()
	agg.Ingest(&result.EpisodeResult{Variant: "base", State: result.StateSucceeded, StepAccuracy: 1.0})
	_ = agg.Snapshot()
	agg.Ingest(&result.EpisodeResult{Variant: "base", State: result.StateFailed})
	assert.Equal(t, 2, agg.Snapshot().Overall.Episodes)
}
