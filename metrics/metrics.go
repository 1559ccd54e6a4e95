//
// Copyright (C) 2026 The agentbench Authors. All rights reserved.
//
// agentbench is licensed under the Apache License Version 2.0.
//
//

// Package metrics aggregates episode results into per-variant and
// overall summaries. Aggregation is order-independent so results can be
// ingested from concurrent workers as they finish.
package metrics

import (
	"sort"
	"sync"

	"github.com/droidworld/agentbench/affordance"
	"github.com/droidworld/agentbench/result"
)

// Aggregator accumulates episode results. The zero value is not usable;
// use NewAggregator.
type Aggregator struct {
	mu       sync.Mutex
	variants map[string]*bucket
	overall  bucket
}

// bucket holds running sums for one variant.
type bucket struct {
	episodes        int
	successes       int
	accuracySum     float64
	parsedActions   int
	validActions    int
	fuzzyActions    int
	states          map[string]int
	failuresByClass map[result.FailureCategory]int
}

func newBucket() *bucket {
	return &bucket{
		states:          make(map[string]int),
		failuresByClass: make(map[result.FailureCategory]int),
	}
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		variants: make(map[string]*bucket),
		overall:  *newBucket(),
	}
}

// Ingest folds one episode result into the running aggregates. Nil
// results are ignored.
func (a *Aggregator) Ingest(res *result.EpisodeResult) {
	if res == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	b, ok := a.variants[res.Variant]
	if !ok {
		b = newBucket()
		a.variants[res.Variant] = b
	}
	b.add(res)
	a.overall.add(res)
}

func (b *bucket) add(res *result.EpisodeResult) {
	b.episodes++
	if res.Succeeded() {
		b.successes++
	}
	b.accuracySum += res.StepAccuracy
	b.states[res.State.String()]++
	for _, step := range res.Steps {
		if step.Failure != "" {
			b.failuresByClass[step.Failure]++
		}
		if step.Verdict == "" {
			continue
		}
		b.parsedActions++
		switch step.Verdict {
		case affordance.VerdictValid.String():
			b.validActions++
		case affordance.VerdictValidFuzzy.String():
			b.validActions++
			b.fuzzyActions++
		}
	}
	// Terminal-state failures are not tied to a single step record.
	// Aborts that already produced a policy-error step are not counted
	// twice.
	switch res.State {
	case result.StateTimedOut:
		b.failuresByClass[result.FailureTimeout]++
	case result.StateAborted:
		if !hasStepFailure(res, result.FailurePolicyError) {
			b.failuresByClass[result.FailurePolicyError]++
		}
	}
}

func hasStepFailure(res *result.EpisodeResult, category result.FailureCategory) bool {
	for _, step := range res.Steps {
		if step.Failure == category {
			return true
		}
	}
	return false
}

// Snapshot computes the aggregate report from the results ingested so
// far. The aggregator remains usable afterwards.
func (a *Aggregator) Snapshot() *result.AggregateReport {
	a.mu.Lock()
	defer a.mu.Unlock()
	report := &result.AggregateReport{
		Overall: a.overall.summarize("overall"),
	}
	names := make([]string, 0, len(a.variants))
	for name := range a.variants {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		report.Variants = append(report.Variants, a.variants[name].summarize(name))
	}
	return report
}

func (b *bucket) summarize(name string) result.VariantSummary {
	summary := result.VariantSummary{
		Variant:   name,
		Episodes:  b.episodes,
		Successes: b.successes,
	}
	if b.episodes > 0 {
		summary.SuccessRate = float64(b.successes) / float64(b.episodes)
		summary.StepAccuracy = b.accuracySum / float64(b.episodes)
	}
	if b.parsedActions > 0 {
		summary.ActionValidity = float64(b.validActions) / float64(b.parsedActions)
		summary.FuzzyRate = float64(b.fuzzyActions) / float64(b.parsedActions)
	}
	if len(b.states) > 0 {
		summary.States = make(map[string]int, len(b.states))
		for state, count := range b.states {
			summary.States[state] = count
		}
	}
	if len(b.failuresByClass) > 0 {
		summary.Failures = make(map[result.FailureCategory]int, len(b.failuresByClass))
		for category, count := range b.failuresByClass {
			summary.Failures[category] = count
		}
	}
	return summary
}
