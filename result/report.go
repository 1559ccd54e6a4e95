//
// Copyright (C) 2026 The agentbench Authors. All rights reserved.
//
// agentbench is licensed under the Apache License Version 2.0.
//
//

package result

// VariantSummary aggregates the runs of a single policy configuration.
type VariantSummary struct {
	// Variant names the configuration.
	Variant string `json:"variant"`
	// Episodes is the number of episode runs aggregated.
	Episodes int `json:"episodes"`
	// Successes is the number of runs that met the success criterion.
	Successes int `json:"successes"`
	// SuccessRate is Successes over Episodes.
	SuccessRate float64 `json:"successRate"`
	// StepAccuracy is the mean per-episode step accuracy.
	StepAccuracy float64 `json:"stepAccuracy"`
	// ActionValidity is the share of parsed actions the affordance check
	// accepted, exactly or fuzzily.
	ActionValidity float64 `json:"actionValidity"`
	// FuzzyRate is the share of parsed actions accepted only fuzzily.
	FuzzyRate float64 `json:"fuzzyRate"`
	// States counts runs by terminal state name.
	States map[string]int `json:"states,omitempty"`
	// Failures counts deviations by category across all runs.
	Failures map[FailureCategory]int `json:"failures,omitempty"`
}

// AggregateReport is the cross-variant view of a benchmark batch.
type AggregateReport struct {
	// Variants holds one summary per configuration, sorted by name.
	Variants []VariantSummary `json:"variants"`
	// Overall aggregates every run regardless of variant.
	Overall VariantSummary `json:"overall"`
}

// Best returns the variant summary with the highest success rate,
// breaking ties on step accuracy. It returns false when the report
// holds no variants.
func (r *AggregateReport) Best() (VariantSummary, bool) {
	if len(r.Variants) == 0 {
		return VariantSummary{}, false
	}
	best := r.Variants[0]
	for _, v := range r.Variants[1:] {
		if v.SuccessRate > best.SuccessRate ||
			(v.SuccessRate == best.SuccessRate && v.StepAccuracy > best.StepAccuracy) {
			best = v
		}
	}
	return best, true
}
