//
// Copyright (C) 2026 The agentbench Authors. All rights reserved.
//
// agentbench is licensed under the Apache License Version 2.0.
//
//

// Package report renders batch results as markdown for humans.
package report

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/droidworld/agentbench/result"
)

// failureOrder fixes the column layout of the failure breakdown.
var failureOrder = []result.FailureCategory{
	result.FailureHallucination,
	result.FailureWrongTarget,
	result.FailureMalformedAction,
	result.FailureTimeout,
	result.FailurePolicyError,
}

// Render writes a markdown report for the batch.
func Render(w io.Writer, batch *result.BatchResult) error {
	if batch == nil {
		return errors.New("batch result is nil")
	}
	if batch.Report == nil {
		return errors.New("batch has no aggregate report")
	}
	fmt.Fprintf(w, "# Benchmark Report\n\n")
	fmt.Fprintf(w, "Batch: `%s`\n", batch.BatchID)
	if !batch.StartTime.IsZero() {
		fmt.Fprintf(w, "Duration: %s\n", batch.EndTime.Sub(batch.StartTime).Round(time.Millisecond))
	}
	fmt.Fprintf(w, "Episodes evaluated: %d\n\n", batch.Report.Overall.Episodes)

	fmt.Fprintf(w, "## Results by variant\n\n")
	fmt.Fprintf(w, "| Variant | Episodes | Success rate | Step accuracy |\n")
	fmt.Fprintf(w, "|---|---|---|---|\n")
	for _, v := range batch.Report.Variants {
		fmt.Fprintf(w, "| %s | %d | %.1f%% | %.1f%% |\n",
			v.Variant, v.Episodes, v.SuccessRate*100, v.StepAccuracy*100)
	}
	overall := batch.Report.Overall
	fmt.Fprintf(w, "| **overall** | %d | %.1f%% | %.1f%% |\n\n",
		overall.Episodes, overall.SuccessRate*100, overall.StepAccuracy*100)

	if hasFailures(batch.Report) {
		fmt.Fprintf(w, "## Failure breakdown\n\n")
		fmt.Fprintf(w, "| Variant |")
		for _, category := range failureOrder {
			fmt.Fprintf(w, " %s |", category)
		}
		fmt.Fprintf(w, "\n|---|")
		for range failureOrder {
			fmt.Fprintf(w, "---|")
		}
		fmt.Fprintf(w, "\n")
		for _, v := range batch.Report.Variants {
			fmt.Fprintf(w, "| %s |", v.Variant)
			for _, category := range failureOrder {
				fmt.Fprintf(w, " %d |", v.Failures[category])
			}
			fmt.Fprintf(w, "\n")
		}
		fmt.Fprintf(w, "\n")
	}

	if best, ok := batch.Report.Best(); ok {
		fmt.Fprintf(w, "Best configuration: **%s** (%.1f%% success, %.1f%% step accuracy)\n",
			best.Variant, best.SuccessRate*100, best.StepAccuracy*100)
	}
	return nil
}

// RenderEpisodes writes a per-episode markdown table, worst first.
func RenderEpisodes(w io.Writer, batch *result.BatchResult) error {
	if batch == nil {
		return errors.New("batch result is nil")
	}
	results := append([]result.EpisodeResult(nil), batch.Results...)
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].StepAccuracy < results[j].StepAccuracy
	})
	fmt.Fprintf(w, "| Episode | Variant | State | Step accuracy | Failure points |\n")
	fmt.Fprintf(w, "|---|---|---|---|---|\n")
	for _, res := range results {
		fmt.Fprintf(w, "| %s | %s | %s | %.1f%% | %v |\n",
			res.EpisodeID, res.Variant, res.State, res.StepAccuracy*100, res.FailurePoints)
	}
	return nil
}

func hasFailures(report *result.AggregateReport) bool {
	for _, v := range report.Variants {
		if len(v.Failures) > 0 {
			return true
		}
	}
	return false
}
