//
// Copyright (C) 2026 The agentbench Authors. All rights reserved.
//
// agentbench is licensed under the Apache License Version 2.0.
//
//

// Package result defines the record types produced by episode runs and the
// Manager interface for persisting them.
package result

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a batch result does not exist.
var ErrNotFound = errors.New("batch result not found")

// State describes the lifecycle of an episode run.
type State int

const (
	// StateNotStarted means the episode has not begun executing.
	StateNotStarted State = iota
	// StateRunning means the episode is currently executing.
	StateRunning
	// StateSucceeded means the episode met its success criterion.
	StateSucceeded
	// StateFailed means the episode completed without meeting its
	// success criterion.
	StateFailed
	// StateTimedOut means the step budget was exhausted before the
	// episode could complete.
	StateTimedOut
	// StateAborted means the run stopped for an operational reason,
	// such as policy unavailability or cancellation.
	StateAborted
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateRunning:
		return "running"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	case StateTimedOut:
		return "timed_out"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state is a final outcome.
func (s State) Terminal() bool {
	switch s {
	case StateSucceeded, StateFailed, StateTimedOut, StateAborted:
		return true
	default:
		return false
	}
}

// FailureCategory labels why a step deviated from the ground truth.
type FailureCategory string

const (
	// FailureHallucination means the action referenced a target absent
	// from the observed UI.
	FailureHallucination FailureCategory = "hallucination"
	// FailureWrongTarget means the action was affordance-valid but did
	// not match the expected step.
	FailureWrongTarget FailureCategory = "wrong_target"
	// FailureMalformedAction means the response could not be parsed
	// into an action.
	FailureMalformedAction FailureCategory = "malformed_action"
	// FailureTimeout means the episode ran out of step budget.
	FailureTimeout FailureCategory = "timeout"
	// FailurePolicyError means the policy was unavailable after retries.
	FailurePolicyError FailureCategory = "policy_error"
)

// StepRecord captures one step of an episode run.
type StepRecord struct {
	// Index is the zero-based step position within the episode.
	Index int `json:"index"`
	// App and UIElements snapshot the observation the step ran against.
	App        string   `json:"app,omitempty"`
	UIElements []string `json:"uiElements,omitempty"`
	// Prompt is the fully assembled prompt sent to the policy.
	Prompt string `json:"prompt,omitempty"`
	// RawResponse is the unmodified policy output.
	RawResponse string `json:"rawResponse"`
	// ParsedAction is the canonical form of the parsed action, empty
	// when parsing failed.
	ParsedAction string `json:"parsedAction,omitempty"`
	// ParseError holds the parse failure reason, if any.
	ParseError string `json:"parseError,omitempty"`
	// Verdict is the affordance verdict for the parsed action.
	Verdict string `json:"verdict,omitempty"`
	// GroundTruth is the canonical form of the expected action.
	GroundTruth string `json:"groundTruth"`
	// Correct reports whether the parsed action matched the ground truth.
	Correct bool `json:"correct"`
	// Failure categorizes the mismatch when Correct is false.
	Failure FailureCategory `json:"failure,omitempty"`
	// Latency is the wall-clock time spent on the policy call.
	Latency time.Duration `json:"latency,omitempty"`
}

// EpisodeResult is the record of one episode run.
type EpisodeResult struct {
	// EpisodeID identifies the episode that was run.
	EpisodeID string `json:"episodeId"`
	// Variant names the policy configuration that produced this run.
	Variant string `json:"variant,omitempty"`
	// Goal is the natural-language goal of the episode.
	Goal string `json:"goal"`
	// State is the terminal state of the run.
	State State `json:"state"`
	// Steps holds one record per executed step.
	Steps []StepRecord `json:"steps"`
	// CorrectSteps is the number of steps matching the ground truth.
	CorrectSteps int `json:"correctSteps"`
	// TotalSteps is the number of ground-truth steps in the episode.
	TotalSteps int `json:"totalSteps"`
	// StepAccuracy is CorrectSteps over TotalSteps.
	StepAccuracy float64 `json:"stepAccuracy"`
	// FailurePoints lists the indices of steps that deviated.
	FailurePoints []int `json:"failurePoints,omitempty"`
	// Error holds the operational error for aborted runs.
	Error string `json:"error,omitempty"`
	// StartTime and EndTime bound the run.
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// Succeeded reports whether the run met its success criterion.
func (r *EpisodeResult) Succeeded() bool {
	return r.State == StateSucceeded
}

// BatchResult groups the episode results of one benchmark invocation.
type BatchResult struct {
	// BatchID uniquely identifies the invocation.
	BatchID string `json:"batchId"`
	// Results holds every episode result produced by the batch.
	Results []EpisodeResult `json:"results"`
	// Report is the aggregate view computed over Results.
	Report *AggregateReport `json:"report,omitempty"`
	// StartTime and EndTime bound the batch.
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// Manager persists batch results.
type Manager interface {
	// Save stores a batch result, replacing any batch with the same ID.
	Save(ctx context.Context, batch *BatchResult) error
	// Get returns the batch with the given ID, or ErrNotFound.
	Get(ctx context.Context, batchID string) (*BatchResult, error)
	// List returns the stored batch IDs in ascending order.
	List(ctx context.Context) ([]string, error)
	// Close releases resources held by the manager.
	Close() error
}
