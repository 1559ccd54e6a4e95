//
// Copyright (C) 2026 The agentbench Authors. All rights reserved.
//
// agentbench is licensed under the Apache License Version 2.0.
//
//

// Package episode defines the immutable episode records the harness
// evaluates against and the managers that store them.
package episode

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/droidworld/agentbench/action"
)

// ErrBadEpisodeData marks a malformed input episode. It is fatal for that
// episode only: callers skip the episode with a logged reason and continue.
var ErrBadEpisodeData = errors.New("bad episode data")

// ErrNotFound is returned when no episode exists for the requested ID.
var ErrNotFound = errors.New("episode not found")

// Observation is a read-only snapshot of the current app screen.
type Observation struct {
	// App identifies the app or screen.
	App string `json:"app"`
	// UIElements lists the labels of the interactive elements on screen.
	// Labels are assumed unique within one observation.
	UIElements []string `json:"ui_elements"`
	// StateText carries optional free-form screen state, e.g. "Cookies ✓".
	StateText string `json:"state_text,omitempty"`
}

// Step pairs an observation with the ground-truth action taken from it.
type Step struct {
	// Observation is the screen snapshot presented to the policy.
	Observation Observation `json:"observation"`
	// GroundTruth is the oracle action for this step. Fixed at load time and
	// never altered by any policy output.
	GroundTruth action.Action `json:"ground_truth"`
}

// Episode is one goal plus its fixed sequence of observation and
// ground-truth action pairs. Episodes are never mutated after load; the
// engine operates on read-only views.
type Episode struct {
	// EpisodeID uniquely identifies this episode.
	EpisodeID string `json:"episode_id"`
	// Goal describes the task objective.
	Goal string `json:"goal"`
	// Steps is the ordered gold trace.
	Steps []Step `json:"steps"`
}

// Validate checks the episode for structural defects. All failures wrap
// ErrBadEpisodeData.
func (e *Episode) Validate(verbs action.VerbSet) error {
	if e.EpisodeID == "" {
		return fmt.Errorf("%w: episode id is empty", ErrBadEpisodeData)
	}
	if e.Goal == "" {
		return fmt.Errorf("%w: episode %s has no goal", ErrBadEpisodeData, e.EpisodeID)
	}
	if len(e.Steps) == 0 {
		return fmt.Errorf("%w: episode %s has no steps", ErrBadEpisodeData, e.EpisodeID)
	}
	for i, step := range e.Steps {
		if step.GroundTruth.Verb == "" {
			return fmt.Errorf("%w: episode %s step %d has no ground-truth action", ErrBadEpisodeData, e.EpisodeID, i)
		}
		if !verbs.Contains(step.GroundTruth.Verb) {
			return fmt.Errorf("%w: episode %s step %d uses verb %s outside the verb set",
				ErrBadEpisodeData, e.EpisodeID, i, step.GroundTruth.Verb)
		}
		if step.GroundTruth.Target == "" && !verbs.Targetless(step.GroundTruth.Verb) {
			return fmt.Errorf("%w: episode %s step %d ground truth misses a target", ErrBadEpisodeData, e.EpisodeID, i)
		}
	}
	return nil
}

// Clone returns a deep copy so stored episodes stay immutable.
func (e *Episode) Clone() *Episode {
	if e == nil {
		return nil
	}
	out := &Episode{EpisodeID: e.EpisodeID, Goal: e.Goal, Steps: make([]Step, len(e.Steps))}
	for i, step := range e.Steps {
		out.Steps[i] = Step{
			Observation: Observation{
				App:        step.Observation.App,
				UIElements: append([]string(nil), step.Observation.UIElements...),
				StateText:  step.Observation.StateText,
			},
			GroundTruth: step.GroundTruth,
		}
	}
	return out
}

// Manager defines the interface for episode storage backends.
type Manager interface {
	// Get returns the episode identified by episodeID.
	Get(ctx context.Context, episodeID string) (*Episode, error)
	// List returns all stored episodes.
	List(ctx context.Context) ([]*Episode, error)
	// Put stores an episode.
	Put(ctx context.Context, ep *Episode) error
	// Delete removes the episode identified by episodeID.
	Delete(ctx context.Context, episodeID string) error
	// Close closes the manager and releases owned resources.
	Close() error
}

// Sample returns up to n episodes drawn without replacement using rng.
// The input slice is not modified.
func Sample(episodes []*Episode, n int, rng *rand.Rand) []*Episode {
	if n >= len(episodes) {
		n = len(episodes)
	}
	if n <= 0 {
		return nil
	}
	perm := rng.Perm(len(episodes))
	out := make([]*Episode, 0, n)
	for _, idx := range perm[:n] {
		out = append(out, episodes[idx])
	}
	return out
}
