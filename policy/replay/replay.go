//
// Copyright (C) 2026 The agentbench Authors. All rights reserved.
//
// agentbench is licensed under the Apache License Version 2.0.
//
//

// Package replay records policy transcripts and plays them back, so a prior
// run can be reproduced without touching the live model.
package replay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/droidworld/agentbench/policy"
)

// Entry is one recorded exchange.
type Entry struct {
	// Prompt is the prompt that was sent. Kept for inspection; playback
	// matches by order, not by prompt text.
	Prompt string `json:"prompt,omitempty"`
	// Response is the raw text the policy returned.
	Response string `json:"response"`
}

// Transcript is an ordered list of recorded exchanges.
type Transcript struct {
	// Entries holds the exchanges in call order.
	Entries []Entry `json:"entries"`
}

var _ policy.Policy = (*Policy)(nil)

// Policy replays a transcript entry by entry. Exhausting the transcript
// reports the policy as unavailable: the fixture no longer covers the run.
type Policy struct {
	mu      sync.Mutex
	entries []Entry
	idx     int
}

// New creates a replay policy from a transcript.
func New(transcript *Transcript) *Policy {
	if transcript == nil {
		return &Policy{}
	}
	return &Policy{entries: append([]Entry(nil), transcript.Entries...)}
}

// Load reads a transcript file and returns a replay policy for it.
func Load(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	var transcript Transcript
	if err := json.Unmarshal(data, &transcript); err != nil {
		return nil, fmt.Errorf("unmarshal transcript: %w", err)
	}
	return New(&transcript), nil
}

// NextAction returns the next recorded response.
func (p *Policy) NextAction(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", policy.ErrUnavailable, err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.idx >= len(p.entries) {
		return "", fmt.Errorf("%w: transcript exhausted after %d entries", policy.ErrUnavailable, len(p.entries))
	}
	resp := p.entries[p.idx].Response
	p.idx++
	return resp, nil
}

var _ policy.Policy = (*Recorder)(nil)

// Recorder wraps any policy and captures its exchanges into a transcript.
type Recorder struct {
	inner   policy.Policy
	mu      sync.Mutex
	entries []Entry
}

// NewRecorder creates a recorder around the inner policy.
func NewRecorder(inner policy.Policy) *Recorder {
	return &Recorder{inner: inner}
}

// NextAction delegates to the inner policy and records successful exchanges.
func (r *Recorder) NextAction(ctx context.Context, prompt string) (string, error) {
	resp, err := r.inner.NextAction(ctx, prompt)
	if err != nil {
		return "", err
	}
	r.mu.Lock()
	r.entries = append(r.entries, Entry{Prompt: prompt, Response: resp})
	r.mu.Unlock()
	return resp, nil
}

// Transcript returns a copy of the recorded exchanges so far.
func (r *Recorder) Transcript() *Transcript {
	r.mu.Lock()
	defer r.mu.Unlock()
	return &Transcript{Entries: append([]Entry(nil), r.entries...)}
}

// Save writes the recorded transcript to path, atomically.
func (r *Recorder) Save(path string) error {
	transcript := r.Transcript()
	data, err := json.MarshalIndent(transcript, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal transcript: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// ErrEmptyTranscript is kept for callers that want to distinguish an empty
// fixture from a missing file.
var ErrEmptyTranscript = errors.New("transcript is empty")

// Validate reports whether the transcript holds at least one entry.
func (t *Transcript) Validate() error {
	if t == nil || len(t.Entries) == 0 {
		return ErrEmptyTranscript
	}
	return nil
}
