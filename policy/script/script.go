//
// Copyright (C) 2026 The agentbench Authors. All rights reserved.
//
// agentbench is licensed under the Apache License Version 2.0.
//
//

// Package script provides a deterministic scripted policy. It serves tests
// and human-authored baselines: responses are played back in order.
package script

import (
	"context"
	"fmt"
	"sync"

	"github.com/droidworld/agentbench/policy"
)

var _ policy.Policy = (*Policy)(nil)

// Policy replays a fixed list of responses. Once the list is exhausted the
// final response repeats, so a single-response script answers every step.
type Policy struct {
	mu        sync.Mutex
	responses []string
	idx       int
}

// New creates a scripted policy from the given responses.
func New(responses ...string) *Policy {
	return &Policy{responses: responses}
}

// NextAction returns the next scripted response. A script with no responses
// reports the policy as unavailable.
func (p *Policy) NextAction(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", policy.ErrUnavailable, err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.responses) == 0 {
		return "", fmt.Errorf("%w: script has no responses", policy.ErrUnavailable)
	}
	resp := p.responses[p.idx]
	if p.idx < len(p.responses)-1 {
		p.idx++
	}
	return resp, nil
}

// Reset rewinds the script to its first response.
func (p *Policy) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.idx = 0
}
