//
// Copyright (C) 2026 The agentbench Authors. All rights reserved.
//
// agentbench is licensed under the Apache License Version 2.0.
//
//

// Package policy abstracts whatever produces raw action text for a prompt:
// a scripted stub, a recorded transcript, or a live model call. The episode
// runner has zero knowledge of which implementation is active.
package policy

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/time/rate"
)

// ErrUnavailable marks transient transport or availability failures,
// including per-call timeouts. Callers apply their retry policy when an
// error wraps it; any other error aborts immediately.
var ErrUnavailable = errors.New("policy unavailable")

// Policy produces the raw response text for a prompt. Implementations must
// honor ctx cancellation and wrap transient failures in ErrUnavailable.
type Policy interface {
	NextAction(ctx context.Context, prompt string) (string, error)
}

// Func adapts a plain function to the Policy interface.
type Func func(ctx context.Context, prompt string) (string, error)

// NextAction implements Policy.
func (f Func) NextAction(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// RateLimited wraps a policy with a shared rate limiter so concurrent
// episode runs cannot exceed a global call budget. The limiter may be shared
// across several wrapped policies.
func RateLimited(p Policy, limiter *rate.Limiter) Policy {
	return Func(func(ctx context.Context, prompt string) (string, error) {
		if err := limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("%w: wait for rate limiter: %v", ErrUnavailable, err)
		}
		return p.NextAction(ctx, prompt)
	})
}
