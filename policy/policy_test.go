//
// Copyright (C) 2026 The agentbench Authors. All rights reserved.
//
// agentbench is licensed under the Apache License Version 2.0.
//
//

package policy

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestFuncAdapter(t *testing.T) {
	p := Func(func(ctx context.Context, prompt string) (string, error) {
		return "echo: " + prompt, nil
	})
	got, err := p.NextAction(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "echo: hi", got)
}

func TestRateLimitedPassesThrough(t *testing.T) {
	inner := Func(func(ctx context.Context, prompt string) (string, error) {
		return "ok", nil
	})
	limited := RateLimited(inner, rate.NewLimiter(rate.Inf, 1))
	got, err := limited.NextAction(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
}

func TestRateLimitedCancelledContext(t *testing.T) {
	inner := Func(func(ctx context.Context, prompt string) (string, error) {
		t.Fatal("inner policy must not be called")
		return "", nil
	})
	// A zero-burst limiter never admits a call; cancellation must surface
	// as ErrUnavailable instead of blocking forever.
	limited := RateLimited(inner, rate.NewLimiter(rate.Every(time.Hour), 0))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := limited.NextAction(ctx, "p")
	assert.ErrorIs(t, err, ErrUnavailable)
}
