//
// Copyright (C) 2026 The agentbench Authors. All rights reserved.
//
// agentbench is licensed under the Apache License Version 2.0.
//
//

package script

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droidworld/agentbench/policy"
)

func TestScriptPlaysInOrder(t *testing.T) {
	ctx := context.Background()
	p := New(`CLICK("Apps")`, `CLICK("Slack")`)

	got, err := p.NextAction(ctx, "step 1")
	require.NoError(t, err)
	assert.Equal(t, `CLICK("Apps")`, got)

	got, err = p.NextAction(ctx, "step 2")
	require.NoError(t, err)
	assert.Equal(t, `CLICK("Slack")`, got)

	// The final response repeats once the script is exhausted.
	got, err = p.NextAction(ctx, "step 3")
	require.NoError(t, err)
	assert.Equal(t, `CLICK("Slack")`, got)
}

func TestScriptReset(t *testing.T) {
	ctx := context.Background()
	p := New("a", "b")
	_, err := p.NextAction(ctx, "")
	require.NoError(t, err)
	p.Reset()
	got, err := p.NextAction(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "a", got)
}

func TestScriptEmpty(t *testing.T) {
	p := New()
	_, err := p.NextAction(context.Background(), "")
	assert.ErrorIs(t, err, policy.ErrUnavailable)
}

func TestScriptCancelledContext(t *testing.T) {
	p := New("a")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.NextAction(ctx, "")
	assert.ErrorIs(t, err, policy.ErrUnavailable)
}
