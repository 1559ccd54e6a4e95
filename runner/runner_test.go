//
// Copyright (C) 2026 The agentbench Authors. All rights reserved.
//
// agentbench is licensed under the Apache License Version 2.0.
//
//

package runner

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droidworld/agentbench/action"
	"github.com/droidworld/agentbench/affordance"
	"github.com/droidworld/agentbench/episode"
	"github.com/droidworld/agentbench/policy"
	"github.com/droidworld/agentbench/policy/script"
	"github.com/droidworld/agentbench/prompt"
	"github.com/droidworld/agentbench/result"
)

func openSlackEpisode() *episode.Episode {
	return &episode.Episode{
		EpisodeID: "open-slack",
		Goal:      "Open the Slack app",
		Steps: []episode.Step{
			{
				Observation: episode.Observation{
					App:        "home",
					UIElements: []string{"Apps", "Search", "Battery"},
				},
				GroundTruth: action.Action{Verb: action.VerbClick, Target: "Apps"},
			},
			{
				Observation: episode.Observation{
					App:        "app_drawer",
					UIElements: []string{"Slack", "Maps", "Camera"},
				},
				GroundTruth: action.Action{Verb: action.VerbClick, Target: "Slack"},
			},
		},
	}
}

func newTestRunner(t *testing.T, p policy.Policy, opt ...Option) *Runner {
	t.Helper()
	verbs := action.DefaultVerbSet()
	r, err := New(
		p,
		prompt.NewAssembler(prompt.Base()),
		action.NewParser(verbs),
		affordance.New(verbs),
		append([]Option{WithBackoff(time.Millisecond, time.Millisecond)}, opt...)...,
	)
	require.NoError(t, err)
	return r
}

func TestRunGoldPolicy(t *testing.T) {
	r := newTestRunner(t, script.New(
		`I should open the app drawer.`+"\n"+`CLICK("Apps")`,
		`CLICK("Slack")`,
	))
	res, err := r.Run(context.Background(), openSlackEpisode())
	require.NoError(t, err)

	assert.Equal(t, result.StateSucceeded, res.State)
	assert.Equal(t, 2, res.CorrectSteps)
	assert.Equal(t, 1.0, res.StepAccuracy)
	assert.Empty(t, res.FailurePoints)
	require.Len(t, res.Steps, 2)
	assert.Equal(t, `CLICK("Apps")`, res.Steps[0].ParsedAction)
	assert.True(t, res.Steps[0].Correct)
}

func TestRunGarbagePolicy(t *testing.T) {
	r := newTestRunner(t, script.New("I have no idea what to do here."))
	res, err := r.Run(context.Background(), openSlackEpisode())
	require.NoError(t, err)

	assert.Equal(t, result.StateFailed, res.State)
	assert.Equal(t, 0.0, res.StepAccuracy)
	require.Len(t, res.Steps, 2)
	for _, step := range res.Steps {
		assert.Equal(t, result.FailureMalformedAction, step.Failure)
		assert.NotEmpty(t, step.ParseError)
	}
	assert.Equal(t, []int{0, 1}, res.FailurePoints)
}

func TestRunHallucination(t *testing.T) {
	r := newTestRunner(t, script.New(`CLICK("Email")`, `CLICK("Slack")`))
	res, err := r.Run(context.Background(), openSlackEpisode())
	require.NoError(t, err)

	assert.Equal(t, result.StateFailed, res.State)
	require.Len(t, res.Steps, 2)
	assert.Equal(t, result.FailureHallucination, res.Steps[0].Failure)
	assert.Equal(t, "invalid_target", res.Steps[0].Verdict)
	assert.True(t, res.Steps[1].Correct)
	assert.Equal(t, []int{0}, res.FailurePoints)
	assert.Equal(t, 0.5, res.StepAccuracy)
}

func TestRunWrongTarget(t *testing.T) {
	// "Search" is on screen, so the mismatch is a wrong target rather
	// than a hallucination.
	r := newTestRunner(t, script.New(`CLICK("Search")`, `CLICK("Slack")`))
	res, err := r.Run(context.Background(), openSlackEpisode())
	require.NoError(t, err)

	assert.Equal(t, result.StateFailed, res.State)
	assert.Equal(t, result.FailureWrongTarget, res.Steps[0].Failure)
	assert.Equal(t, "valid", res.Steps[0].Verdict)
}

func TestRunMaxStepsTimesOut(t *testing.T) {
	ep := openSlackEpisode()
	for len(ep.Steps) < 6 {
		ep.Steps = append(ep.Steps, ep.Steps[1])
	}
	r := newTestRunner(t, script.New(`CLICK("Apps")`), WithMaxSteps(5))
	res, err := r.Run(context.Background(), ep)
	require.NoError(t, err)

	assert.Equal(t, result.StateTimedOut, res.State)
	assert.Len(t, res.Steps, 5)
	assert.Equal(t, 6, res.TotalSteps)
}

func TestRunPolicyUnavailableAborts(t *testing.T) {
	calls := int32(0)
	p := policy.Func(func(ctx context.Context, prompt string) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "", policy.ErrUnavailable
	})
	r := newTestRunner(t, p, WithMaxRetries(2))
	res, err := r.Run(context.Background(), openSlackEpisode())
	require.NoError(t, err)

	assert.Equal(t, result.StateAborted, res.State)
	assert.NotEmpty(t, res.Error)
	require.Len(t, res.Steps, 1)
	assert.Equal(t, result.FailurePolicyError, res.Steps[0].Failure)
	// Initial attempt plus two retries.
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestRunNonRetryableErrorAbortsImmediately(t *testing.T) {
	calls := int32(0)
	p := policy.Func(func(ctx context.Context, prompt string) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "", errors.New("invalid api key")
	})
	r := newTestRunner(t, p, WithMaxRetries(5))
	res, err := r.Run(context.Background(), openSlackEpisode())
	require.NoError(t, err)

	assert.Equal(t, result.StateAborted, res.State)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRunReprompt(t *testing.T) {
	r := newTestRunner(t, script.New(
		"Let me think about this first.",
		`CLICK("Apps")`,
		`CLICK("Slack")`,
	), WithParseFailureMode(ParseFailureReprompt))
	res, err := r.Run(context.Background(), openSlackEpisode())
	require.NoError(t, err)

	assert.Equal(t, result.StateSucceeded, res.State)
	assert.Equal(t, 2, res.CorrectSteps)
}

func TestRunFailEpisodeMode(t *testing.T) {
	r := newTestRunner(t, script.New("nonsense"), WithParseFailureMode(ParseFailureFailEpisode))
	res, err := r.Run(context.Background(), openSlackEpisode())
	require.NoError(t, err)

	assert.Equal(t, result.StateFailed, res.State)
	assert.Len(t, res.Steps, 1)
}

func TestRunFinalStepCriterion(t *testing.T) {
	r := newTestRunner(t, script.New(`CLICK("Search")`, `CLICK("Slack")`),
		WithSuccessCriterion(FinalStepMatch))
	res, err := r.Run(context.Background(), openSlackEpisode())
	require.NoError(t, err)

	assert.Equal(t, result.StateSucceeded, res.State)
	assert.Equal(t, 0.5, res.StepAccuracy)
}

func TestRunCancelledContext(t *testing.T) {
	r := newTestRunner(t, script.New(`CLICK("Apps")`))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := r.Run(ctx, openSlackEpisode())
	require.NoError(t, err)

	assert.Equal(t, result.StateAborted, res.State)
	assert.Empty(t, res.Steps)
}

func TestRunInvalidEpisode(t *testing.T) {
	r := newTestRunner(t, script.New(`CLICK("Apps")`))
	_, err := r.Run(context.Background(), &episode.Episode{EpisodeID: "empty"})
	assert.Error(t, err)
	_, err = r.Run(context.Background(), nil)
	assert.Error(t, err)
}

func TestRunVariantTag(t *testing.T) {
	r := newTestRunner(t, script.New(`CLICK("Apps")`, `CLICK("Slack")`), WithVariant("gpt-4o/base"))
	res, err := r.Run(context.Background(), openSlackEpisode())
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o/base", res.Variant)
}

func TestNewValidation(t *testing.T) {
	verbs := action.DefaultVerbSet()
	asm := prompt.NewAssembler(prompt.Base())
	parser := action.NewParser(verbs)
	validator := affordance.New(verbs)

	_, err := New(nil, asm, parser, validator)
	assert.Error(t, err)
	_, err = New(script.New(), nil, parser, validator)
	assert.Error(t, err)
	_, err = New(script.New(), asm, nil, validator)
	assert.Error(t, err)
	_, err = New(script.New(), asm, parser, nil)
	assert.Error(t, err)
}
