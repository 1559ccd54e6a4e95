//
// Copyright (C) 2026 The agentbench Authors. All rights reserved.
//
// agentbench is licensed under the Apache License Version 2.0.
//
//

// Package runner executes single episodes against a policy: it assembles
// the prompt for each step, parses and validates the policy's response,
// compares it to the ground truth and produces an EpisodeResult.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/droidworld/agentbench/action"
	"github.com/droidworld/agentbench/affordance"
	"github.com/droidworld/agentbench/episode"
	"github.com/droidworld/agentbench/log"
	"github.com/droidworld/agentbench/policy"
	"github.com/droidworld/agentbench/prompt"
	"github.com/droidworld/agentbench/result"
)

// Runner drives one episode at a time through a policy.
type Runner struct {
	policy    policy.Policy
	assembler *prompt.Assembler
	parser    *action.Parser
	validator *affordance.Validator
	opts      options
}

// New creates a runner. The variant tag defaults to the assembler's
// template name.
func New(p policy.Policy, asm *prompt.Assembler, parser *action.Parser,
	validator *affordance.Validator, opt ...Option) (*Runner, error) {
	if p == nil {
		return nil, errors.New("policy is nil")
	}
	if asm == nil {
		return nil, errors.New("prompt assembler is nil")
	}
	if parser == nil {
		return nil, errors.New("action parser is nil")
	}
	if validator == nil {
		return nil, errors.New("affordance validator is nil")
	}
	opts := newOptions(opt...)
	if opts.variant == "" {
		opts.variant = asm.TemplateName()
	}
	return &Runner{
		policy:    p,
		assembler: asm,
		parser:    parser,
		validator: validator,
		opts:      *opts,
	}, nil
}

// Run executes the episode step by step and returns its result. The
// returned error is non-nil only for invalid input; operational
// failures such as an unavailable policy surface as an aborted result.
func (r *Runner) Run(ctx context.Context, ep *episode.Episode) (*result.EpisodeResult, error) {
	if ep == nil {
		return nil, errors.New("episode is nil")
	}
	if err := ep.Validate(r.parser.Verbs()); err != nil {
		return nil, fmt.Errorf("validate episode %s: %w", ep.EpisodeID, err)
	}

	res := &result.EpisodeResult{
		EpisodeID:  ep.EpisodeID,
		Variant:    r.opts.variant,
		Goal:       ep.Goal,
		State:      result.StateRunning,
		TotalSteps: len(ep.Steps),
		StartTime:  time.Now(),
	}
	budget := len(ep.Steps)
	if r.opts.maxSteps > 0 && r.opts.maxSteps < budget {
		budget = r.opts.maxSteps
	}
	hist := prompt.NewHistory(r.opts.historyWindow)

	for i := 0; i < budget; i++ {
		if err := ctx.Err(); err != nil {
			return r.finish(res, result.StateAborted, err), nil
		}
		step := ep.Steps[i]
		promptText := r.assembler.Assemble(ep.Goal, step.Observation, hist)
		record := result.StepRecord{
			Index:       i,
			App:         step.Observation.App,
			UIElements:  step.Observation.UIElements,
			GroundTruth: step.GroundTruth.String(),
		}
		if r.opts.recordPrompts {
			record.Prompt = promptText
		}

		raw, latency, err := r.askPolicy(ctx, promptText)
		record.Latency = latency
		if err != nil {
			record.Failure = result.FailurePolicyError
			res.Steps = append(res.Steps, record)
			res.FailurePoints = append(res.FailurePoints, i)
			return r.finish(res, result.StateAborted, err), nil
		}
		record.RawResponse = raw

		parsed, parseErr := r.parser.Parse(raw)
		if parseErr != nil && r.opts.parseFailureMode == ParseFailureReprompt {
			parsed, parseErr = r.reprompt(ctx, promptText, parseErr, &record)
		}
		if parseErr != nil {
			record.ParseError = parseErr.Reason
			record.Failure = result.FailureMalformedAction
			res.Steps = append(res.Steps, record)
			res.FailurePoints = append(res.FailurePoints, i)
			if r.opts.parseFailureMode == ParseFailureFailEpisode {
				return r.finish(res, result.StateFailed, nil), nil
			}
			continue
		}
		record.ParsedAction = parsed.String()

		verdict := r.validator.Validate(*parsed, step.Observation)
		record.Verdict = verdict.String()
		record.Correct = parsed.Equal(step.GroundTruth, r.opts.caseSensitive)
		if record.Correct {
			res.CorrectSteps++
		} else {
			record.Failure = categorize(verdict)
			res.FailurePoints = append(res.FailurePoints, i)
		}
		res.Steps = append(res.Steps, record)
		hist = hist.Append(prompt.HistoryEntry{
			Observation: step.Observation,
			Action:      *parsed,
		})
	}

	if budget < len(ep.Steps) {
		return r.finish(res, result.StateTimedOut, nil), nil
	}
	if r.succeeded(res) {
		return r.finish(res, result.StateSucceeded, nil), nil
	}
	return r.finish(res, result.StateFailed, nil), nil
}

// askPolicy calls the policy with a per-call timeout, retrying transient
// failures with exponential backoff.
func (r *Runner) askPolicy(ctx context.Context, promptText string) (string, time.Duration, error) {
	var raw string
	start := time.Now()
	operation := func() error {
		callCtx, cancel := context.WithTimeout(ctx, r.opts.callTimeout)
		defer cancel()
		response, err := r.policy.NextAction(callCtx, promptText)
		if err != nil {
			if retryable(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		raw = response
		return nil
	}
	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = r.opts.initialBackoff
	expo.MaxInterval = r.opts.maxBackoff
	err := backoff.RetryNotify(
		operation,
		backoff.WithContext(backoff.WithMaxRetries(expo, r.opts.maxRetries), ctx),
		func(err error, next time.Duration) {
			log.Warnf("policy call failed, retrying in %s: %v", next, err)
		},
	)
	return raw, time.Since(start), err
}

// reprompt gives the policy one corrective turn after a parse failure.
func (r *Runner) reprompt(ctx context.Context, promptText string,
	failure *action.ParseFailure, record *result.StepRecord) (*action.Action, *action.ParseFailure) {
	corrective := fmt.Sprintf(
		"%s\n\nYour previous response could not be interpreted (%s). Respond with exactly one action expression.",
		promptText, failure.Reason)
	raw, latency, err := r.askPolicy(ctx, corrective)
	record.Latency += latency
	if err != nil {
		return nil, failure
	}
	record.RawResponse = raw
	return r.parser.Parse(raw)
}

func (r *Runner) finish(res *result.EpisodeResult, state result.State, err error) *result.EpisodeResult {
	res.State = state
	res.EndTime = time.Now()
	if res.TotalSteps > 0 {
		res.StepAccuracy = float64(res.CorrectSteps) / float64(res.TotalSteps)
	}
	if err != nil {
		res.Error = err.Error()
	}
	return res
}

func (r *Runner) succeeded(res *result.EpisodeResult) bool {
	switch r.opts.successCriterion {
	case FinalStepMatch:
		n := len(res.Steps)
		return n > 0 && res.Steps[n-1].Correct
	default:
		return len(res.FailurePoints) == 0 && len(res.Steps) == res.TotalSteps
	}
}

// categorize maps an affordance verdict on a mismatched step to a
// failure category. Affordance-valid mismatches are wrong targets;
// targets absent from the screen are hallucinations.
func categorize(verdict affordance.Verdict) result.FailureCategory {
	switch verdict {
	case affordance.VerdictInvalidTarget:
		return result.FailureHallucination
	case affordance.VerdictInvalidVerb:
		return result.FailureMalformedAction
	default:
		return result.FailureWrongTarget
	}
}

func retryable(err error) bool {
	return errors.Is(err, policy.ErrUnavailable) || errors.Is(err, context.DeadlineExceeded)
}
