//
// Copyright (C) 2026 The agentbench Authors. All rights reserved.
//
// agentbench is licensed under the Apache License Version 2.0.
//
//

package runner

import "time"

// SuccessCriterion decides when a finished episode counts as a success.
type SuccessCriterion int

const (
	// AllStepsMatch requires every step to match the ground truth.
	AllStepsMatch SuccessCriterion = iota
	// FinalStepMatch requires only the last step to match, tolerating
	// recovered detours earlier in the episode.
	FinalStepMatch
)

// ParseFailureMode decides how the runner reacts when a policy response
// cannot be parsed into an action.
type ParseFailureMode int

const (
	// ParseFailureContinue records the step as malformed and advances.
	ParseFailureContinue ParseFailureMode = iota
	// ParseFailureFailEpisode ends the episode as failed on the first
	// unparseable response.
	ParseFailureFailEpisode
	// ParseFailureReprompt sends one corrective prompt before treating
	// the step as malformed.
	ParseFailureReprompt
)

const (
	defaultCallTimeout    = 30 * time.Second
	defaultMaxRetries     = 3
	defaultInitialBackoff = 500 * time.Millisecond
	defaultMaxBackoff     = 5 * time.Second
	defaultHistoryWindow  = 5
)

type options struct {
	maxSteps         int
	callTimeout      time.Duration
	maxRetries       uint64
	initialBackoff   time.Duration
	maxBackoff       time.Duration
	successCriterion SuccessCriterion
	parseFailureMode ParseFailureMode
	historyWindow    int
	variant          string
	caseSensitive    bool
	recordPrompts    bool
}

func newOptions(opt ...Option) *options {
	opts := &options{
		callTimeout:    defaultCallTimeout,
		maxRetries:     defaultMaxRetries,
		initialBackoff: defaultInitialBackoff,
		maxBackoff:     defaultMaxBackoff,
		historyWindow:  defaultHistoryWindow,
	}
	for _, o := range opt {
		o(opts)
	}
	return opts
}

// Option configures a Runner.
type Option func(*options)

// WithMaxSteps caps the number of executed steps. Zero means the
// episode's own length.
func WithMaxSteps(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxSteps = n
		}
	}
}

// WithCallTimeout bounds each policy call. Defaults to 30s.
func WithCallTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.callTimeout = d
		}
	}
}

// WithMaxRetries sets how many times a failed policy call is retried
// before the episode aborts. Defaults to 3.
func WithMaxRetries(n uint64) Option {
	return func(o *options) { o.maxRetries = n }
}

// WithBackoff sets the initial and maximum retry backoff intervals.
func WithBackoff(initial, max time.Duration) Option {
	return func(o *options) {
		if initial > 0 {
			o.initialBackoff = initial
		}
		if max > 0 {
			o.maxBackoff = max
		}
	}
}

// WithSuccessCriterion selects the episode success rule. Defaults to
// AllStepsMatch.
func WithSuccessCriterion(c SuccessCriterion) Option {
	return func(o *options) { o.successCriterion = c }
}

// WithParseFailureMode selects how unparseable responses are handled.
// Defaults to ParseFailureContinue.
func WithParseFailureMode(m ParseFailureMode) Option {
	return func(o *options) { o.parseFailureMode = m }
}

// WithHistoryWindow sets how many prior steps the prompt carries.
// Defaults to 5; zero disables history.
func WithHistoryWindow(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.historyWindow = n
		}
	}
}

// WithVariant tags results with a configuration name. Defaults to the
// assembler's template name.
func WithVariant(name string) Option {
	return func(o *options) { o.variant = name }
}

// WithCaseSensitiveTargets makes ground-truth target comparison
// case-sensitive.
func WithCaseSensitiveTargets() Option {
	return func(o *options) { o.caseSensitive = true }
}

// WithRecordPrompts stores the full assembled prompt on each step
// record. Off by default to keep result files small.
func WithRecordPrompts() Option {
	return func(o *options) { o.recordPrompts = true }
}
