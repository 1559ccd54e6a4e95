//
// Copyright (C) 2026 The agentbench Authors. All rights reserved.
//
// agentbench is licensed under the Apache License Version 2.0.
//
//

package bench

import (
	"math/rand"

	"github.com/droidworld/agentbench/action"
	"github.com/droidworld/agentbench/affordance"
	"github.com/droidworld/agentbench/result"
	"github.com/droidworld/agentbench/runner"
)

const defaultParallelism = 4

type options struct {
	parallelism   int
	verbs         action.VerbSet
	affordanceOpt []affordance.Option
	runnerOpt     []runner.Option
	resultManager result.Manager
	sampleSize    int
	rng           *rand.Rand
}

func newOptions(opt ...Option) *options {
	opts := &options{
		parallelism: defaultParallelism,
		verbs:       action.DefaultVerbSet(),
	}
	for _, o := range opt {
		o(opts)
	}
	return opts
}

// Option configures a Bench.
type Option func(*options)

// WithParallelism sets how many episode runs execute concurrently.
// Defaults to 4; one means serial execution.
func WithParallelism(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.parallelism = n
		}
	}
}

// WithVerbSet overrides the action grammar used for parsing and
// validation.
func WithVerbSet(verbs action.VerbSet) Option {
	return func(o *options) {
		if len(verbs) > 0 {
			o.verbs = verbs
		}
	}
}

// WithAffordanceOptions passes options through to the affordance
// validator shared by all variants.
func WithAffordanceOptions(opt ...affordance.Option) Option {
	return func(o *options) { o.affordanceOpt = append(o.affordanceOpt, opt...) }
}

// WithRunnerOptions passes options through to every per-variant runner.
func WithRunnerOptions(opt ...runner.Option) Option {
	return func(o *options) { o.runnerOpt = append(o.runnerOpt, opt...) }
}

// WithResultManager persists each finished batch through the manager.
func WithResultManager(m result.Manager) Option {
	return func(o *options) { o.resultManager = m }
}

// WithSample runs each variant over a random subset of the episodes.
// Zero disables sampling; a nil rng falls back to a time-seeded source.
func WithSample(n int, rng *rand.Rand) Option {
	return func(o *options) {
		o.sampleSize = n
		o.rng = rng
	}
}
