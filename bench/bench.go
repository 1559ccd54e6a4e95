//
// Copyright (C) 2026 The agentbench Authors. All rights reserved.
//
// agentbench is licensed under the Apache License Version 2.0.
//
//

// Package bench runs a set of policy variants over a set of episodes
// and aggregates the outcomes into a batch result.
package bench

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"github.com/droidworld/agentbench/action"
	"github.com/droidworld/agentbench/affordance"
	"github.com/droidworld/agentbench/episode"
	"github.com/droidworld/agentbench/log"
	"github.com/droidworld/agentbench/metrics"
	"github.com/droidworld/agentbench/policy"
	"github.com/droidworld/agentbench/prompt"
	"github.com/droidworld/agentbench/result"
	"github.com/droidworld/agentbench/runner"
)

// Variant is one policy configuration under comparison.
type Variant struct {
	// Name tags the variant's results, e.g. "gpt-4o/few_shot".
	Name string
	// Policy produces actions for this variant.
	Policy policy.Policy
	// Template is the prompt template the variant uses.
	Template prompt.Template
}

// Bench executes benchmark batches.
type Bench struct {
	opts options
}

// New creates a bench.
func New(opt ...Option) (*Bench, error) {
	opts := newOptions(opt...)
	if len(opts.verbs) == 0 {
		return nil, errors.New("verb set is empty")
	}
	return &Bench{opts: *opts}, nil
}

// Run executes every variant over every episode and returns the batch
// result with its aggregate report. Episodes that cannot run are
// recorded as aborted results rather than failing the whole batch; task
// submission and persistence errors are joined into the returned error.
func (b *Bench) Run(ctx context.Context, episodes []*episode.Episode, variants []Variant) (*result.BatchResult, error) {
	if len(episodes) == 0 {
		return nil, errors.New("episodes are empty")
	}
	if len(variants) == 0 {
		return nil, errors.New("variants are empty")
	}
	for _, v := range variants {
		if v.Name == "" {
			return nil, errors.New("variant name is empty")
		}
		if v.Policy == nil {
			return nil, fmt.Errorf("variant %s has no policy", v.Name)
		}
	}

	if b.opts.sampleSize > 0 {
		rng := b.opts.rng
		if rng == nil {
			rng = rand.New(rand.NewSource(time.Now().UnixNano()))
		}
		episodes = episode.Sample(episodes, b.opts.sampleSize, rng)
	}

	runners := make([]*runner.Runner, len(variants))
	validator := affordance.New(b.opts.verbs, b.opts.affordanceOpt...)
	parser := action.NewParser(b.opts.verbs)
	for i, v := range variants {
		opt := append([]runner.Option{runner.WithVariant(v.Name)}, b.opts.runnerOpt...)
		r, err := runner.New(v.Policy, prompt.NewAssembler(v.Template), parser, validator, opt...)
		if err != nil {
			return nil, fmt.Errorf("create runner for variant %s: %w", v.Name, err)
		}
		runners[i] = r
	}

	batch := &result.BatchResult{
		BatchID:   uuid.New().String(),
		StartTime: time.Now(),
	}
	agg := metrics.NewAggregator()
	results := make([]result.EpisodeResult, len(variants)*len(episodes))

	var errs error
	if b.opts.parallelism > 1 {
		errs = b.runParallel(ctx, episodes, variants, runners, results, agg)
	} else {
		for vi, v := range variants {
			for ei, ep := range episodes {
				res := runEpisode(ctx, runners[vi], v.Name, ep)
				agg.Ingest(&res)
				results[vi*len(episodes)+ei] = res
			}
		}
	}

	batch.Results = results
	batch.Report = agg.Snapshot()
	batch.EndTime = time.Now()

	if b.opts.resultManager != nil {
		if err := b.opts.resultManager.Save(ctx, batch); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("save batch %s: %w", batch.BatchID, err))
		}
	}
	return batch, errs
}

func (b *Bench) runParallel(ctx context.Context, episodes []*episode.Episode,
	variants []Variant, runners []*runner.Runner,
	results []result.EpisodeResult, agg *metrics.Aggregator) error {
	pool, err := createEpisodeRunPool(b.opts.parallelism)
	if err != nil {
		return err
	}
	defer pool.Release()

	var errs error
	var wg sync.WaitGroup
	for vi, v := range variants {
		for ei, ep := range episodes {
			wg.Add(1)
			param := episodeRunParamPool.Get().(*episodeRunParam)
			param.idx = vi*len(episodes) + ei
			param.ctx = ctx
			param.runner = runners[vi]
			param.variant = v.Name
			param.ep = ep
			param.results = results
			param.agg = agg
			param.wg = &wg
			if err := pool.Invoke(param); err != nil {
				wg.Done()
				res := abortedResult(v.Name, ep,
					fmt.Errorf("submit episode %s: %w", ep.EpisodeID, err))
				agg.Ingest(&res)
				results[param.idx] = res
				param.reset()
				episodeRunParamPool.Put(param)
				errs = multierror.Append(errs, err)
			}
		}
	}
	wg.Wait()
	return errs
}

// runEpisode executes one (variant, episode) pair, converting runner
// input errors into aborted results so a single bad episode cannot sink
// the batch.
func runEpisode(ctx context.Context, r *runner.Runner, variant string, ep *episode.Episode) result.EpisodeResult {
	res, err := r.Run(ctx, ep)
	if err != nil {
		log.Warnf("episode %s aborted for variant %s: %v", ep.EpisodeID, variant, err)
		return abortedResult(variant, ep, err)
	}
	return *res
}

func abortedResult(variant string, ep *episode.Episode, err error) result.EpisodeResult {
	now := time.Now()
	return result.EpisodeResult{
		EpisodeID:  ep.EpisodeID,
		Variant:    variant,
		Goal:       ep.Goal,
		State:      result.StateAborted,
		TotalSteps: len(ep.Steps),
		Error:      err.Error(),
		StartTime:  now,
		EndTime:    now,
	}
}
