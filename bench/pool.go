//
// Copyright (C) 2026 The agentbench Authors. All rights reserved.
//
// agentbench is licensed under the Apache License Version 2.0.
//
//

package bench

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/droidworld/agentbench/episode"
	"github.com/droidworld/agentbench/metrics"
	"github.com/droidworld/agentbench/result"
	"github.com/droidworld/agentbench/runner"
)

type episodeRunParam struct {
	idx     int
	ctx     context.Context
	runner  *runner.Runner
	variant string
	ep      *episode.Episode
	results []result.EpisodeResult
	agg     *metrics.Aggregator
	wg      *sync.WaitGroup
}

func (p *episodeRunParam) reset() {
	p.idx = 0
	p.ctx = nil
	p.runner = nil
	p.variant = ""
	p.ep = nil
	p.results = nil
	p.agg = nil
	p.wg = nil
}

var episodeRunParamPool = &sync.Pool{
	New: func() any { return new(episodeRunParam) },
}

func createEpisodeRunPool(size int) (*ants.PoolWithFunc, error) {
	if size <= 0 {
		return nil, errors.New("pool size must be greater than 0")
	}
	pool, err := ants.NewPoolWithFunc(size, func(args any) {
		param, ok := args.(*episodeRunParam)
		if !ok {
			panic("episode run pool args type error")
		}
		wg := param.wg
		defer func() {
			wg.Done()
			param.reset()
			episodeRunParamPool.Put(param)
		}()
		res := runEpisode(param.ctx, param.runner, param.variant, param.ep)
		param.agg.Ingest(&res)
		param.results[param.idx] = res
	})
	if err != nil {
		return nil, fmt.Errorf("create episode run pool: %w", err)
	}
	return pool, nil
}
