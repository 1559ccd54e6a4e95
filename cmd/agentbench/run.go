//
// Copyright (C) 2026 The agentbench Authors. All rights reserved.
//
// agentbench is licensed under the Apache License Version 2.0.
//
//

package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/droidworld/agentbench/action"
	"github.com/droidworld/agentbench/affordance"
	"github.com/droidworld/agentbench/bench"
	"github.com/droidworld/agentbench/episode"
	episodelocal "github.com/droidworld/agentbench/episode/local"
	"github.com/droidworld/agentbench/internal/config"
	"github.com/droidworld/agentbench/internal/report"
	"github.com/droidworld/agentbench/policy"
	anthropicpolicy "github.com/droidworld/agentbench/policy/anthropic"
	openaipolicy "github.com/droidworld/agentbench/policy/openai"
	"github.com/droidworld/agentbench/prompt"
	"github.com/droidworld/agentbench/result"
	resultlocal "github.com/droidworld/agentbench/result/local"
	"github.com/droidworld/agentbench/runner"
)

var (
	flagVariant string
	flagSample  int
	flagSeed    int64
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute a benchmark run",
		RunE:  runBenchmark,
	}
	cmd.Flags().StringVar(&flagVariant, "variant", "", "run only the named variant")
	cmd.Flags().IntVar(&flagSample, "sample", 0, "override the episode sample size")
	cmd.Flags().Int64Var(&flagSeed, "seed", 0, "sampling seed, 0 means time-based")
	return cmd
}

func runBenchmark(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	verbs := cfg.VerbSet()

	episodes, err := loadEpisodes(cmd, cfg, verbs)
	if err != nil {
		return err
	}

	variants, err := buildVariants(cfg)
	if err != nil {
		return err
	}

	resultManager, err := resultlocal.New(cfg.ResultsDir)
	if err != nil {
		return err
	}

	b, err := bench.New(benchOptions(cfg, verbs, resultManager)...)
	if err != nil {
		return err
	}
	batch, err := b.Run(cmd.Context(), episodes, variants)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Batch: %s\n\n", batch.BatchID)
	return report.Render(cmd.OutOrStdout(), batch)
}

func loadEpisodes(cmd *cobra.Command, cfg *config.Config, verbs action.VerbSet) ([]*episode.Episode, error) {
	manager := episodelocal.New(cfg.EpisodesDir, verbs)
	defer manager.Close()
	episodes, err := manager.List(cmd.Context())
	if err != nil {
		return nil, err
	}
	if len(episodes) == 0 {
		return nil, fmt.Errorf("no episodes found in %s", cfg.EpisodesDir)
	}
	return episodes, nil
}

func benchOptions(cfg *config.Config, verbs action.VerbSet, manager result.Manager) []bench.Option {
	opts := []bench.Option{
		bench.WithParallelism(cfg.Parallelism),
		bench.WithVerbSet(verbs),
		bench.WithResultManager(manager),
	}
	if cfg.Fuzzy.Enabled {
		opts = append(opts, bench.WithAffordanceOptions(
			affordance.WithFuzzyMatching(cfg.Fuzzy.Threshold)))
	}
	sample := cfg.SampleSize
	if flagSample > 0 {
		sample = flagSample
	}
	if sample > 0 {
		seed := flagSeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		opts = append(opts, bench.WithSample(sample, rand.New(rand.NewSource(seed))))
	}
	opts = append(opts, bench.WithRunnerOptions(runnerOptions(cfg)...))
	return opts
}

func runnerOptions(cfg *config.Config) []runner.Option {
	opts := []runner.Option{
		runner.WithHistoryWindow(cfg.History),
	}
	if cfg.MaxSteps > 0 {
		opts = append(opts, runner.WithMaxSteps(cfg.MaxSteps))
	}
	if cfg.MaxRetries > 0 {
		opts = append(opts, runner.WithMaxRetries(cfg.MaxRetries))
	}
	if timeout, err := cfg.CallTimeoutDuration(); err == nil && timeout > 0 {
		opts = append(opts, runner.WithCallTimeout(timeout))
	}
	return opts
}

func buildVariants(cfg *config.Config) ([]bench.Variant, error) {
	var variants []bench.Variant
	for _, v := range cfg.Variants {
		if flagVariant != "" && v.Name != flagVariant {
			continue
		}
		p, err := buildPolicy(v)
		if err != nil {
			return nil, err
		}
		tmpl := prompt.Base()
		if v.Template != "" {
			builtin, ok := prompt.Builtin(v.Template)
			if !ok {
				return nil, fmt.Errorf("variant %q references unknown template %q", v.Name, v.Template)
			}
			tmpl = builtin
		}
		variants = append(variants, bench.Variant{Name: v.Name, Policy: p, Template: tmpl})
	}
	if len(variants) == 0 {
		return nil, fmt.Errorf("no variant matches %q", flagVariant)
	}
	return variants, nil
}

func buildPolicy(v config.Variant) (policy.Policy, error) {
	apiKey := ""
	if v.APIKeyEnv != "" {
		apiKey = os.Getenv(v.APIKeyEnv)
		if apiKey == "" {
			return nil, fmt.Errorf("variant %q: environment variable %s is not set", v.Name, v.APIKeyEnv)
		}
	}
	switch v.Provider {
	case "openai":
		var opts []openaipolicy.Option
		if apiKey != "" {
			opts = append(opts, openaipolicy.WithAPIKey(apiKey))
		}
		if v.BaseURL != "" {
			opts = append(opts, openaipolicy.WithBaseURL(v.BaseURL))
		}
		if v.MaxTokens > 0 {
			opts = append(opts, openaipolicy.WithMaxTokens(v.MaxTokens))
		}
		if v.Temperature > 0 {
			opts = append(opts, openaipolicy.WithTemperature(v.Temperature))
		}
		return openaipolicy.New(v.Model, opts...), nil
	case "anthropic":
		var opts []anthropicpolicy.Option
		if apiKey != "" {
			opts = append(opts, anthropicpolicy.WithAPIKey(apiKey))
		}
		if v.BaseURL != "" {
			opts = append(opts, anthropicpolicy.WithBaseURL(v.BaseURL))
		}
		if v.MaxTokens > 0 {
			opts = append(opts, anthropicpolicy.WithMaxTokens(v.MaxTokens))
		}
		if v.Temperature > 0 {
			opts = append(opts, anthropicpolicy.WithTemperature(v.Temperature))
		}
		return anthropicpolicy.New(v.Model, opts...), nil
	default:
		return nil, fmt.Errorf("variant %q has unknown provider %q", v.Name, v.Provider)
	}
}
