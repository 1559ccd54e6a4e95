//
// Copyright (C) 2026 The agentbench Authors. All rights reserved.
//
// agentbench is licensed under the Apache License Version 2.0.
//
//

// Package config loads the benchmark configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/droidworld/agentbench/action"
)

// Config is the top-level benchmark configuration.
type Config struct {
	EpisodesDir string    `yaml:"episodes_dir"`
	ResultsDir  string    `yaml:"results_dir"`
	MaxSteps    int       `yaml:"max_steps"`
	Parallelism int       `yaml:"parallelism"`
	SampleSize  int       `yaml:"sample_size"`
	History     int       `yaml:"history_window"`
	CallTimeout string    `yaml:"call_timeout"`
	MaxRetries  uint64    `yaml:"max_retries"`
	Fuzzy       Fuzzy     `yaml:"fuzzy_matching"`
	Verbs       []VerbDef `yaml:"verbs"`
	Variants    []Variant `yaml:"variants"`
}

// Fuzzy configures fuzzy target matching.
type Fuzzy struct {
	Enabled   bool    `yaml:"enabled"`
	Threshold float64 `yaml:"threshold"`
}

// VerbDef extends or replaces the default action grammar.
type VerbDef struct {
	Name       string `yaml:"name"`
	Targetless bool   `yaml:"targetless"`
}

// Variant is one policy configuration to benchmark.
type Variant struct {
	Name        string  `yaml:"name"`
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	Template    string  `yaml:"template"`
	BaseURL     string  `yaml:"base_url"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	MaxTokens   int64   `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

const (
	defaultResultsDir  = "results"
	defaultParallelism = 4
	defaultHistory     = 5
)

// Load reads and validates a YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.ResultsDir == "" {
		c.ResultsDir = defaultResultsDir
	}
	if c.Parallelism == 0 {
		c.Parallelism = defaultParallelism
	}
	if c.History == 0 {
		c.History = defaultHistory
	}
}

// Validate checks the configuration for errors no run could recover from.
func (c *Config) Validate() error {
	if c.EpisodesDir == "" {
		return errors.New("episodes_dir is required")
	}
	if c.Parallelism < 1 {
		return errors.New("parallelism must be at least 1")
	}
	if len(c.Variants) == 0 {
		return errors.New("at least one variant is required")
	}
	if _, err := c.CallTimeoutDuration(); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(c.Variants))
	for i, v := range c.Variants {
		if v.Name == "" {
			return fmt.Errorf("variant %d has no name", i)
		}
		if _, dup := seen[v.Name]; dup {
			return fmt.Errorf("duplicate variant name %q", v.Name)
		}
		seen[v.Name] = struct{}{}
		switch v.Provider {
		case "openai", "anthropic":
			if v.Model == "" {
				return fmt.Errorf("variant %q requires a model", v.Name)
			}
		default:
			return fmt.Errorf("variant %q has unknown provider %q", v.Name, v.Provider)
		}
	}
	return nil
}

// CallTimeoutDuration parses the call_timeout field; zero means the
// runner default.
func (c *Config) CallTimeoutDuration() (time.Duration, error) {
	if c.CallTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.CallTimeout)
	if err != nil {
		return 0, fmt.Errorf("parse call_timeout: %w", err)
	}
	return d, nil
}

// VerbSet builds the action grammar: the defaults when no verbs are
// configured, otherwise exactly the configured set.
func (c *Config) VerbSet() action.VerbSet {
	if len(c.Verbs) == 0 {
		return action.DefaultVerbSet()
	}
	verbs := make(action.VerbSet, len(c.Verbs))
	for _, def := range c.Verbs {
		verbs[action.Verb(def.Name)] = action.VerbSpec{Targetless: def.Targetless}
	}
	return verbs
}
