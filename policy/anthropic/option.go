//
// Copyright (C) 2026 The agentbench Authors. All rights reserved.
//
// agentbench is licensed under the Apache License Version 2.0.
//
//

package anthropic

type options struct {
	apiKey      string
	baseURL     string
	maxTokens   int64
	temperature float64
}

func newOptions(opt ...Option) *options {
	opts := &options{
		maxTokens:   defaultMaxTokens,
		temperature: defaultTemperature,
	}
	for _, o := range opt {
		o(opts)
	}
	return opts
}

// Option configures the Anthropic policy.
type Option func(*options)

// WithAPIKey sets the API key. The SDK falls back to ANTHROPIC_API_KEY.
func WithAPIKey(key string) Option {
	return func(o *options) { o.apiKey = key }
}

// WithBaseURL overrides the API endpoint.
func WithBaseURL(url string) Option {
	return func(o *options) { o.baseURL = url }
}

// WithMaxTokens caps the completion length. Defaults to 150.
func WithMaxTokens(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxTokens = n
		}
	}
}

// WithTemperature sets the sampling temperature. Defaults to 0.1.
func WithTemperature(t float64) Option {
	return func(o *options) { o.temperature = t }
}
