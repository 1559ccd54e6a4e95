//
// Copyright (C) 2026 The agentbench Authors. All rights reserved.
//
// agentbench is licensed under the Apache License Version 2.0.
//
//

// Package openai provides a policy backed by the OpenAI chat completions API.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	openaiopt "github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/droidworld/agentbench/policy"
)

const (
	defaultMaxTokens   = 150
	defaultTemperature = 0.1
)

var _ policy.Policy = (*Policy)(nil)

// Policy calls an OpenAI chat model with the assembled prompt as a single
// user message and returns the completion text verbatim.
type Policy struct {
	client      openai.Client
	model       string
	maxTokens   int64
	temperature float64
}

// New creates an OpenAI-backed policy for the given model name.
func New(model string, opt ...Option) *Policy {
	opts := newOptions(opt...)
	var clientOpts []openaiopt.RequestOption
	if opts.apiKey != "" {
		clientOpts = append(clientOpts, openaiopt.WithAPIKey(opts.apiKey))
	}
	if opts.baseURL != "" {
		clientOpts = append(clientOpts, openaiopt.WithBaseURL(opts.baseURL))
	}
	return &Policy{
		client:      openai.NewClient(clientOpts...),
		model:       model,
		maxTokens:   opts.maxTokens,
		temperature: opts.temperature,
	}
}

// NextAction implements policy.Policy. API errors surface as
// policy.ErrUnavailable so the runner can apply its retry policy.
func (p *Policy) NextAction(ctx context.Context, prompt string) (string, error) {
	completion, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxCompletionTokens: openai.Int(p.maxTokens),
		Temperature:         openai.Float(p.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("%w: openai chat completion: %v", policy.ErrUnavailable, err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: openai returned no choices", policy.ErrUnavailable)
	}
	return completion.Choices[0].Message.Content, nil
}
