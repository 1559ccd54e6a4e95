//
// Copyright (C) 2026 The agentbench Authors. All rights reserved.
//
// agentbench is licensed under the Apache License Version 2.0.
//
//

// Package anthropic provides a policy backed by the Anthropic messages API.
package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicopt "github.com/anthropics/anthropic-sdk-go/option"

	"github.com/droidworld/agentbench/policy"
)

const (
	defaultMaxTokens   = 150
	defaultTemperature = 0.1
)

var _ policy.Policy = (*Policy)(nil)

// Policy calls an Anthropic model with the assembled prompt as a single
// user message and returns the concatenated text blocks of the reply.
type Policy struct {
	client      anthropic.Client
	model       string
	maxTokens   int64
	temperature float64
}

// New creates an Anthropic-backed policy for the given model name.
func New(model string, opt ...Option) *Policy {
	opts := newOptions(opt...)
	var clientOpts []anthropicopt.RequestOption
	if opts.apiKey != "" {
		clientOpts = append(clientOpts, anthropicopt.WithAPIKey(opts.apiKey))
	}
	if opts.baseURL != "" {
		clientOpts = append(clientOpts, anthropicopt.WithBaseURL(opts.baseURL))
	}
	return &Policy{
		client:      anthropic.NewClient(clientOpts...),
		model:       model,
		maxTokens:   opts.maxTokens,
		temperature: opts.temperature,
	}
}

// NextAction implements policy.Policy. API errors surface as
// policy.ErrUnavailable so the runner can apply its retry policy.
func (p *Policy) NextAction(ctx context.Context, prompt string) (string, error) {
	message, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: p.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
		Temperature: anthropic.Float(p.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("%w: anthropic message: %v", policy.ErrUnavailable, err)
	}
	var b strings.Builder
	for _, content := range message.Content {
		switch block := content.AsAny().(type) {
		case anthropic.TextBlock:
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("%w: anthropic returned no text content", policy.ErrUnavailable)
	}
	return b.String(), nil
}
