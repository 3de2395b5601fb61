// Copyright (C) 2025 FridgeChef Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package providers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"
)

// grokBaseURL is Groq's OpenAI-compatible endpoint. The provider id has
// always been spelled "grok" in stored records, so it stays that way.
const grokBaseURL = "https://api.groq.com/openai/v1"

// GrokClient serves the "grok" provider through the OpenAI-compatible
// chat completions API.
type GrokClient struct {
	client *openai.Client
	model  string
}

var _ Client = (*GrokClient)(nil)

func NewGrokClient(cfg Config) *GrokClient {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = grokBaseURL
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	if cfg.HTTPClient != nil {
		clientConfig.HTTPClient = cfg.HTTPClient
	}
	return &GrokClient{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
	}
}

// Generate implements the Client interface.
func (g *GrokClient) Generate(ctx context.Context, prompt string, params GenerationParams) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if params.Temperature != nil {
		req.Temperature = *params.Temperature
	}
	if params.MaxTokens != nil {
		req.MaxCompletionTokens = *params.MaxTokens
	}
	if params.TopP != nil {
		req.TopP = *params.TopP
	}
	if len(params.Stop) > 0 {
		req.Stop = params.Stop
	}

	slog.Debug("Sending chat completion request to Grok", "model", g.model)

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", grokError(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("Grok returned no choices")
	}

	slog.Debug("Received response from Grok", "finish_reason", resp.Choices[0].FinishReason)
	return resp.Choices[0].Message.Content, nil
}

// grokError converts go-openai's error types into StatusError where an
// HTTP status is known, so callers can classify the failure uniformly.
func grokError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &StatusError{Provider: "grok", StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode > 0 {
		return &StatusError{Provider: "grok", StatusCode: reqErr.HTTPStatusCode, Message: reqErr.Error()}
	}
	return fmt.Errorf("Grok API call failed: %w", err)
}
