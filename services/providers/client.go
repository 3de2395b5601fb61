// Copyright (C) 2025 FridgeChef Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package providers contains the outbound clients for the supported AI
// providers. Each client is constructed per call with the user's decrypted
// API key and chosen model; clients hold no global state and read nothing
// from the environment.
package providers

import (
	"context"
	"fmt"
	"net/http"
)

type GenerationParams struct {
	Temperature *float32 `json:"temperature"`
	TopK        *int     `json:"top_k"`
	TopP        *float32 `json:"top_p"`
	MaxTokens   *int     `json:"max_tokens"`
	Stop        []string `json:"stop"`
}

// Client is the standard interface for any AI provider backend.
type Client interface {
	Generate(ctx context.Context, prompt string, params GenerationParams) (string, error)
}

// VisionClient is implemented by providers that accept an inline image
// alongside the prompt (ingredient detection).
type VisionClient interface {
	Client
	GenerateVision(ctx context.Context, prompt string, imageData []byte, mimeType string, params GenerationParams) (string, error)
}

// Config selects and configures a provider client.
type Config struct {
	// Provider is the provider identifier ("gemini" or "grok").
	Provider string

	// APIKey is the user's decrypted key. Sent in a request header,
	// never in a URL.
	APIKey string

	// Model is the model identifier for generation calls.
	Model string

	// BaseURL overrides the provider's default endpoint. Used in tests.
	BaseURL string

	// HTTPClient overrides the default HTTP client. Used in tests.
	HTTPClient *http.Client
}

// New builds the client for cfg.Provider.
func New(cfg Config) (Client, error) {
	switch cfg.Provider {
	case "gemini":
		return NewGeminiClient(cfg), nil
	case "grok":
		return NewGrokClient(cfg), nil
	default:
		return nil, fmt.Errorf("no client for provider %q", cfg.Provider)
	}
}

// StatusError is an HTTP-level rejection from a provider API. It carries
// the status code and the provider's message so callers can classify the
// failure. It never contains the API key.
type StatusError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API returned status %d: %s", e.Provider, e.StatusCode, e.Message)
}
