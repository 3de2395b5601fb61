// Copyright (C) 2025 FridgeChef Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package providers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// --- Wire types (Google Generative Language REST API) ---

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"` // base64-encoded bytes
}

type geminiGenerationConfig struct {
	Temperature     *float32 `json:"temperature,omitempty"`
	TopP            *float32 `json:"topP,omitempty"`
	TopK            *int     `json:"topK,omitempty"`
	MaxOutputTokens *int     `json:"maxOutputTokens,omitempty"`
	StopSequences   []string `json:"stopSequences,omitempty"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
	Error      *geminiError      `json:"error,omitempty"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason"`
}

type geminiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// --- Client Implementation ---

// GeminiClient calls the Google Generative Language REST API directly.
// The API key travels in the x-goog-api-key header, not the URL, so it can
// never leak through URL logging.
type GeminiClient struct {
	httpClient *http.Client
	apiKey     string
	model      string
	baseURL    string
}

var (
	_ Client       = (*GeminiClient)(nil)
	_ VisionClient = (*GeminiClient)(nil)
)

func NewGeminiClient(cfg Config) *GeminiClient {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = geminiBaseURL
	}
	return &GeminiClient{
		httpClient: httpClient,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		baseURL:    baseURL,
	}
}

// Generate implements the Client interface.
func (g *GeminiClient) Generate(ctx context.Context, prompt string, params GenerationParams) (string, error) {
	parts := []geminiPart{{Text: prompt}}
	return g.generateContent(ctx, parts, params)
}

// GenerateVision implements the VisionClient interface. The image is sent
// as an inline base64 part ahead of the prompt text.
func (g *GeminiClient) GenerateVision(ctx context.Context, prompt string, imageData []byte, mimeType string, params GenerationParams) (string, error) {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	parts := []geminiPart{
		{InlineData: &geminiInlineData{
			MimeType: mimeType,
			Data:     base64.StdEncoding.EncodeToString(imageData),
		}},
		{Text: prompt},
	}
	return g.generateContent(ctx, parts, params)
}

func (g *GeminiClient) generateContent(ctx context.Context, parts []geminiPart, params GenerationParams) (string, error) {
	reqPayload := geminiRequest{
		Contents: []geminiContent{{Parts: parts}},
	}
	genConfig := &geminiGenerationConfig{
		Temperature:     params.Temperature,
		TopP:            params.TopP,
		TopK:            params.TopK,
		MaxOutputTokens: params.MaxTokens,
		StopSequences:   params.Stop,
	}
	if params.Temperature != nil || params.TopP != nil || params.TopK != nil ||
		params.MaxTokens != nil || len(params.Stop) > 0 {
		reqPayload.GenerationConfig = genConfig
	}

	reqBodyBytes, err := json.Marshal(reqPayload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, g.model)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(reqBodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("x-goog-api-key", g.apiKey)
	req.Header.Set("content-type", "application/json")

	slog.Debug("Sending REST request to Gemini", "model", g.model)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		var apiResp geminiResponse
		message := http.StatusText(resp.StatusCode)
		if err := json.Unmarshal(bodyBytes, &apiResp); err == nil && apiResp.Error != nil {
			message = apiResp.Error.Message
		}
		return "", &StatusError{Provider: "gemini", StatusCode: resp.StatusCode, Message: message}
	}

	var apiResp geminiResponse
	if err := json.Unmarshal(bodyBytes, &apiResp); err != nil {
		return "", fmt.Errorf("failed to parse response JSON: %w", err)
	}
	if apiResp.Error != nil {
		return "", &StatusError{Provider: "gemini", StatusCode: apiResp.Error.Code, Message: apiResp.Error.Message}
	}
	if len(apiResp.Candidates) == 0 {
		return "", fmt.Errorf("received no candidates from Gemini")
	}

	finalText := ""
	for _, part := range apiResp.Candidates[0].Content.Parts {
		finalText += part.Text
	}
	if finalText == "" {
		return "", fmt.Errorf("received candidate but no text parts from Gemini")
	}

	slog.Debug("Received response from Gemini", "finish_reason", apiResp.Candidates[0].FinishReason)
	return finalText, nil
}
