// Copyright (C) 2025 FridgeChef Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package credentials

// Provider identifies an external AI service.
type Provider string

// Supported providers. Adding a provider means adding a constant here,
// a model list below, and a client in services/providers.
const (
	ProviderGemini Provider = "gemini"
	ProviderGrok   Provider = "grok"
)

// providerModels is the static model catalog. The first entry of each list
// is the provider's default model.
var providerModels = map[Provider][]string{
	ProviderGemini: {
		"gemini-2.0-flash",
		"gemini-2.0-flash-lite",
		"gemini-1.5-flash",
		"gemini-1.5-pro",
	},
	ProviderGrok: {
		"llama-3.3-70b-versatile",
		"llama-3.1-8b-instant",
		"openai/gpt-oss-120b",
		"qwen/qwen3-32b",
	},
}

// Models returns the ordered list of supported models for a provider,
// or nil when the provider is unknown. The returned slice is a copy.
func Models(p Provider) []string {
	models, ok := providerModels[p]
	if !ok {
		return nil
	}
	out := make([]string, len(models))
	copy(out, models)
	return out
}

// DefaultModel returns the provider's default model, or "" when the
// provider is unknown.
func DefaultModel(p Provider) string {
	models, ok := providerModels[p]
	if !ok || len(models) == 0 {
		return ""
	}
	return models[0]
}

// ValidProvider reports whether p is a known provider.
func ValidProvider(p Provider) bool {
	_, ok := providerModels[p]
	return ok
}

// ValidModel reports whether model is in p's supported list.
func ValidModel(p Provider, model string) bool {
	for _, m := range providerModels[p] {
		if m == model {
			return true
		}
	}
	return false
}
