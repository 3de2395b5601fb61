// Copyright (C) 2025 FridgeChef Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package credentials

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/NavvAbhishek/FridgeChef/services/providers"
)

// KeyValidator confirms an API key is live-usable against its provider
// before it is trusted for storage.
//
// Validate returns nil when the key works, ErrInvalidCredential (wrapped)
// when the provider rejected it, and ErrProviderUnavailable (wrapped) for
// transient failures unrelated to the key's validity. Implementations must
// never include the key in an error.
type KeyValidator interface {
	Validate(ctx context.Context, secret string, provider Provider, model string) error
}

// defaultProbeTimeout bounds a single validation call so a slow provider
// cannot hold a request indefinitely. Expiry classifies as unavailable.
const defaultProbeTimeout = 15 * time.Second

// probeMaxTokens keeps the validation call cheap. One short reply is all
// the probe needs.
const probeMaxTokens = 5

// LiveValidator validates keys with one minimal generation request against
// the real provider API.
type LiveValidator struct {
	timeout time.Duration

	// newClient is swapped in tests; defaults to providers.New.
	newClient func(cfg providers.Config) (providers.Client, error)
}

var _ KeyValidator = (*LiveValidator)(nil)

// NewLiveValidator creates a LiveValidator. A non-positive timeout selects
// the default probe timeout.
func NewLiveValidator(timeout time.Duration) *LiveValidator {
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	return &LiveValidator{
		timeout:   timeout,
		newClient: providers.New,
	}
}

// Validate implements KeyValidator.
func (v *LiveValidator) Validate(ctx context.Context, secret string, provider Provider, model string) error {
	client, err := v.newClient(providers.Config{
		Provider: string(provider),
		APIKey:   secret,
		Model:    model,
	})
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	maxTokens := probeMaxTokens
	reply, err := client.Generate(ctx, "Hi", providers.GenerationParams{MaxTokens: &maxTokens})
	if err != nil {
		return classifyProbeError(provider, err)
	}
	if strings.TrimSpace(reply) == "" {
		slog.Warn("provider probe returned an empty reply", "provider", provider, "model", model)
		return fmt.Errorf("%w: %s returned an empty reply", ErrProviderUnavailable, provider)
	}

	slog.Debug("provider probe succeeded", "provider", provider, "model", model)
	return nil
}

// classifyProbeError folds the provider's failure modes into the two
// outcomes callers act on: the key is bad, or the provider could not be
// consulted. Everything that does not clearly indicate a bad key counts as
// unavailable so a momentary outage never invalidates a good key.
func classifyProbeError(provider Provider, err error) error {
	var statusErr *providers.StatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.StatusCode == 401 || statusErr.StatusCode == 403:
			return fmt.Errorf("%w (%s)", ErrInvalidCredential, provider)
		case statusErr.StatusCode == 400 && strings.Contains(strings.ToLower(statusErr.Message), "api key"):
			// Gemini reports bad keys as 400 INVALID_ARGUMENT rather
			// than 401.
			return fmt.Errorf("%w (%s)", ErrInvalidCredential, provider)
		default:
			// 429 means the key is authorized but rate-limited; 5xx and
			// unexpected 4xx say nothing about the key.
			return fmt.Errorf("%w: %s returned status %d", ErrProviderUnavailable, provider, statusErr.StatusCode)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: probe of %s timed out", ErrProviderUnavailable, provider)
	}
	return fmt.Errorf("%w: contacting %s: %v", ErrProviderUnavailable, provider, err)
}
