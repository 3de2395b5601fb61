// Copyright (C) 2025 FridgeChef Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package auth resolves bearer tokens to stable user identifiers for the
// kitchen service.
//
// The service does not issue sessions itself; a deployment chooses a
// Provider implementation. StaticTokenProvider serves self-hosted
// multi-user installs from a token table, LocalProvider serves
// single-user development where authentication infrastructure would be
// overhead.
package auth

import (
	"context"
	"errors"
)

// ErrUnauthorized is returned when a token cannot be resolved to a user.
var ErrUnauthorized = errors.New("unauthorized")

// Info is the authenticated caller's identity.
type Info struct {
	// UserID is the stable identifier every per-user document is keyed by.
	// Never empty for a successful Validate.
	UserID string

	// Email may be empty when the provider does not know it.
	Email string
}

// Provider validates bearer tokens. Implementations must be safe for
// concurrent use.
type Provider interface {
	// Validate resolves a token to the caller's identity, or returns
	// ErrUnauthorized (possibly wrapped) when the token is unknown.
	Validate(ctx context.Context, token string) (*Info, error)
}

// StaticTokenProvider resolves tokens from a fixed token -> user table,
// typically loaded from the service configuration file.
type StaticTokenProvider struct {
	tokens map[string]string
}

// NewStaticTokenProvider copies the token table.
func NewStaticTokenProvider(tokens map[string]string) *StaticTokenProvider {
	copied := make(map[string]string, len(tokens))
	for token, userID := range tokens {
		copied[token] = userID
	}
	return &StaticTokenProvider{tokens: copied}
}

// Validate implements Provider.
func (p *StaticTokenProvider) Validate(_ context.Context, token string) (*Info, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	userID, ok := p.tokens[token]
	if !ok {
		return nil, ErrUnauthorized
	}
	return &Info{UserID: userID}, nil
}

// LocalProvider authenticates every request as a single local user. Meant
// for development and single-user deployments only.
type LocalProvider struct{}

// Validate implements Provider. The token is ignored.
func (p *LocalProvider) Validate(_ context.Context, _ string) (*Info, error) {
	return &Info{UserID: "local-user"}, nil
}

var (
	_ Provider = (*StaticTokenProvider)(nil)
	_ Provider = (*LocalProvider)(nil)
)
