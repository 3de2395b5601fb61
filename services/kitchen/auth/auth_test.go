// Copyright (C) 2025 FridgeChef Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package auth

import (
	"context"
	"errors"
	"testing"
)

func TestStaticTokenProvider_Validate(t *testing.T) {
	provider := NewStaticTokenProvider(map[string]string{
		"tok-1": "alice",
		"tok-2": "bob",
	})
	ctx := context.Background()

	t.Run("known token", func(t *testing.T) {
		info, err := provider.Validate(ctx, "tok-1")
		if err != nil {
			t.Fatalf("Validate() error = %v", err)
		}
		if info.UserID != "alice" {
			t.Errorf("UserID = %q, want alice", info.UserID)
		}
	})

	t.Run("unknown token", func(t *testing.T) {
		_, err := provider.Validate(ctx, "bogus")
		if !errors.Is(err, ErrUnauthorized) {
			t.Errorf("error = %v, want ErrUnauthorized", err)
		}
	})

	t.Run("empty token", func(t *testing.T) {
		_, err := provider.Validate(ctx, "")
		if !errors.Is(err, ErrUnauthorized) {
			t.Errorf("error = %v, want ErrUnauthorized", err)
		}
	})
}

func TestStaticTokenProvider_CopiesTable(t *testing.T) {
	table := map[string]string{"tok-1": "alice"}
	provider := NewStaticTokenProvider(table)

	// Mutating the caller's map must not grant new tokens.
	table["tok-evil"] = "mallory"

	if _, err := provider.Validate(context.Background(), "tok-evil"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("provider accepted token added after construction")
	}
}

func TestLocalProvider_AlwaysLocalUser(t *testing.T) {
	provider := &LocalProvider{}

	for _, token := range []string{"", "anything"} {
		info, err := provider.Validate(context.Background(), token)
		if err != nil {
			t.Fatalf("Validate(%q) error = %v", token, err)
		}
		if info.UserID != "local-user" {
			t.Errorf("UserID = %q, want local-user", info.UserID)
		}
	}
}
