// Copyright (C) 2025 FridgeChef Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package credentials

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// =============================================================================
// Types
// =============================================================================

// Status is the caller-visible view of a user's credential configuration.
// It never carries key material, only a configured flag and metadata.
type Status struct {
	Configured bool     `json:"configured"`
	Provider   Provider `json:"provider,omitempty"`
	Model      string   `json:"model,omitempty"`
}

// ResolvedCredential is the decrypted credential handed to outbound AI
// callers. The Secret field must never be logged, persisted, or written to
// a response body.
type ResolvedCredential struct {
	Secret   string
	Provider Provider
	Model    string
}

// Manager orchestrates the credential lifecycle for all users: it decides
// default models, validates keys before persisting them, encrypts before
// storage, decrypts before use, and reconciles the legacy single-provider
// field with the current multi-provider fields.
//
// # State Machine
//
// A user's credential moves UNSET -> CONFIGURED via a successful Set,
// CONFIGURED -> UNSET via Delete, and CONFIGURED -> CONFIGURED via another
// Set that replaces provider, model, and secret in a single atomic write.
// Status, ResolveSecret, and ValidateStored never transition state.
//
// # Thread Safety
//
// Manager is stateless between calls; per-user write serialization is the
// Store's contract. Safe for concurrent use across users and requests.
type Manager struct {
	store     Store
	cipher    *Cipher
	validator KeyValidator
}

// NewManager wires the manager. All three dependencies are required.
func NewManager(store Store, cipher *Cipher, validator KeyValidator) *Manager {
	return &Manager{
		store:     store,
		cipher:    cipher,
		validator: validator,
	}
}

// =============================================================================
// Operations
// =============================================================================

// Set validates and stores a new credential for the user, replacing any
// prior current-field values. The legacy field is left untouched.
//
// The model defaults to the provider's default when empty. Nothing is
// persisted unless the validator accepts the key: ErrInvalidCredential
// means the provider rejected it, ErrProviderUnavailable means the key
// could not be checked right now and the caller may retry.
func (m *Manager) Set(ctx context.Context, userID, secret string, provider Provider, model string) (Status, error) {
	if secret == "" {
		return Status{}, ErrEmptyPlaintext
	}
	if !ValidProvider(provider) {
		return Status{}, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}
	if model == "" {
		model = DefaultModel(provider)
	} else if !ValidModel(provider, model) {
		return Status{}, fmt.Errorf("%w: %q is not a %s model", ErrUnsupportedModel, model, provider)
	}

	if err := m.validator.Validate(ctx, secret, provider, model); err != nil {
		slog.Info("credential validation failed, nothing stored",
			"user_id", userID, "provider", provider, "model", model)
		return Status{}, err
	}

	encrypted, err := m.cipher.Encrypt(secret)
	if err != nil {
		return Status{}, fmt.Errorf("encrypt credential: %w", err)
	}

	err = m.store.Update(ctx, userID, func(rec Record) Record {
		rec.Provider = provider
		rec.Model = model
		rec.EncryptedSecret = encrypted
		rec.UpdatedAt = time.Now().UTC()
		return rec
	})
	if err != nil {
		return Status{}, err
	}

	slog.Info("credential stored", "user_id", userID, "provider", provider, "model", model)
	return Status{Configured: true, Provider: provider, Model: model}, nil
}

// Status reports whether the user has a usable credential and which
// provider/model it targets. A record holding only the legacy field reports
// the legacy assumption: Gemini with its default model.
func (m *Manager) Status(ctx context.Context, userID string) (Status, error) {
	rec, err := m.store.Get(ctx, userID)
	if err != nil {
		return Status{}, err
	}

	st := Status{Configured: rec.HasSecret()}
	switch {
	case rec.EncryptedSecret != "":
		st.Provider = rec.Provider
		st.Model = rec.Model
	case rec.LegacyEncryptedSecret != "":
		st.Provider = ProviderGemini
		st.Model = DefaultModel(ProviderGemini)
	default:
		// Not configured; surface the documented defaults a Delete leaves
		// behind (may be empty for users who never had a credential).
		st.Provider = rec.Provider
		st.Model = rec.Model
	}
	return st, nil
}

// ResolveSecret decrypts the user's credential for an outbound AI call,
// preferring the current field and falling back to the legacy field.
//
// Returns ErrNotConfigured when neither field is present. Cipher failures
// propagate unmodified so callers can distinguish corruption
// (ErrMalformedCiphertext) from a rotated master secret
// (ErrDecryptionFailed).
//
// Internal-only: the result must never reach a response body, a log line,
// or a persisted record.
func (m *Manager) ResolveSecret(ctx context.Context, userID string) (ResolvedCredential, error) {
	rec, err := m.store.Get(ctx, userID)
	if err != nil {
		return ResolvedCredential{}, err
	}

	switch {
	case rec.EncryptedSecret != "":
		secret, err := m.cipher.Decrypt(rec.EncryptedSecret)
		if err != nil {
			return ResolvedCredential{}, fmt.Errorf("decrypt stored credential: %w", err)
		}
		return ResolvedCredential{Secret: secret, Provider: rec.Provider, Model: rec.Model}, nil

	case rec.LegacyEncryptedSecret != "":
		secret, err := m.cipher.Decrypt(rec.LegacyEncryptedSecret)
		if err != nil {
			return ResolvedCredential{}, fmt.Errorf("decrypt legacy credential: %w", err)
		}
		return ResolvedCredential{
			Secret:   secret,
			Provider: ProviderGemini,
			Model:    DefaultModel(ProviderGemini),
		}, nil

	default:
		return ResolvedCredential{}, ErrNotConfigured
	}
}

// ValidateStored re-checks the stored credential against its provider.
// Propagates the validator's two error kinds; never mutates storage.
func (m *Manager) ValidateStored(ctx context.Context, userID string) error {
	resolved, err := m.ResolveSecret(ctx, userID)
	if err != nil {
		return err
	}
	return m.validator.Validate(ctx, resolved.Secret, resolved.Provider, resolved.Model)
}

// Delete clears both secret fields and resets provider/model to the
// documented defaults. Idempotent: deleting an absent credential succeeds.
func (m *Manager) Delete(ctx context.Context, userID string) error {
	err := m.store.Update(ctx, userID, func(Record) Record {
		return Record{
			Provider:  ProviderGemini,
			Model:     DefaultModel(ProviderGemini),
			UpdatedAt: time.Now().UTC(),
		}
	})
	if err != nil {
		return err
	}
	slog.Info("credential deleted", "user_id", userID)
	return nil
}

// MigrateLegacy moves a legacy Gemini-only secret into the current fields
// and clears the legacy field. When the user already has a current secret,
// the legacy field is simply retired: the two fields are alternatives and
// the current one wins.
//
// Reports whether the record changed. Runs offline (CLI), never on the
// request path; reads through Status/ResolveSecret stay side-effect free.
func (m *Manager) MigrateLegacy(ctx context.Context, userID string) (bool, error) {
	rec, err := m.store.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	if rec.LegacyEncryptedSecret == "" {
		return false, nil
	}

	var reencrypted string
	if rec.EncryptedSecret == "" {
		secret, err := m.cipher.Decrypt(rec.LegacyEncryptedSecret)
		if err != nil {
			return false, fmt.Errorf("decrypt legacy credential: %w", err)
		}
		reencrypted, err = m.cipher.Encrypt(secret)
		if err != nil {
			return false, fmt.Errorf("re-encrypt legacy credential: %w", err)
		}
	}

	err = m.store.Update(ctx, userID, func(rec Record) Record {
		if rec.LegacyEncryptedSecret == "" {
			return rec // raced with another migration
		}
		if rec.EncryptedSecret == "" && reencrypted != "" {
			rec.Provider = ProviderGemini
			rec.Model = DefaultModel(ProviderGemini)
			rec.EncryptedSecret = reencrypted
		}
		rec.LegacyEncryptedSecret = ""
		rec.UpdatedAt = time.Now().UTC()
		return rec
	})
	if err != nil {
		return false, err
	}

	slog.Info("legacy credential migrated", "user_id", userID)
	return true, nil
}

// Store exposes the underlying store for offline tooling (migration scan).
func (m *Manager) Store() Store {
	return m.store
}
