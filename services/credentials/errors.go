// Copyright (C) 2025 FridgeChef Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package credentials implements the per-user AI credential lifecycle:
// encrypting, storing, validating, and resolving API keys for the
// supported AI providers.
//
// The package is built from five pieces:
//
//   - Cipher: authenticated encryption of API keys under a process-wide
//     master secret (cipher.go)
//   - Provider registry: the static catalog of providers and their
//     supported models (registry.go)
//   - KeyValidator: confirms a key is live-usable before it is trusted
//     (validator.go)
//   - Store: atomic persistence of one encrypted record per user (store.go)
//   - Manager: the orchestration layer the HTTP handlers and AI callers
//     consume (manager.go)
//
// # Security Considerations
//
// Plaintext keys exist in memory only for the duration of a call. They are
// never persisted, never written to a response body, and never logged.
// Error values produced by this package must not embed the key material;
// the sentinels below carry classification only.
package credentials

import "errors"

// Sentinel errors for credential operations. Callers classify failures
// with errors.Is; call sites wrap these with fmt.Errorf("...: %w", ...)
// to add context without losing the classification.
var (
	// ErrMasterSecretMissing is returned when the process-wide master
	// secret is not configured. This is a deployment error, not a user
	// error, and is fatal for every cipher operation.
	ErrMasterSecretMissing = errors.New("master secret is not configured")

	// ErrEmptyPlaintext is returned when an empty string is offered
	// for encryption or storage. Empty API keys are never valid.
	ErrEmptyPlaintext = errors.New("plaintext must not be empty")

	// ErrMalformedCiphertext is returned when a stored bundle does not
	// split into the expected salt:nonce:tag:ciphertext form, or any
	// segment fails hex decoding. Indicates data corruption.
	ErrMalformedCiphertext = errors.New("malformed ciphertext bundle")

	// ErrDecryptionFailed is returned when the authentication tag does
	// not verify. The bundle was tampered with, or it was produced under
	// a different master secret. Never auto-repaired.
	ErrDecryptionFailed = errors.New("decryption failed: authentication tag mismatch")

	// ErrUnknownProvider is returned when a provider identifier is not
	// in the registry.
	ErrUnknownProvider = errors.New("unknown AI provider")

	// ErrUnsupportedModel is returned when a model is not in the chosen
	// provider's supported list. User-actionable.
	ErrUnsupportedModel = errors.New("model not supported by provider")

	// ErrInvalidCredential is returned when the provider rejected the
	// API key (wrong, revoked, or disabled). User-actionable.
	ErrInvalidCredential = errors.New("provider rejected the API key")

	// ErrProviderUnavailable is returned for transient failures while
	// probing a provider: timeouts, rate limits, 5xx responses, network
	// errors. Says nothing about the key's validity. Retryable.
	ErrProviderUnavailable = errors.New("provider is unavailable")

	// ErrNotConfigured is returned when a user has no stored credential,
	// neither in the current fields nor in the legacy field.
	ErrNotConfigured = errors.New("no AI credential configured")
)
