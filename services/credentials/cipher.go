// Copyright (C) 2025 FridgeChef Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package credentials

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/awnumar/memguard"
	"golang.org/x/crypto/pbkdf2"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// saltLength is the per-operation KDF salt size in bytes.
	saltLength = 32

	// nonceLength is the AES-GCM nonce size in bytes. 16-byte nonces are
	// part of the stored bundle format and cannot change without a data
	// migration.
	nonceLength = 16

	// tagLength is the GCM authentication tag size in bytes.
	tagLength = 16

	// keyLength is the derived AES key size in bytes (AES-256).
	keyLength = 32

	// kdfIterations is the PBKDF2 iteration count. High enough that
	// brute-forcing the master secret from a leaked bundle is infeasible.
	kdfIterations = 100_000

	// partDelimiter joins the four hex-encoded bundle segments. Hex output
	// never contains ':' so splitting is unambiguous.
	partDelimiter = ":"
)

// =============================================================================
// Cipher
// =============================================================================

// Cipher provides authenticated encryption of API keys under a process-wide
// master secret.
//
// # Description
//
// Every Encrypt call draws a fresh random salt and nonce, derives an AES-256
// key from the master secret with PBKDF2-SHA256, and seals the plaintext
// with AES-GCM. The result is a self-describing bundle:
//
//	hex(salt):hex(nonce):hex(tag):hex(ciphertext)
//
// Decrypt re-derives the key from the embedded salt and refuses to return
// plaintext unless the authentication tag verifies.
//
// # Lifecycle
//
// Construct once at process start from the deployment environment and share
// the instance. The master secret is held in a memguard enclave so it is
// encrypted at rest in process memory and only opened for the duration of a
// key derivation.
//
// # Thread Safety
//
// Cipher is immutable after construction and safe for concurrent use.
type Cipher struct {
	master *memguard.Enclave
}

// NewCipher creates a Cipher from the master secret.
//
// Returns ErrMasterSecretMissing when the secret is empty. Callers should
// treat that as a fatal configuration error at startup rather than running
// with encryption silently disabled.
func NewCipher(masterSecret string) (*Cipher, error) {
	if masterSecret == "" {
		return nil, ErrMasterSecretMissing
	}
	// NewEnclave wipes the source buffer; copy so the caller's string
	// backing store is not aliased.
	return &Cipher{master: memguard.NewEnclave([]byte(masterSecret))}, nil
}

// Encrypt seals the plaintext and returns the four-part hex bundle.
//
// Fails with ErrEmptyPlaintext for empty input. Two calls with the same
// plaintext produce different bundles: salt and nonce are random per call
// and never reused.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPlaintext
	}

	salt := make([]byte, saltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	nonce := make([]byte, nonceLength)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	aead, err := c.newAEAD(salt)
	if err != nil {
		return "", err
	}

	sealed := aead.Seal(nil, nonce, []byte(plaintext), nil)
	ciphertext, tag := sealed[:len(sealed)-tagLength], sealed[len(sealed)-tagLength:]

	return strings.Join([]string{
		hex.EncodeToString(salt),
		hex.EncodeToString(nonce),
		hex.EncodeToString(tag),
		hex.EncodeToString(ciphertext),
	}, partDelimiter), nil
}

// Decrypt opens a bundle produced by Encrypt and returns the plaintext.
//
// Fails with ErrMalformedCiphertext when the bundle does not decompose into
// exactly four valid hex segments with the expected salt/nonce/tag sizes,
// and with ErrDecryptionFailed when the authentication tag does not verify
// (tampered data or a rotated master secret). Garbage plaintext is never
// returned.
func (c *Cipher) Decrypt(bundle string) (string, error) {
	parts := strings.Split(bundle, partDelimiter)
	if len(parts) != 4 {
		return "", fmt.Errorf("%w: expected 4 segments, got %d", ErrMalformedCiphertext, len(parts))
	}

	segments := make([][]byte, 4)
	for i, part := range parts {
		decoded, err := hex.DecodeString(part)
		if err != nil {
			return "", fmt.Errorf("%w: segment %d is not valid hex", ErrMalformedCiphertext, i)
		}
		segments[i] = decoded
	}
	salt, nonce, tag, ciphertext := segments[0], segments[1], segments[2], segments[3]
	if len(salt) != saltLength || len(nonce) != nonceLength || len(tag) != tagLength {
		return "", fmt.Errorf("%w: unexpected segment length", ErrMalformedCiphertext)
	}

	aead, err := c.newAEAD(salt)
	if err != nil {
		return "", err
	}

	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}
	return string(plaintext), nil
}

// newAEAD derives the AES-256 key for the given salt and builds the GCM AEAD.
// The derived key lives only on this call's stack frames.
func (c *Cipher) newAEAD(salt []byte) (cipher.AEAD, error) {
	buf, err := c.master.Open()
	if err != nil {
		return nil, fmt.Errorf("open master secret enclave: %w", err)
	}
	defer buf.Destroy()

	key := pbkdf2.Key(buf.Bytes(), salt, kdfIterations, keyLength, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create AES cipher: %w", err)
	}
	aead, err := cipher.NewGCMWithNonceSize(block, nonceLength)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}
	return aead, nil
}
