// Copyright (C) 2025 FridgeChef Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// =============================================================================
// Record
// =============================================================================

// Record is the persisted, encrypted-at-rest credential configuration for
// one user. Exactly one Record exists per user; absent fields mean the user
// has not configured that part.
//
// EncryptedSecret and LegacyEncryptedSecret are alternatives, never merged:
// the legacy field predates multi-provider support and only ever held
// Gemini keys. New writes populate the current fields and leave the legacy
// field untouched; an explicit migration (Manager.MigrateLegacy) retires it.
type Record struct {
	// Provider is the chosen AI provider. Meaningful whenever
	// EncryptedSecret is set; defaulted after Delete.
	Provider Provider `json:"provider,omitempty"`

	// Model is the chosen model. Must be in Provider's supported list
	// whenever EncryptedSecret is set.
	Model string `json:"model,omitempty"`

	// EncryptedSecret is the current API key as a cipher bundle.
	EncryptedSecret string `json:"encrypted_secret,omitempty"`

	// LegacyEncryptedSecret is the pre-multi-provider Gemini key bundle.
	// Read for backward compatibility; never written by Set.
	LegacyEncryptedSecret string `json:"gemini_api_key,omitempty"`

	// UpdatedAt is the time of the last mutation.
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// HasSecret reports whether the user has any usable credential, in either
// the current or the legacy field.
func (r Record) HasSecret() bool {
	return r.EncryptedSecret != "" || r.LegacyEncryptedSecret != ""
}

// =============================================================================
// Store
// =============================================================================

// Store persists one Record per user.
//
// Implementations must make Update atomic per user: a concurrent reader
// never observes a half-written record, and concurrent Updates for the same
// user serialize (last writer wins).
type Store interface {
	// Get returns the user's record, or a zero Record when none exists.
	Get(ctx context.Context, userID string) (Record, error)

	// Update applies mutate to the user's current record (zero Record when
	// none exists) and persists the result as a single atomic write.
	Update(ctx context.Context, userID string, mutate func(Record) Record) error

	// Scan visits every stored record. Used by offline migration; the
	// callback must not mutate through the store while scanning.
	Scan(ctx context.Context, visit func(userID string, rec Record) error) error
}

// =============================================================================
// BadgerStore
// =============================================================================

// credentialKeyPrefix namespaces credential records in the shared database.
const credentialKeyPrefix = "credential/"

// BadgerStore is the BadgerDB-backed Store. Each record is one JSON value
// under "credential/<userID>"; BadgerDB transactions provide the per-user
// atomicity Update requires.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore wraps an open BadgerDB handle. The caller owns the
// database lifecycle.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

var _ Store = (*BadgerStore)(nil)

// Get implements Store.
func (s *BadgerStore) Get(ctx context.Context, userID string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	var rec Record
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(recordKey(userID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return Record{}, fmt.Errorf("load credential record: %w", err)
	}
	return rec, nil
}

// Update implements Store. The read-modify-write runs inside one Badger
// update transaction, so concurrent Set/Delete for the same user serialize
// and the {provider, model, secret} triple is always written together.
func (s *BadgerStore) Update(ctx context.Context, userID string, mutate func(Record) Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		var rec Record
		item, err := txn.Get(recordKey(userID))
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
			// First write for this user: mutate the zero record.
		case err != nil:
			return err
		default:
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return err
			}
		}

		updated := mutate(rec)
		encoded, err := json.Marshal(updated)
		if err != nil {
			return err
		}
		return txn.Set(recordKey(userID), encoded)
	})
	if err != nil {
		return fmt.Errorf("update credential record: %w", err)
	}
	return nil
}

// Scan implements Store.
func (s *BadgerStore) Scan(ctx context.Context, visit func(userID string, rec Record) error) error {
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(credentialKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			userID := strings.TrimPrefix(string(item.Key()), credentialKeyPrefix)
			var rec Record
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return fmt.Errorf("decode record for user %s: %w", userID, err)
			}
			if err := visit(userID, rec); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("scan credential records: %w", err)
	}
	return nil
}

func recordKey(userID string) []byte {
	return []byte(credentialKeyPrefix + userID)
}
