// Copyright (C) 2025 FridgeChef Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("document not found")

const historyKeyPrefix = "history/"

// HistoryEntry is one cooked recipe in a user's history.
type HistoryEntry struct {
	ID          string    `json:"id"`
	RecipeName  string    `json:"recipe_name"`
	Ingredients []string  `json:"ingredients,omitempty"`
	Servings    int       `json:"servings,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CookedAt    time.Time `json:"cooked_at"`
}

// HistoryStore persists cooking history entries, many per user.
type HistoryStore struct {
	db *DB
}

func NewHistoryStore(db *DB) *HistoryStore {
	return &HistoryStore{db: db}
}

// Add stores a new entry, assigning its ID and defaulting CookedAt to now.
func (s *HistoryStore) Add(ctx context.Context, userID string, entry HistoryEntry) (HistoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return HistoryEntry{}, err
	}
	entry.ID = uuid.NewString()
	if entry.CookedAt.IsZero() {
		entry.CookedAt = time.Now().UTC()
	}

	encoded, err := json.Marshal(entry)
	if err != nil {
		return HistoryEntry{}, fmt.Errorf("encode history entry: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(historyKey(userID, entry.ID), encoded)
	})
	if err != nil {
		return HistoryEntry{}, fmt.Errorf("store history entry: %w", err)
	}
	return entry, nil
}

// List returns the user's history, newest first.
func (s *HistoryStore) List(ctx context.Context, userID string) ([]HistoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries := []HistoryEntry{}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(historyKeyPrefix + userID + "/")
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var entry HistoryEntry
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &entry)
			}); err != nil {
				return err
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CookedAt.After(entries[j].CookedAt)
	})
	return entries, nil
}

// Delete removes one entry. Returns ErrNotFound when it does not exist.
func (s *HistoryStore) Delete(ctx context.Context, userID, entryID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		key := historyKey(userID, entryID)
		if _, err := txn.Get(key); errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		} else if err != nil {
			return err
		}
		return txn.Delete(key)
	})
	if errors.Is(err, ErrNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("delete history entry: %w", err)
	}
	return nil
}

func historyKey(userID, entryID string) []byte {
	return []byte(historyKeyPrefix + userID + "/" + entryID)
}
