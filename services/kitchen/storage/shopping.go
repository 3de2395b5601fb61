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

const shoppingKeyPrefix = "shopping/"

// ShoppingItem is one item on a user's shopping list.
type ShoppingItem struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Quantity string    `json:"quantity,omitempty"`
	Checked  bool      `json:"checked"`
	AddedAt  time.Time `json:"added_at"`
}

// ShoppingStore persists shopping list items, many per user.
type ShoppingStore struct {
	db *DB
}

func NewShoppingStore(db *DB) *ShoppingStore {
	return &ShoppingStore{db: db}
}

// Add stores a new item, assigning its ID and AddedAt.
func (s *ShoppingStore) Add(ctx context.Context, userID string, item ShoppingItem) (ShoppingItem, error) {
	if err := ctx.Err(); err != nil {
		return ShoppingItem{}, err
	}
	item.ID = uuid.NewString()
	item.AddedAt = time.Now().UTC()

	encoded, err := json.Marshal(item)
	if err != nil {
		return ShoppingItem{}, fmt.Errorf("encode shopping item: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(shoppingKey(userID, item.ID), encoded)
	})
	if err != nil {
		return ShoppingItem{}, fmt.Errorf("store shopping item: %w", err)
	}
	return item, nil
}

// List returns the user's shopping list, oldest first.
func (s *ShoppingStore) List(ctx context.Context, userID string) ([]ShoppingItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	items := []ShoppingItem{}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(shoppingKeyPrefix + userID + "/")
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var item ShoppingItem
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &item)
			}); err != nil {
				return err
			}
			items = append(items, item)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list shopping items: %w", err)
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].AddedAt.Before(items[j].AddedAt)
	})
	return items, nil
}

// SetChecked marks an item checked or unchecked.
func (s *ShoppingStore) SetChecked(ctx context.Context, userID, itemID string, checked bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		key := shoppingKey(userID, itemID)
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		var decoded ShoppingItem
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &decoded)
		}); err != nil {
			return err
		}
		decoded.Checked = checked
		encoded, err := json.Marshal(decoded)
		if err != nil {
			return err
		}
		return txn.Set(key, encoded)
	})
	if errors.Is(err, ErrNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("update shopping item: %w", err)
	}
	return nil
}

// Delete removes one item. Returns ErrNotFound when it does not exist.
func (s *ShoppingStore) Delete(ctx context.Context, userID, itemID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		key := shoppingKey(userID, itemID)
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
		return fmt.Errorf("delete shopping item: %w", err)
	}
	return nil
}

func shoppingKey(userID, itemID string) []byte {
	return []byte(shoppingKeyPrefix + userID + "/" + itemID)
}
