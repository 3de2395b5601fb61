// Copyright (C) 2025 FridgeChef Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NavvAbhishek/FridgeChef/services/kitchen/datatypes"
	"github.com/NavvAbhishek/FridgeChef/services/kitchen/middleware"
	"github.com/NavvAbhishek/FridgeChef/services/kitchen/storage"
)

// AddShoppingItem appends one item to the caller's shopping list.
func AddShoppingItem(store *storage.ShoppingStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)

		var req datatypes.AddShoppingItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
			return
		}

		item, err := store.Add(c.Request.Context(), userID, storage.ShoppingItem{
			Name:     req.Name,
			Quantity: req.Quantity,
		})
		if err != nil {
			slog.Error("shopping list write failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong, please try again later"})
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

// ListShoppingItems returns the caller's shopping list, oldest first.
func ListShoppingItems(store *storage.ShoppingStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)

		items, err := store.List(c.Request.Context(), userID)
		if err != nil {
			slog.Error("shopping list read failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong, please try again later"})
			return
		}
		if items == nil {
			items = []storage.ShoppingItem{}
		}
		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}

// UpdateShoppingItem toggles an item's checked state.
func UpdateShoppingItem(store *storage.ShoppingStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)
		itemID := c.Param("id")

		var req datatypes.UpdateShoppingItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "checked is required"})
			return
		}

		if err := store.SetChecked(c.Request.Context(), userID, itemID, *req.Checked); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "shopping item not found"})
				return
			}
			slog.Error("shopping list update failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong, please try again later"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"updated": true})
	}
}

// DeleteShoppingItem removes one item from the list.
func DeleteShoppingItem(store *storage.ShoppingStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)
		itemID := c.Param("id")

		if err := store.Delete(c.Request.Context(), userID, itemID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "shopping item not found"})
				return
			}
			slog.Error("shopping list delete failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong, please try again later"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}
