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

// AddHistory records a recipe the caller cooked.
func AddHistory(store *storage.HistoryStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)

		var req datatypes.AddHistoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "recipeName is required"})
			return
		}

		entry, err := store.Add(c.Request.Context(), userID, storage.HistoryEntry{
			RecipeName:  req.RecipeName,
			Ingredients: req.Ingredients,
			Servings:    req.Servings,
			Notes:       req.Notes,
		})
		if err != nil {
			slog.Error("history write failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong, please try again later"})
			return
		}
		c.JSON(http.StatusCreated, entry)
	}
}

// ListHistory returns the caller's cooking history, newest first.
func ListHistory(store *storage.HistoryStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)

		entries, err := store.List(c.Request.Context(), userID)
		if err != nil {
			slog.Error("history read failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong, please try again later"})
			return
		}
		if entries == nil {
			entries = []storage.HistoryEntry{}
		}
		c.JSON(http.StatusOK, gin.H{"entries": entries})
	}
}

// DeleteHistory removes one history entry.
func DeleteHistory(store *storage.HistoryStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)
		entryID := c.Param("id")

		if err := store.Delete(c.Request.Context(), userID, entryID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "history entry not found"})
				return
			}
			slog.Error("history delete failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong, please try again later"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}
