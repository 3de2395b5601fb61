// Copyright (C) 2025 FridgeChef Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"log/slog"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NavvAbhishek/FridgeChef/services/kitchen/datatypes"
	"github.com/NavvAbhishek/FridgeChef/services/kitchen/middleware"
	"github.com/NavvAbhishek/FridgeChef/services/kitchen/storage"
)

// Rough per-ingredient averages. An ingredient cooked instead of discarded
// saves its own weight plus the emissions of producing a replacement.
const (
	avgIngredientWeightKg = 0.15
	co2PerFoodKg          = 2.5
)

// SustainabilityStats aggregates the caller's cooking history into waste
// reduction estimates.
func SustainabilityStats(store *storage.HistoryStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)

		entries, err := store.List(c.Request.Context(), userID)
		if err != nil {
			slog.Error("history read failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong, please try again later"})
			return
		}

		stats := datatypes.SustainabilityStats{RecipesCooked: len(entries)}
		for _, e := range entries {
			stats.IngredientsUsed += len(e.Ingredients)
		}
		stats.EstimatedFoodSavedKg = round2(float64(stats.IngredientsUsed) * avgIngredientWeightKg)
		stats.EstimatedCO2SavedKg = round2(stats.EstimatedFoodSavedKg * co2PerFoodKg)

		c.JSON(http.StatusOK, stats)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
