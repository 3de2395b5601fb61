// Copyright (C) 2025 FridgeChef Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package datatypes defines the request and response shapes of the kitchen
// HTTP API. Binding tags are enforced by Gin's validator on ShouldBindJSON.
package datatypes

// SetAIKeyRequest configures the caller's AI provider credential.
// Model is optional; the provider's default model is used when omitted.
type SetAIKeyRequest struct {
	APIKey   string `json:"apiKey" binding:"required"`
	Provider string `json:"provider" binding:"required"`
	Model    string `json:"model"`
}

// DetectIngredientsRequest carries one photographed fridge/pantry image.
type DetectIngredientsRequest struct {
	// Image is the base64-encoded image bytes (no data: URL prefix).
	Image    string `json:"image" binding:"required"`
	MimeType string `json:"mimeType"`
}

// DetectIngredientsResponse lists the ingredients the model identified.
type DetectIngredientsResponse struct {
	Ingredients []string `json:"ingredients"`
}

// SuggestRecipesRequest asks for recipe ideas from available ingredients.
type SuggestRecipesRequest struct {
	Ingredients []string `json:"ingredients" binding:"required,min=1,dive,required"`
	Dietary     []string `json:"dietaryPreferences"`
	Servings    int      `json:"servings" binding:"omitempty,min=1,max=12"`
}

// Recipe is one suggested recipe.
type Recipe struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Ingredients []string `json:"ingredients,omitempty"`
	Steps       []string `json:"steps,omitempty"`
}

// SuggestRecipesResponse carries the parsed suggestions.
type SuggestRecipesResponse struct {
	Recipes []Recipe `json:"recipes"`
}

// AddHistoryRequest records a cooked recipe.
type AddHistoryRequest struct {
	RecipeName  string   `json:"recipeName" binding:"required"`
	Ingredients []string `json:"ingredients"`
	Servings    int      `json:"servings" binding:"omitempty,min=1"`
	Notes       string   `json:"notes"`
}

// AddShoppingItemRequest adds one item to the shopping list.
type AddShoppingItemRequest struct {
	Name     string `json:"name" binding:"required"`
	Quantity string `json:"quantity"`
}

// UpdateShoppingItemRequest toggles an item's checked state.
type UpdateShoppingItemRequest struct {
	Checked *bool `json:"checked" binding:"required"`
}

// SustainabilityStats summarizes the impact of cooking from the fridge
// instead of discarding ingredients.
type SustainabilityStats struct {
	RecipesCooked        int     `json:"recipesCooked"`
	IngredientsUsed      int     `json:"ingredientsUsed"`
	EstimatedFoodSavedKg float64 `json:"estimatedFoodSavedKg"`
	EstimatedCO2SavedKg  float64 `json:"estimatedCo2SavedKg"`
}
