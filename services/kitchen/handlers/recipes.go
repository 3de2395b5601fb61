// Copyright (C) 2025 FridgeChef Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/NavvAbhishek/FridgeChef/services/credentials"
	"github.com/NavvAbhishek/FridgeChef/services/kitchen/datatypes"
	"github.com/NavvAbhishek/FridgeChef/services/kitchen/middleware"
	"github.com/NavvAbhishek/FridgeChef/services/kitchen/observability"
	"github.com/NavvAbhishek/FridgeChef/services/providers"
)

const (
	detectPrompt = `You are an ingredient recognition assistant. Look at the image ` +
		`and list every distinct food ingredient you can identify. Respond with a ` +
		`JSON object of the form {"ingredients": ["item", ...]} and nothing else. ` +
		`Use lowercase singular English names.`

	suggestPromptTemplate = `You are a resourceful home cook. Suggest up to 3 recipes ` +
		`that primarily use these available ingredients: %s.%s%s Assume a normally ` +
		`stocked pantry (salt, oil, common spices). Respond with a JSON object of ` +
		`the form {"recipes": [{"name": "...", "description": "...", ` +
		`"ingredients": ["..."], "steps": ["..."]}]} and nothing else.`
)

// ClientFactory builds an outbound AI client for a resolved credential.
// Injected so handler tests never dial a real provider.
type ClientFactory func(cfg providers.Config) (providers.Client, error)

// DetectIngredients identifies ingredients in an uploaded photo using the
// caller's own AI credential.
func DetectIngredients(mgr *credentials.Manager, newClient ClientFactory, metrics *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)

		var req datatypes.DetectIngredientsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image is required"})
			return
		}
		imageData, err := base64.StdEncoding.DecodeString(req.Image)
		if err != nil || len(imageData) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image must be valid base64"})
			return
		}
		mimeType := req.MimeType
		if mimeType == "" {
			mimeType = "image/jpeg"
		}

		client, cred, ok := resolveClient(c, mgr, newClient, userID)
		if !ok {
			return
		}
		vision, ok := client.(providers.VisionClient)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "the configured provider does not support image input; switch to gemini for photo detection"})
			return
		}

		reply, err := vision.GenerateVision(c.Request.Context(), detectPrompt, imageData, mimeType, providers.GenerationParams{})
		if err != nil {
			metrics.AICallsTotal.WithLabelValues(string(cred.Provider), "vision", "error").Inc()
			writeProviderError(c, err)
			return
		}
		metrics.AICallsTotal.WithLabelValues(string(cred.Provider), "vision", "success").Inc()

		var out datatypes.DetectIngredientsResponse
		if err := unmarshalModelJSON(reply, &out); err != nil {
			slog.Warn("unparseable ingredient detection reply", "error", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "the model returned an unreadable answer; try again"})
			return
		}
		if out.Ingredients == nil {
			out.Ingredients = []string{}
		}
		c.JSON(http.StatusOK, out)
	}
}

// SuggestRecipes generates recipe ideas from the ingredients on hand.
func SuggestRecipes(mgr *credentials.Manager, newClient ClientFactory, metrics *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)

		var req datatypes.SuggestRecipesRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "at least one ingredient is required"})
			return
		}

		client, cred, ok := resolveClient(c, mgr, newClient, userID)
		if !ok {
			return
		}

		var dietary, servings string
		if len(req.Dietary) > 0 {
			dietary = " Dietary preferences: " + strings.Join(req.Dietary, ", ") + "."
		}
		if req.Servings > 0 {
			servings = fmt.Sprintf(" Each recipe should serve %d.", req.Servings)
		}
		prompt := fmt.Sprintf(suggestPromptTemplate, strings.Join(req.Ingredients, ", "), dietary, servings)

		temperature := float32(0.7)
		reply, err := client.Generate(c.Request.Context(), prompt, providers.GenerationParams{Temperature: &temperature})
		if err != nil {
			metrics.AICallsTotal.WithLabelValues(string(cred.Provider), "text", "error").Inc()
			writeProviderError(c, err)
			return
		}
		metrics.AICallsTotal.WithLabelValues(string(cred.Provider), "text", "success").Inc()

		var out datatypes.SuggestRecipesResponse
		if err := unmarshalModelJSON(reply, &out); err != nil {
			slog.Warn("unparseable recipe suggestion reply", "error", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "the model returned an unreadable answer; try again"})
			return
		}
		if out.Recipes == nil {
			out.Recipes = []datatypes.Recipe{}
		}
		c.JSON(http.StatusOK, out)
	}
}

// resolveClient decrypts the caller's credential and builds a provider
// client from it. Writes the error response itself on failure. The
// decrypted secret stays inside the returned client configuration.
func resolveClient(c *gin.Context, mgr *credentials.Manager, newClient ClientFactory, userID string) (providers.Client, credentials.ResolvedCredential, bool) {
	cred, err := mgr.ResolveSecret(c.Request.Context(), userID)
	if err != nil {
		writeCredentialError(c, err)
		return nil, credentials.ResolvedCredential{}, false
	}
	client, err := newClient(providers.Config{
		Provider: string(cred.Provider),
		APIKey:   cred.Secret,
		Model:    cred.Model,
	})
	if err != nil {
		slog.Error("provider client construction failed", "provider", cred.Provider, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong, please try again later"})
		return nil, credentials.ResolvedCredential{}, false
	}
	return client, cred, true
}

// writeProviderError maps an outbound AI call failure to a response. A 401
// from the provider means the stored key went bad after validation (revoked
// or expired), which the caller can fix; everything else is the provider's
// problem.
func writeProviderError(c *gin.Context, err error) {
	var statusErr *providers.StatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.StatusCode == http.StatusUnauthorized || statusErr.StatusCode == http.StatusForbidden:
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "the provider rejected your API key; update it in settings"})
			return
		case statusErr.StatusCode == http.StatusTooManyRequests:
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "the provider is rate limiting your key; wait a moment and retry"})
			return
		}
	}
	if c.Request.Context().Err() == context.DeadlineExceeded {
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "the provider took too long to answer"})
		return
	}
	slog.Warn("outbound AI call failed", "error", err)
	c.JSON(http.StatusBadGateway, gin.H{"error": "the provider could not be reached; try again shortly"})
}

// unmarshalModelJSON parses a model reply that should be a JSON object but
// often arrives wrapped in markdown fences or surrounded by prose. It
// unmarshals the outermost {...} span.
func unmarshalModelJSON(reply string, v any) error {
	s := strings.TrimSpace(reply)
	if after, ok := strings.CutPrefix(s, "```json"); ok {
		s = after
	} else if after, ok := strings.CutPrefix(s, "```"); ok {
		s = after
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end <= start {
		return fmt.Errorf("no JSON object in model reply")
	}
	return json.Unmarshal([]byte(s[start:end+1]), v)
}
