// Copyright (C) 2025 FridgeChef Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers_test

import (
	"encoding/base64"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NavvAbhishek/FridgeChef/services/kitchen/datatypes"
	"github.com/NavvAbhishek/FridgeChef/services/providers"
)

var testImage = base64.StdEncoding.EncodeToString([]byte("not-a-real-jpeg"))

func TestSuggestRecipes_HappyPath(t *testing.T) {
	app := newTestApp(t)
	app.setKey(t, "gemini", "")

	client := &stubAIClient{reply: `{"recipes":[{"name":"Veggie Stir Fry","ingredients":["broccoli","carrot"],"steps":["chop","fry"]}]}`}
	app.client = client

	w := app.do(t, http.MethodPost, "/v1/recipes/suggest", gin.H{
		"ingredients":        []string{"broccoli", "carrot"},
		"dietaryPreferences": []string{"vegetarian"},
		"servings":           2,
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out datatypes.SuggestRecipesResponse
	decodeBody(t, w, &out)
	require.Len(t, out.Recipes, 1)
	assert.Equal(t, "Veggie Stir Fry", out.Recipes[0].Name)

	assert.Contains(t, client.lastPrompt, "broccoli, carrot")
	assert.Contains(t, client.lastPrompt, "vegetarian")
	assert.Contains(t, client.lastPrompt, "serve 2")

	require.NotNil(t, client.lastParams.Temperature)
	assert.InDelta(t, 0.7, float64(*client.lastParams.Temperature), 0.001)
}

func TestSuggestRecipes_StripsMarkdownFences(t *testing.T) {
	app := newTestApp(t)
	app.setKey(t, "gemini", "")
	app.client = &stubAIClient{reply: "```json\n{\"recipes\":[{\"name\":\"Dal\"}]}\n```"}

	w := app.do(t, http.MethodPost, "/v1/recipes/suggest", gin.H{
		"ingredients": []string{"lentils"},
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out datatypes.SuggestRecipesResponse
	decodeBody(t, w, &out)
	require.Len(t, out.Recipes, 1)
	assert.Equal(t, "Dal", out.Recipes[0].Name)
}

func TestSuggestRecipes_NoCredential(t *testing.T) {
	app := newTestApp(t)
	app.client = &stubAIClient{reply: "{}"}

	w := app.do(t, http.MethodPost, "/v1/recipes/suggest", gin.H{
		"ingredients": []string{"rice"},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSuggestRecipes_EmptyIngredients(t *testing.T) {
	app := newTestApp(t)
	app.setKey(t, "gemini", "")
	app.client = &stubAIClient{reply: "{}"}

	w := app.do(t, http.MethodPost, "/v1/recipes/suggest", gin.H{
		"ingredients": []string{},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSuggestRecipes_RevokedKeyMidUse(t *testing.T) {
	app := newTestApp(t)
	app.setKey(t, "grok", "")
	app.client = &stubAIClient{err: &providers.StatusError{
		Provider:   "grok",
		StatusCode: http.StatusUnauthorized,
		Message:    "invalid api key",
	}}

	w := app.do(t, http.MethodPost, "/v1/recipes/suggest", gin.H{
		"ingredients": []string{"rice"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "update it in settings")
}

func TestSuggestRecipes_UnreadableModelReply(t *testing.T) {
	app := newTestApp(t)
	app.setKey(t, "gemini", "")
	app.client = &stubAIClient{reply: "I can't list recipes right now, sorry!"}

	w := app.do(t, http.MethodPost, "/v1/recipes/suggest", gin.H{
		"ingredients": []string{"rice"},
	})
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestDetectIngredients_HappyPath(t *testing.T) {
	app := newTestApp(t)
	app.setKey(t, "gemini", "")

	client := &stubVisionClient{stubAIClient: stubAIClient{
		reply: `{"ingredients":["eggs","spinach","feta"]}`,
	}}
	app.client = client

	w := app.do(t, http.MethodPost, "/v1/ingredients/detect", gin.H{
		"image":    testImage,
		"mimeType": "image/png",
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out datatypes.DetectIngredientsResponse
	decodeBody(t, w, &out)
	assert.Equal(t, []string{"eggs", "spinach", "feta"}, out.Ingredients)
	assert.Equal(t, "image/png", client.lastMimeType)
}

func TestDetectIngredients_DefaultsMimeType(t *testing.T) {
	app := newTestApp(t)
	app.setKey(t, "gemini", "")

	client := &stubVisionClient{stubAIClient: stubAIClient{reply: `{"ingredients":[]}`}}
	app.client = client

	w := app.do(t, http.MethodPost, "/v1/ingredients/detect", gin.H{"image": testImage})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/jpeg", client.lastMimeType)
}

func TestDetectIngredients_TextOnlyProvider(t *testing.T) {
	app := newTestApp(t)
	app.setKey(t, "grok", "")
	// Plain text client without vision support.
	app.client = &stubAIClient{reply: "{}"}

	w := app.do(t, http.MethodPost, "/v1/ingredients/detect", gin.H{"image": testImage})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "does not support image input")
}

func TestDetectIngredients_BadBase64(t *testing.T) {
	app := newTestApp(t)
	app.setKey(t, "gemini", "")
	app.client = &stubVisionClient{}

	w := app.do(t, http.MethodPost, "/v1/ingredients/detect", gin.H{"image": "!!!not-base64!!!"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
