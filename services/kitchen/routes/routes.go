// Copyright (C) 2025 FridgeChef Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/NavvAbhishek/FridgeChef/services/credentials"
	"github.com/NavvAbhishek/FridgeChef/services/kitchen/auth"
	"github.com/NavvAbhishek/FridgeChef/services/kitchen/handlers"
	"github.com/NavvAbhishek/FridgeChef/services/kitchen/middleware"
	"github.com/NavvAbhishek/FridgeChef/services/kitchen/observability"
	"github.com/NavvAbhishek/FridgeChef/services/kitchen/storage"
)

// Deps bundles everything the route table needs.
type Deps struct {
	Version       string
	Credentials   *credentials.Manager
	History       *storage.HistoryStore
	Shopping      *storage.ShoppingStore
	Auth          auth.Provider
	Metrics       *observability.Metrics
	Registry      *prometheus.Registry
	ClientFactory handlers.ClientFactory
	RateLimiter   *middleware.PerUserRateLimiter
}

func SetupRoutes(router *gin.Engine, d Deps) {
	router.GET("/health", handlers.Health(d.Version))
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))

	// API version 1 group
	v1 := router.Group("/v1")
	v1.Use(middleware.RequireAuth(d.Auth))
	{
		settings := v1.Group("/settings")
		settings.Use(d.RateLimiter.Middleware())
		{
			settings.POST("/ai-key", handlers.SetAIKey(d.Credentials, d.Metrics))
			settings.GET("/ai-key", handlers.GetAIKeyStatus(d.Credentials, d.Metrics))
			settings.DELETE("/ai-key", handlers.DeleteAIKey(d.Credentials, d.Metrics))
			settings.POST("/ai-key/validate", handlers.ValidateAIKey(d.Credentials, d.Metrics))
		}

		v1.POST("/ingredients/detect", handlers.DetectIngredients(d.Credentials, d.ClientFactory, d.Metrics))
		v1.POST("/recipes/suggest", handlers.SuggestRecipes(d.Credentials, d.ClientFactory, d.Metrics))

		history := v1.Group("/history")
		{
			history.POST("", handlers.AddHistory(d.History))
			history.GET("", handlers.ListHistory(d.History))
			history.DELETE("/:id", handlers.DeleteHistory(d.History))
		}

		shopping := v1.Group("/shopping-list")
		{
			shopping.POST("", handlers.AddShoppingItem(d.Shopping))
			shopping.GET("", handlers.ListShoppingItems(d.Shopping))
			shopping.PATCH("/:id", handlers.UpdateShoppingItem(d.Shopping))
			shopping.DELETE("/:id", handlers.DeleteShoppingItem(d.Shopping))
		}

		v1.GET("/stats/sustainability", handlers.SustainabilityStats(d.History))
	}
}
