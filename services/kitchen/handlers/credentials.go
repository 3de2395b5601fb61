// Copyright (C) 2025 FridgeChef Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package handlers provides the HTTP request handlers for the kitchen
// service. Handlers are factories taking their dependencies as arguments
// and returning gin.HandlerFunc, so routes.go stays a plain wiring table.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/NavvAbhishek/FridgeChef/services/credentials"
	"github.com/NavvAbhishek/FridgeChef/services/kitchen/datatypes"
	"github.com/NavvAbhishek/FridgeChef/services/kitchen/middleware"
	"github.com/NavvAbhishek/FridgeChef/services/kitchen/observability"
)

// SetAIKey validates and stores the caller's provider API key.
func SetAIKey(mgr *credentials.Manager, metrics *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)

		var req datatypes.SetAIKeyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "apiKey and provider are required"})
			return
		}

		provider := credentials.Provider(req.Provider)
		start := time.Now()
		status, err := mgr.Set(c.Request.Context(), userID, req.APIKey, provider, req.Model)
		if credentials.ValidProvider(provider) {
			// Raw request input would blow up label cardinality.
			metrics.ProbeDurationSeconds.WithLabelValues(req.Provider).Observe(time.Since(start).Seconds())
		}
		if err != nil {
			metrics.CredentialOpsTotal.WithLabelValues("set", outcomeLabel(err)).Inc()
			writeCredentialError(c, err)
			return
		}

		metrics.CredentialOpsTotal.WithLabelValues("set", "success").Inc()
		c.JSON(http.StatusOK, status)
	}
}

// GetAIKeyStatus reports whether the caller has a working credential and
// which provider/model it targets. The key itself is never returned.
func GetAIKeyStatus(mgr *credentials.Manager, metrics *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)

		status, err := mgr.Status(c.Request.Context(), userID)
		if err != nil {
			metrics.CredentialOpsTotal.WithLabelValues("status", "error").Inc()
			writeCredentialError(c, err)
			return
		}
		metrics.CredentialOpsTotal.WithLabelValues("status", "success").Inc()
		c.JSON(http.StatusOK, status)
	}
}

// ValidateAIKey re-checks the stored credential against its provider
// without changing anything.
func ValidateAIKey(mgr *credentials.Manager, metrics *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)

		if err := mgr.ValidateStored(c.Request.Context(), userID); err != nil {
			metrics.CredentialOpsTotal.WithLabelValues("validate", outcomeLabel(err)).Inc()
			writeCredentialError(c, err)
			return
		}
		metrics.CredentialOpsTotal.WithLabelValues("validate", "success").Inc()
		c.JSON(http.StatusOK, gin.H{"valid": true})
	}
}

// DeleteAIKey removes the caller's credential. Idempotent.
func DeleteAIKey(mgr *credentials.Manager, metrics *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)

		if err := mgr.Delete(c.Request.Context(), userID); err != nil {
			metrics.CredentialOpsTotal.WithLabelValues("delete", "error").Inc()
			writeCredentialError(c, err)
			return
		}
		metrics.CredentialOpsTotal.WithLabelValues("delete", "success").Inc()
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}

// writeCredentialError maps the credential error taxonomy to transport
// responses. User-actionable failures carry a concrete message; operator
// failures (master secret, corrupt records) present as a generic retry and
// keep the details in the logs.
func writeCredentialError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, credentials.ErrUnknownProvider):
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown AI provider"})
	case errors.Is(err, credentials.ErrUnsupportedModel):
		c.JSON(http.StatusBadRequest, gin.H{"error": "model is not supported by the chosen provider"})
	case errors.Is(err, credentials.ErrEmptyPlaintext):
		c.JSON(http.StatusBadRequest, gin.H{"error": "API key must not be empty"})
	case errors.Is(err, credentials.ErrInvalidCredential):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "the provider rejected this API key; check it and try again"})
	case errors.Is(err, credentials.ErrProviderUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "the provider could not be reached to verify the key; try again shortly"})
	case errors.Is(err, credentials.ErrNotConfigured):
		c.JSON(http.StatusNotFound, gin.H{"error": "no AI key configured; add one in settings"})
	default:
		// Master secret, malformed ciphertext, tag mismatch, storage.
		slog.Error("credential operation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong, please try again later"})
	}
}

// outcomeLabel folds an error into a bounded metric label set.
func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, credentials.ErrInvalidCredential):
		return "invalid_credential"
	case errors.Is(err, credentials.ErrUnknownProvider):
		return "unknown_provider"
	case errors.Is(err, credentials.ErrUnsupportedModel):
		return "unsupported_model"
	case errors.Is(err, credentials.ErrProviderUnavailable):
		return "unavailable"
	case errors.Is(err, credentials.ErrNotConfigured):
		return "not_configured"
	default:
		return "error"
	}
}
