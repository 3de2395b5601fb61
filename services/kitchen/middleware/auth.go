// Copyright (C) 2025 FridgeChef Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package middleware provides HTTP middleware for the kitchen service.
//
// # Authentication Flow
//
// The auth middleware extracts a bearer token from the Authorization
// header, validates it with the configured auth.Provider, and stores the
// resulting identity in the Gin context for downstream handlers:
//
//	Request
//	   │
//	   ▼
//	RequireAuth
//	   │
//	   ├─► Extract token from "Authorization: Bearer <token>"
//	   │
//	   ├─► provider.Validate(ctx, token)
//	   │
//	   └─► Store auth.Info in context
//	           │
//	           ▼
//	       Handler (retrieves via UserID)
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/NavvAbhishek/FridgeChef/services/kitchen/auth"
)

// authInfoKey is the context key for the authenticated identity.
const authInfoKey = "fridgechef_auth_info"

// RequireAuth authenticates every request with the given provider and
// aborts with 401 when the token does not resolve to a user.
func RequireAuth(provider auth.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)

		info, err := provider.Validate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, auth.ErrUnauthorized) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication failed"})
			return
		}

		c.Set(authInfoKey, info)
		c.Next()
	}
}

// UserID returns the authenticated user's identifier, or "" when the
// request did not pass RequireAuth.
func UserID(c *gin.Context) string {
	value, exists := c.Get(authInfoKey)
	if !exists {
		return ""
	}
	info, ok := value.(*auth.Info)
	if !ok || info == nil {
		return ""
	}
	return info.UserID
}

// extractBearerToken parses "Authorization: Bearer <token>". Returns ""
// when the header is missing or malformed. The scheme is case-insensitive
// per RFC 7235.
func extractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
