// Copyright (C) 2025 FridgeChef Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/NavvAbhishek/FridgeChef/services/kitchen/auth"
)

func newRateLimitedRouter(limiter *PerUserRateLimiter, tokens map[string]string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/limited",
		RequireAuth(auth.NewStaticTokenProvider(tokens)),
		limiter.Middleware(),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)
	return router
}

func doLimited(router *gin.Engine, token string) int {
	req := httptest.NewRequest(http.MethodGet, "/limited", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w.Code
}

func TestPerUserRateLimiter_BurstThenThrottle(t *testing.T) {
	limiter := NewPerUserRateLimiter(0.001, 2)
	router := newRateLimitedRouter(limiter, map[string]string{"tok": "alice"})

	if code := doLimited(router, "tok"); code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", code)
	}
	if code := doLimited(router, "tok"); code != http.StatusOK {
		t.Fatalf("second request status = %d, want 200", code)
	}
	if code := doLimited(router, "tok"); code != http.StatusTooManyRequests {
		t.Fatalf("third request status = %d, want 429", code)
	}
}

func TestPerUserRateLimiter_UsersDoNotShareBuckets(t *testing.T) {
	limiter := NewPerUserRateLimiter(0.001, 1)
	router := newRateLimitedRouter(limiter, map[string]string{
		"tok-a": "alice",
		"tok-b": "bob",
	})

	if code := doLimited(router, "tok-a"); code != http.StatusOK {
		t.Fatalf("alice status = %d, want 200", code)
	}
	if code := doLimited(router, "tok-a"); code != http.StatusTooManyRequests {
		t.Fatalf("alice second status = %d, want 429", code)
	}
	// Bob still has a full bucket.
	if code := doLimited(router, "tok-b"); code != http.StatusOK {
		t.Fatalf("bob status = %d, want 200", code)
	}
}
