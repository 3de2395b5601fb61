// Copyright (C) 2025 FridgeChef Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// PerUserRateLimiter throttles requests per authenticated user. It guards
// the credential endpoints: every set/validate triggers a live provider
// probe, so an unthrottled caller could burn provider quota or brute-force
// keys through us.
type PerUserRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewPerUserRateLimiter allows ratePerSecond sustained requests with the
// given burst per user.
func NewPerUserRateLimiter(ratePerSecond float64, burst int) *PerUserRateLimiter {
	return &PerUserRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(ratePerSecond),
		burst:    burst,
	}
}

// Middleware rejects over-limit requests with 429. Must run after
// RequireAuth; unauthenticated requests fall back to a shared bucket.
func (l *PerUserRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := UserID(c)
		if !l.limiter(userID).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "too many requests, slow down",
			})
			return
		}
		c.Next()
	}
}

func (l *PerUserRateLimiter) limiter(userID string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	limiter, ok := l.limiters[userID]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[userID] = limiter
	}
	return limiter
}
