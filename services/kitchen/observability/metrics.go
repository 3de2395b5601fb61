// Copyright (C) 2025 FridgeChef Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package observability provides Prometheus metrics for the kitchen
// service. Metrics are exposed on /metrics; all operations are thread-safe
// via Prometheus's internal locking.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace for all metrics.
const metricsNamespace = "fridgechef"

// Metrics holds the Prometheus collectors for the kitchen service.
// Initialize once at startup via NewMetrics().
type Metrics struct {
	// CredentialOpsTotal counts credential lifecycle operations.
	// Labels: operation (set, status, validate, delete), outcome
	// (success, invalid_credential, unknown_provider, unsupported_model,
	// unavailable, not_configured, error)
	CredentialOpsTotal *prometheus.CounterVec

	// ProbeDurationSeconds measures live key validation latency.
	// Labels: provider
	ProbeDurationSeconds *prometheus.HistogramVec

	// AICallsTotal counts outbound AI generations on behalf of users.
	// Labels: provider, kind (text, vision), outcome (success, error)
	AICallsTotal *prometheus.CounterVec
}

// NewMetrics registers the collectors with the given registerer. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CredentialOpsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "credentials",
			Name:      "operations_total",
			Help:      "Credential lifecycle operations by outcome.",
		}, []string{"operation", "outcome"}),

		ProbeDurationSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "credentials",
			Name:      "probe_duration_seconds",
			Help:      "Latency of live provider key validation probes.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider"}),

		AICallsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "ai",
			Name:      "calls_total",
			Help:      "Outbound AI generation calls by provider and outcome.",
		}, []string{"provider", "kind", "outcome"}),
	}
}
