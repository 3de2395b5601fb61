// Copyright (C) 2025 FridgeChef Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewMetrics_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.CredentialOpsTotal.WithLabelValues("set", "success").Inc()
	m.CredentialOpsTotal.WithLabelValues("set", "invalid_credential").Add(2)
	m.ProbeDurationSeconds.WithLabelValues("gemini").Observe(0.42)
	m.AICallsTotal.WithLabelValues("grok", "text", "success").Inc()

	if got := testutil.ToFloat64(m.CredentialOpsTotal.WithLabelValues("set", "success")); got != 1 {
		t.Errorf("set/success counter = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.CredentialOpsTotal.WithLabelValues("set", "invalid_credential")); got != 2 {
		t.Errorf("set/invalid_credential counter = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.AICallsTotal.WithLabelValues("grok", "text", "success")); got != 1 {
		t.Errorf("ai calls counter = %v, want 1", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"fridgechef_credentials_operations_total",
		"fridgechef_credentials_probe_duration_seconds",
		"fridgechef_ai_calls_total",
	} {
		if !names[want] {
			t.Errorf("metric %s not registered", want)
		}
	}
}

func TestNewMetrics_SeparateRegistries(t *testing.T) {
	// Two instances on separate registries must not panic with
	// duplicate registration.
	a := NewMetrics(prometheus.NewRegistry())
	b := NewMetrics(prometheus.NewRegistry())
	a.CredentialOpsTotal.WithLabelValues("delete", "success").Inc()
	if got := testutil.ToFloat64(b.CredentialOpsTotal.WithLabelValues("delete", "success")); got != 0 {
		t.Errorf("second instance counter = %v, want 0", got)
	}
}
