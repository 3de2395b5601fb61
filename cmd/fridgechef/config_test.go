// Copyright (C) 2025 FridgeChef Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.RateLimit.Burst != 5 {
		t.Errorf("Burst = %d", cfg.RateLimit.Burst)
	}
	if cfg.ProbeTimeoutSeconds != 15 {
		t.Errorf("ProbeTimeoutSeconds = %d", cfg.ProbeTimeoutSeconds)
	}
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
listen_addr: ":9090"
data_dir: /var/lib/fridgechef
log:
  level: debug
  json: true
auth:
  tokens:
    tok-1: alice
rate_limit:
  per_second: 2
  burst: 10
probe_timeout_seconds: 30
`)

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.ListenAddr != ":9090" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.DataDir != "/var/lib/fridgechef" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.Log.Level != "debug" || !cfg.Log.JSON {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Auth.Tokens["tok-1"] != "alice" {
		t.Errorf("Tokens = %v", cfg.Auth.Tokens)
	}
	if cfg.RateLimit.PerSecond != 2 || cfg.RateLimit.Burst != 10 {
		t.Errorf("RateLimit = %+v", cfg.RateLimit)
	}
	if cfg.ProbeTimeoutSeconds != 30 {
		t.Errorf("ProbeTimeoutSeconds = %d", cfg.ProbeTimeoutSeconds)
	}
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `listen_addr: ":3000"`)

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.ListenAddr != ":3000" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.DataDir != "./data" {
		t.Errorf("DataDir = %q, want default", cfg.DataDir)
	}
	if cfg.RateLimit.PerSecond != 1 {
		t.Errorf("PerSecond = %v, want default", cfg.RateLimit.PerSecond)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := loadConfig("/no/such/config.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadConfig_BadYAML(t *testing.T) {
	path := writeConfig(t, "listen_addr: [unclosed")
	if _, err := loadConfig(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}
