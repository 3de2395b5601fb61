// Copyright (C) 2025 FridgeChef Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// masterSecretEnv holds the key-encryption master secret. It is only ever
// read from the environment, never from the config file, so the file can be
// checked into deployment repos.
const masterSecretEnv = "FRIDGECHEF_MASTER_SECRET"

// Config is the YAML server configuration.
type Config struct {
	// ListenAddr is the HTTP bind address, e.g. ":8080".
	ListenAddr string `yaml:"listen_addr"`

	// DataDir is the Badger database directory.
	DataDir string `yaml:"data_dir"`

	Log struct {
		// Level is one of debug, info, warn, error.
		Level string `yaml:"level"`
		// Dir enables file logging when set.
		Dir string `yaml:"dir"`
		// JSON switches stderr output to JSON.
		JSON bool `yaml:"json"`
	} `yaml:"log"`

	Auth struct {
		// Tokens maps bearer tokens to user IDs. When empty, the server
		// runs in single-user local mode.
		Tokens map[string]string `yaml:"tokens"`
	} `yaml:"auth"`

	RateLimit struct {
		// PerSecond is the sustained request rate per user on the
		// credential endpoints.
		PerSecond float64 `yaml:"per_second"`
		// Burst is the short-term allowance.
		Burst int `yaml:"burst"`
	} `yaml:"rate_limit"`

	// ProbeTimeoutSeconds bounds the live key validation call.
	ProbeTimeoutSeconds int `yaml:"probe_timeout_seconds"`
}

// defaultConfig returns the configuration used when no file is given.
func defaultConfig() Config {
	var cfg Config
	cfg.ListenAddr = ":8080"
	cfg.DataDir = "./data"
	cfg.Log.Level = "info"
	cfg.RateLimit.PerSecond = 1
	cfg.RateLimit.Burst = 5
	cfg.ProbeTimeoutSeconds = 15
	return cfg
}

// loadConfig reads the YAML file at path, or returns defaults when path is
// empty. Unset fields fall back to defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}

	base := defaultConfig()
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = base.ListenAddr
	}
	if cfg.DataDir == "" {
		cfg.DataDir = base.DataDir
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = base.Log.Level
	}
	if cfg.RateLimit.PerSecond <= 0 {
		cfg.RateLimit.PerSecond = base.RateLimit.PerSecond
	}
	if cfg.RateLimit.Burst <= 0 {
		cfg.RateLimit.Burst = base.RateLimit.Burst
	}
	if cfg.ProbeTimeoutSeconds <= 0 {
		cfg.ProbeTimeoutSeconds = base.ProbeTimeoutSeconds
	}
	return cfg, nil
}
