// Copyright (C) 2025 FridgeChef Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
		{Level(-1), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := tt.level.String()
			if got != tt.want {
				t.Errorf("Level.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLevel_toSlogLevel(t *testing.T) {
	tests := []struct {
		level Level
		want  slog.Level
	}{
		{LevelDebug, slog.LevelDebug},
		{LevelInfo, slog.LevelInfo},
		{LevelWarn, slog.LevelWarn},
		{LevelError, slog.LevelError},
		{Level(99), slog.LevelInfo}, // Unknown defaults to Info
		{Level(-1), slog.LevelInfo}, // Unknown defaults to Info
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			got := tt.level.toSlogLevel()
			if got != tt.want {
				t.Errorf("Level.toSlogLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNew_DefaultConfig(t *testing.T) {
	logger := New(Config{})
	if logger == nil {
		t.Fatal("New() returned nil")
	}
	if logger.slog == nil {
		t.Error("logger.slog is nil")
	}
	if logger.file != nil {
		t.Error("file handle should be nil without LogDir")
	}
}

func TestNew_FileLogging(t *testing.T) {
	dir := t.TempDir()

	logger := New(Config{
		Level:   LevelInfo,
		LogDir:  dir,
		Service: "kitchen",
		Quiet:   true,
	})
	defer logger.Close()

	logger.Info("test entry", "key", "value")

	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	wantName := "kitchen_" + time.Now().Format("2006-01-02") + ".log"
	data, err := os.ReadFile(filepath.Join(dir, wantName))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "test entry") {
		t.Errorf("log file missing message, got: %s", data)
	}
	if !strings.Contains(string(data), `"service":"kitchen"`) {
		t.Errorf("log file missing service attribute, got: %s", data)
	}
}

func TestNew_CreatesLogDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")

	logger := New(Config{LogDir: dir, Quiet: true})
	defer logger.Close()

	if _, err := os.Stat(dir); err != nil {
		t.Errorf("log directory not created: %v", err)
	}
}

func TestNew_LevelFilter(t *testing.T) {
	dir := t.TempDir()

	logger := New(Config{
		Level:   LevelWarn,
		LogDir:  dir,
		Service: "filter",
		Quiet:   true,
	})
	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	wantName := "filter_" + time.Now().Format("2006-01-02") + ".log"
	data, err := os.ReadFile(filepath.Join(dir, wantName))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	out := string(data)
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("below-threshold messages were written: %s", out)
	}
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
		t.Errorf("expected messages missing: %s", out)
	}
}

func TestWith_AddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	base := &Logger{
		slog: slog.New(slog.NewJSONHandler(&buf, nil)),
	}

	child := base.With("request_id", "r-1")
	child.Info("hello")

	out := buf.String()
	if !strings.Contains(out, `"request_id":"r-1"`) {
		t.Errorf("child logger missing attribute: %s", out)
	}

	buf.Reset()
	base.Info("plain")
	if strings.Contains(buf.String(), "request_id") {
		t.Errorf("parent logger gained child attribute: %s", buf.String())
	}
}

func TestWith_ChildCloseLeavesParentFileOpen(t *testing.T) {
	dir := t.TempDir()

	parent := New(Config{
		Level:   LevelInfo,
		LogDir:  dir,
		Service: "kitchen",
		Quiet:   true,
	})

	child := parent.With("request_id", "r-1")
	if err := child.Close(); err != nil {
		t.Fatalf("child Close() error = %v", err)
	}

	// The parent still owns a live file handle.
	parent.Info("after child close")
	if err := parent.Close(); err != nil {
		t.Fatalf("parent Close() error = %v", err)
	}

	wantName := "kitchen_" + time.Now().Format("2006-01-02") + ".log"
	data, err := os.ReadFile(filepath.Join(dir, wantName))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "after child close") {
		t.Errorf("parent lost its file handle after child Close, got: %s", data)
	}
}

func TestSlog_AsProcessDefault(t *testing.T) {
	dir := t.TempDir()

	logger := New(Config{
		Level:   LevelInfo,
		LogDir:  dir,
		Service: "kitchen",
		Quiet:   true,
	})

	// Packages that log via the slog package-level functions must reach
	// the configured destinations once the logger is installed as the
	// process default.
	prev := slog.Default()
	slog.SetDefault(logger.Slog())
	defer slog.SetDefault(prev)

	slog.Info("routed through default", "key", "value")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	wantName := "kitchen_" + time.Now().Format("2006-01-02") + ".log"
	data, err := os.ReadFile(filepath.Join(dir, wantName))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "routed through default") {
		t.Errorf("log file missing slog default output, got: %s", data)
	}
	if !strings.Contains(string(data), `"service":"kitchen"`) {
		t.Errorf("log file missing service attribute, got: %s", data)
	}
}

func TestClose_NoFile(t *testing.T) {
	logger := New(Config{Quiet: true})
	if err := logger.Close(); err != nil {
		t.Errorf("Close() without file error = %v", err)
	}
	// Second close is a no-op.
	if err := logger.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestMultiHandler_FansOut(t *testing.T) {
	var a, b bytes.Buffer
	h := &multiHandler{handlers: []slog.Handler{
		slog.NewJSONHandler(&a, nil),
		slog.NewTextHandler(&b, nil),
	}}

	logger := slog.New(h)
	logger.Info("fan out", "n", 1)

	if !strings.Contains(a.String(), "fan out") {
		t.Errorf("first handler missing record: %s", a.String())
	}
	if !strings.Contains(b.String(), "fan out") {
		t.Errorf("second handler missing record: %s", b.String())
	}
}

func TestMultiHandler_RespectsLevels(t *testing.T) {
	var debugBuf, errorBuf bytes.Buffer
	h := &multiHandler{handlers: []slog.Handler{
		slog.NewTextHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&errorBuf, &slog.HandlerOptions{Level: slog.LevelError}),
	}}

	if !h.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("Enabled should be true when any handler accepts the level")
	}

	logger := slog.New(h)
	logger.Debug("only debug")

	if !strings.Contains(debugBuf.String(), "only debug") {
		t.Errorf("debug handler missing record: %s", debugBuf.String())
	}
	if errorBuf.Len() != 0 {
		t.Errorf("error handler received below-threshold record: %s", errorBuf.String())
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}

	tests := []struct {
		in   string
		want string
	}{
		{"~/logs", filepath.Join(home, "logs")},
		{"/var/log", "/var/log"},
		{"relative/path", "relative/path"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := expandPath(tt.in); got != tt.want {
			t.Errorf("expandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
