// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"os"
	"sync"
	"testing"
)

func resetStore() {
	once = sync.Once{}
	current = nil
	loadErr = nil
}

func TestDefaultsWritten(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	resetStore()

	cfg := Load()
	if cfg.GetString("renderer", "width_method", "") == "" {
		t.Fatalf("expected width_method to be set")
	}
	if got := cfg.GetInt("renderer", "target_fps", 0); got != 30 {
		t.Fatalf("expected default target_fps 30, got %d", got)
	}

	path, err := configPath()
	if err != nil {
		t.Fatalf("configPath: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}

	var disk Config
	if err := json.Unmarshal(data, &disk); err != nil {
		t.Fatalf("unmarshal config: %v", err)
	}
	if disk.Section("renderer") == nil {
		t.Fatalf("expected renderer section to be present")
	}
	if disk.Section("dumps") == nil {
		t.Fatalf("expected dumps section to be present")
	}
}

func TestSaveWritesUpdates(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	resetStore()

	cfg := Config{
		"renderer": map[string]interface{}{
			"use_thread": false,
			"background": "#1e1e2e",
		},
	}
	Set(cfg)
	if err := Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	path, err := configPath()
	if err != nil {
		t.Fatalf("configPath: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}

	var disk Config
	if err := json.Unmarshal(data, &disk); err != nil {
		t.Fatalf("unmarshal config: %v", err)
	}
	if got := disk.GetString("renderer", "background", ""); got != "#1e1e2e" {
		t.Fatalf("expected background #1e1e2e, got %q", got)
	}
	if disk.GetBool("renderer", "use_thread", true) {
		t.Fatalf("expected use_thread false")
	}
}

func TestExistingConfigGainsMissingDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	resetStore()

	path, err := configPath()
	if err != nil {
		t.Fatalf("configPath: %v", err)
	}
	if err := writeConfig(path, Config{
		"renderer": map[string]interface{}{
			"target_fps": 60,
		},
	}); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := Load()
	if got := cfg.GetInt("renderer", "target_fps", 0); got != 60 {
		t.Fatalf("expected target_fps 60 preserved, got %d", got)
	}
	if cfg.GetString("renderer", "width_method", "") != "wcwidth" {
		t.Fatalf("expected missing width_method to default to wcwidth")
	}
	if cfg.Section("dumps") == nil {
		t.Fatalf("expected dumps section defaults")
	}
}

func TestReloadPicksUpDiskChanges(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	resetStore()

	Load()
	path, err := configPath()
	if err != nil {
		t.Fatalf("configPath: %v", err)
	}
	if err := writeConfig(path, Config{
		"renderer": map[string]interface{}{
			"width_method": "unicode",
		},
	}); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if err := Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if got := Load().GetString("renderer", "width_method", ""); got != "unicode" {
		t.Fatalf("expected width_method unicode after reload, got %q", got)
	}
}

func TestTypedGetters(t *testing.T) {
	cfg := Config{
		"renderer": map[string]interface{}{
			"target_fps":   float64(60), // as JSON decoding produces
			"use_thread":   "true",
			"width_method": "unicode",
			"background":   12,
		},
	}

	if got := cfg.GetInt("renderer", "target_fps", 0); got != 60 {
		t.Fatalf("GetInt float64 = %d, want 60", got)
	}
	if !cfg.GetBool("renderer", "use_thread", false) {
		t.Fatalf("GetBool did not parse quoted boolean")
	}
	if got := cfg.GetString("renderer", "width_method", "wcwidth"); got != "unicode" {
		t.Fatalf("GetString = %q, want unicode", got)
	}
	if got := cfg.GetString("renderer", "background", "#000000"); got != "#000000" {
		t.Fatalf("GetString on non-string = %q, want default", got)
	}
	if got := cfg.GetInt("renderer", "missing", 7); got != 7 {
		t.Fatalf("GetInt missing key = %d, want default 7", got)
	}
	if got := cfg.GetInt("nosuch", "target_fps", 9); got != 9 {
		t.Fatalf("GetInt missing section = %d, want default 9", got)
	}

	cfg.RegisterDefaults("renderer", Section{"target_fps": 30, "extra": "x"})
	if got := cfg.GetInt("renderer", "target_fps", 0); got != 60 {
		t.Fatalf("RegisterDefaults overwrote existing key: %d", got)
	}
	if got := cfg.GetString("renderer", "extra", ""); got != "x" {
		t.Fatalf("RegisterDefaults did not fill missing key: %q", got)
	}
}

func TestCloneCopiesSections(t *testing.T) {
	cfg := Config{
		"renderer": map[string]interface{}{"target_fps": float64(30)},
	}
	clone := Clone(cfg)
	clone.Section("renderer")["target_fps"] = float64(99)
	if got := cfg.GetInt("renderer", "target_fps", 0); got != 30 {
		t.Fatalf("clone mutation leaked into original: %d", got)
	}
}

func TestEmbeddedDefaultsParse(t *testing.T) {
	cfg, err := embeddedDefaults()
	if err != nil {
		t.Fatalf("embeddedDefaults: %v", err)
	}
	if cfg.Section("renderer") == nil {
		t.Fatalf("expected renderer section in embedded defaults")
	}
}
