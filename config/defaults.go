// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/defaults.go
// Summary: Default values for the texelcore configuration file.

package config

func applyDefaults(cfg Config) {
	if cfg == nil {
		return
	}
	cfg.RegisterDefaults("renderer", Section{
		"width_method":   "wcwidth",
		"background":     "#000000",
		"use_thread":     true,
		"use_alt_screen": true,
		"target_fps":     30,
	})
	cfg.RegisterDefaults("dumps", Section{
		"enabled": false,
		"path":    "",
	})
}
