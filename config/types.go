// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/types.go
// Summary: Section access and typed getters for renderer settings.

package config

import "strconv"

// asSection normalizes a raw config value to a Section. JSON decoding
// produces map[string]interface{}; code paths that build configs by hand
// may use Section directly.
func asSection(raw interface{}) Section {
	switch v := raw.(type) {
	case Section:
		return v
	case map[string]interface{}:
		return Section(v)
	}
	return nil
}

// Section returns the named section or nil if missing.
func (c Config) Section(name string) Section {
	if c == nil {
		return nil
	}
	return asSection(c[name])
}

// RegisterDefaults fills in missing keys of a section without overwriting
// values already present.
func (c Config) RegisterDefaults(name string, defaults Section) {
	if c == nil || defaults == nil {
		return
	}
	section := c.Section(name)
	if section == nil {
		section = make(Section, len(defaults))
		c[name] = section
	}
	for key, value := range defaults {
		if _, ok := section[key]; !ok {
			section[key] = value
		}
	}
}

func (c Config) lookup(section, key string) (interface{}, bool) {
	s := c.Section(section)
	if s == nil {
		return nil, false
	}
	v, ok := s[key]
	return v, ok
}

// GetString returns the string at section/key, or def when absent or not a
// string.
func (c Config) GetString(section, key, def string) string {
	if v, ok := c.lookup(section, key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// GetInt returns the integer at section/key, or def. JSON numbers decode as
// float64; quoted numbers from hand-edited files are accepted too.
func (c Config) GetInt(section, key string, def int) int {
	raw, ok := c.lookup(section, key)
	if !ok {
		return def
	}
	switch v := raw.(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

// GetBool returns the boolean at section/key, or def. Accepts JSON booleans
// and the strconv.ParseBool string forms.
func (c Config) GetBool(section, key string, def bool) bool {
	raw, ok := c.lookup(section, key)
	if !ok {
		return def
	}
	switch v := raw.(type) {
	case bool:
		return v
	case string:
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

// Clone copies the config one section deep. Section values themselves are
// shared; the store treats them as read-only once handed out.
func Clone(cfg Config) Config {
	if cfg == nil {
		return nil
	}
	out := make(Config, len(cfg))
	for name, raw := range cfg {
		if sec := asSection(raw); sec != nil {
			copied := make(Section, len(sec))
			for k, v := range sec {
				copied[k] = v
			}
			out[name] = copied
			continue
		}
		out[name] = raw
	}
	return out
}
