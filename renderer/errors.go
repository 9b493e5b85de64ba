// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: renderer/errors.go
// Summary: Sentinel errors shared across the renderer package.

package renderer

import "errors"

var (
	// ErrClosed is returned by operations on a renderer after Close.
	ErrClosed = errors.New("renderer: closed")

	// ErrNoDumpStore is returned by dump operations when no store is attached.
	ErrNoDumpStore = errors.New("renderer: no dump store configured")

	// ErrPayloadShort is returned when decoding a truncated frame delta.
	ErrPayloadShort = errors.New("renderer: delta payload too short")

	// ErrDeltaTooLarge is returned when a frame delta exceeds encoding limits.
	ErrDeltaTooLarge = errors.New("renderer: frame delta exceeds limits")
)
