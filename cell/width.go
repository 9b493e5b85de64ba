// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cell/width.go
// Summary: Column-width policies for laying out text on the grid.

package cell

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// WidthMethod selects how codepoints are mapped to terminal columns.
type WidthMethod uint8

const (
	// WidthWCWidth follows the classic wcwidth tables.
	WidthWCWidth WidthMethod = iota
	// WidthUnicode measures grapheme clusters per the Unicode segmentation
	// rules, which handles emoji sequences better than wcwidth.
	WidthUnicode
)

// RuneWidth returns the column width (0, 1 or 2) of a single codepoint.
func (m WidthMethod) RuneWidth(r rune) int {
	if r == 0 {
		return 0
	}
	switch m {
	case WidthUnicode:
		w := uniseg.StringWidth(string(r))
		if w < 0 {
			return 0
		}
		if w > 2 {
			return 2
		}
		return w
	default:
		return runewidth.RuneWidth(r)
	}
}

// StringWidth returns the total column width of s.
func (m WidthMethod) StringWidth(s string) int {
	switch m {
	case WidthUnicode:
		return uniseg.StringWidth(s)
	default:
		return runewidth.StringWidth(s)
	}
}
