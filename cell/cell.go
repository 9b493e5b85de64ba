// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cell/cell.go
// Summary: Core cell model shared by buffers and the renderer.

// Package cell provides the terminal cell model: a Unicode codepoint plus
// RGBA colors and a style attribute mask, along with the column-width
// policies used to lay text out on a character grid.
package cell

// Attr is the 8-bit style attribute mask carried by grid cells.
type Attr uint8

const (
	AttrBold Attr = 1 << iota
	AttrDim
	AttrItalic
	AttrUnderline
	AttrBlink
	AttrReverse
	AttrStrike
	AttrHidden
)

// Has reports whether the mask contains attr.
func (a Attr) Has(attr Attr) bool { return a&attr != 0 }

// TextAttr is the 16-bit attribute mask used by text buffers.
// The low byte mirrors Attr; the high byte is reserved for overlay state
// that never reaches the terminal as SGR output.
type TextAttr uint16

const (
	// TextAttrSelected marks a cell covered by the active selection overlay.
	TextAttrSelected TextAttr = 1 << (8 + iota)
	// TextAttrMarkup is reserved for host-side markup tagging.
	TextAttrMarkup
)

// Base returns the renderable 8-bit portion of the mask.
func (a TextAttr) Base() Attr { return Attr(a & 0xff) }

// RGBA is a color with each channel in [0,1].
type RGBA struct {
	R, G, B, A float32
}

// NewRGBA builds a color from explicit channel values.
func NewRGBA(r, g, b, a float32) RGBA { return RGBA{R: r, G: g, B: b, A: a} }

// NewRGB builds a fully opaque color.
func NewRGB(r, g, b float32) RGBA { return RGBA{R: r, G: g, B: b, A: 1} }

// Common colors.
var (
	Black       = NewRGB(0, 0, 0)
	White       = NewRGB(1, 1, 1)
	Red         = NewRGB(1, 0, 0)
	Green       = NewRGB(0, 1, 0)
	Blue        = NewRGB(0, 0, 1)
	Yellow      = NewRGB(1, 1, 0)
	Cyan        = NewRGB(0, 1, 1)
	Magenta     = NewRGB(1, 0, 1)
	Gray        = NewRGB(0.5, 0.5, 0.5)
	Transparent = NewRGBA(0, 0, 0, 0)
)

// BlendOver composites src over dst using the standard "over" operator,
// per channel, with the result alpha saturating at 1.
func BlendOver(dst, src RGBA) RGBA {
	if src.A >= 1 {
		return src
	}
	if src.A <= 0 {
		return dst
	}
	inv := 1 - src.A
	out := RGBA{
		R: src.R*src.A + dst.R*inv,
		G: src.G*src.A + dst.G*inv,
		B: src.B*src.A + dst.B*inv,
		A: src.A + dst.A*inv,
	}
	if out.A > 1 {
		out.A = 1
	}
	return out
}

// RGB255 returns the channels quantized to 8-bit values for SGR emission.
func (c RGBA) RGB255() (r, g, b uint8) {
	return quant(c.R), quant(c.G), quant(c.B)
}

func quant(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// Cell is one grid position. A zero Rune denotes an empty (or continuation)
// cell; continuation cells inherit the colors of the wide glyph before them.
type Cell struct {
	Rune rune
	Fg   RGBA
	Bg   RGBA
	Attr Attr
}

// Empty returns an empty cell over the given background.
func Empty(bg RGBA) Cell {
	return Cell{Rune: 0, Fg: White, Bg: bg}
}

// IsEmpty reports whether the cell holds no glyph.
func (c Cell) IsEmpty() bool { return c.Rune == 0 }
