// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: buffer/buffer.go
// Summary: Double-buffer cell grid with alpha-aware compositing writes.
// Usage: Hosts draw into a Buffer; the renderer diffs two of them per frame.

// Package buffer implements the drawing surfaces of the engine: Buffer, a
// fixed-size cell grid with alpha-aware drawing primitives, and TextBuffer,
// a growable run of styled text with line layout and a selection overlay.
package buffer

import (
	"fmt"

	"github.com/framegrace/texelcore/cell"
)

// Buffer is a width×height grid of cells stored row-major. When respectAlpha
// is set, writes composite over existing content instead of overwriting.
type Buffer struct {
	width, height int
	cells         []cell.Cell
	respectAlpha  bool
	widths        cell.WidthMethod
}

// New creates a buffer with the given dimensions.
func New(width, height int, respectAlpha bool, method cell.WidthMethod) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if width > 1<<15 || height > 1<<15 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	b := &Buffer{
		width:        width,
		height:       height,
		cells:        make([]cell.Cell, width*height),
		respectAlpha: respectAlpha,
		widths:       method,
	}
	b.Clear(cell.Transparent)
	return b, nil
}

// Width returns the buffer width in cells.
func (b *Buffer) Width() int { return b.width }

// Height returns the buffer height in cells.
func (b *Buffer) Height() int { return b.height }

// WidthMethod returns the column-width policy used by text drawing.
func (b *Buffer) WidthMethod() cell.WidthMethod { return b.widths }

// SetWidthMethod switches the column-width policy for subsequent writes.
func (b *Buffer) SetWidthMethod(m cell.WidthMethod) { b.widths = m }

// RespectAlpha reports whether writes blend instead of overwriting.
func (b *Buffer) RespectAlpha() bool { return b.respectAlpha }

// SetRespectAlpha switches the blending mode for subsequent writes.
func (b *Buffer) SetRespectAlpha(respect bool) { b.respectAlpha = respect }

// Cells exposes the backing row-major cell slice for bulk access. The slice
// is invalidated by Resize; callers must not hold it across one.
func (b *Buffer) Cells() []cell.Cell { return b.cells }

func (b *Buffer) inBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// CellAt returns the cell at (x, y) and whether the coordinate is in bounds.
func (b *Buffer) CellAt(x, y int) (cell.Cell, bool) {
	if !b.inBounds(x, y) {
		return cell.Cell{}, false
	}
	return b.cells[y*b.width+x], true
}

// SetCell overwrites the cell at (x, y). Out-of-bounds writes are dropped.
func (b *Buffer) SetCell(x, y int, c cell.Cell) {
	if !b.inBounds(x, y) {
		return
	}
	b.cells[y*b.width+x] = c
}

// Clear resets every cell to an empty cell over bg.
func (b *Buffer) Clear(bg cell.RGBA) {
	if len(b.cells) == 0 {
		return
	}
	b.cells[0] = cell.Empty(bg)
	// Exponential copy fills large grids without a per-cell loop.
	for filled := 1; filled < len(b.cells); filled *= 2 {
		copy(b.cells[filled:], b.cells[:filled])
	}
}

// SetCellWithAlphaBlending writes one cell, compositing the incoming colors
// over the existing content when the buffer respects alpha and the incoming
// background is not fully opaque. Out-of-bounds coordinates are a no-op.
func (b *Buffer) SetCellWithAlphaBlending(x, y int, r rune, fg, bg cell.RGBA, attr cell.Attr) {
	if !b.inBounds(x, y) {
		return
	}
	idx := y*b.width + x
	if !b.respectAlpha || bg.A >= 1 {
		b.cells[idx] = cell.Cell{Rune: r, Fg: fg, Bg: bg, Attr: attr}
		return
	}
	dst := &b.cells[idx]
	newBg := cell.BlendOver(dst.Bg, bg)
	newFg := fg
	if fg.A < 1 {
		newFg = cell.BlendOver(newBg, fg)
	}
	dst.Bg = newBg
	if r != 0 {
		dst.Rune = r
		dst.Fg = newFg
		dst.Attr = attr
	}
}

// FillRect applies the blending rule of SetCellWithAlphaBlending to every
// cell of the rectangle intersected with the buffer. A fully opaque bg also
// clears glyphs; translucent fills tint the background and keep codepoints.
func (b *Buffer) FillRect(x, y, w, h int, bg cell.RGBA) {
	x0, y0, x1, y1 := clampRect(x, y, w, h, b.width, b.height)
	if x0 >= x1 || y0 >= y1 {
		return
	}
	opaque := !b.respectAlpha || bg.A >= 1
	for cy := y0; cy < y1; cy++ {
		row := b.cells[cy*b.width : cy*b.width+b.width]
		for cx := x0; cx < x1; cx++ {
			if opaque {
				row[cx] = cell.Empty(bg)
				continue
			}
			row[cx].Bg = cell.BlendOver(row[cx].Bg, bg)
		}
	}
}

// Resize reallocates the grid. Content inside the old∩new rectangle is
// preserved verbatim; everything else starts empty.
func (b *Buffer) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if width == b.width && height == b.height {
		return nil
	}
	next := make([]cell.Cell, width*height)
	copyW := min(width, b.width)
	copyH := min(height, b.height)
	for y := 0; y < copyH; y++ {
		copy(next[y*width:y*width+copyW], b.cells[y*b.width:y*b.width+copyW])
	}
	b.cells = next
	b.width = width
	b.height = height
	return nil
}

// DrawFrameBuffer copies a rectangular region of src onto b at (destX,
// destY), clipped to both buffers, honoring b's respectAlpha for blending.
func (b *Buffer) DrawFrameBuffer(destX, destY int, src *Buffer, srcX, srcY, srcW, srcH int) {
	if src == nil {
		return
	}
	sx0, sy0, sx1, sy1 := clampRect(srcX, srcY, srcW, srcH, src.width, src.height)
	for sy := sy0; sy < sy1; sy++ {
		dy := destY + (sy - srcY)
		if dy < 0 || dy >= b.height {
			continue
		}
		for sx := sx0; sx < sx1; sx++ {
			dx := destX + (sx - srcX)
			if dx < 0 || dx >= b.width {
				continue
			}
			c := src.cells[sy*src.width+sx]
			b.SetCellWithAlphaBlending(dx, dy, c.Rune, c.Fg, c.Bg, c.Attr)
		}
	}
}

// clampRect intersects the rectangle with [0,w)×[0,h) bounds.
func clampRect(x, y, w, h, boundW, boundH int) (x0, y0, x1, y1 int) {
	x0, y0 = max(x, 0), max(y, 0)
	x1, y1 = min(x+w, boundW), min(y+h, boundH)
	return
}
