// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: buffer/draw.go
// Summary: Text and box drawing primitives on top of the cell grid.

package buffer

import (
	"github.com/framegrace/texelcore/cell"
)

// DrawText decodes text as codepoints and writes them starting at (x, y),
// advancing by each glyph's column width. Cells outside the buffer are
// dropped silently. A width-2 glyph occupies two cells, the second a
// continuation cell inheriting the glyph's colors; a wide glyph that would
// cross the right edge is dropped entirely rather than wrapped.
//
// A nil bg preserves the destination background under each glyph.
func (b *Buffer) DrawText(text string, x, y int, fg cell.RGBA, bg *cell.RGBA, attr cell.Attr) {
	if y < 0 || y >= b.height {
		return
	}
	cx := x
	for _, r := range text {
		w := b.widths.RuneWidth(r)
		if w <= 0 {
			continue
		}
		if cx+w > b.width {
			break
		}
		if cx >= 0 {
			b.writeGlyph(cx, y, r, fg, bg, attr)
			if w == 2 {
				b.writeGlyph(cx+1, y, 0, fg, bg, attr)
			}
		}
		cx += w
	}
}

func (b *Buffer) writeGlyph(x, y int, r rune, fg cell.RGBA, bg *cell.RGBA, attr cell.Attr) {
	if bg != nil {
		b.SetCellWithAlphaBlending(x, y, r, fg, *bg, attr)
		return
	}
	idx := y*b.width + x
	dst := &b.cells[idx]
	dst.Rune = r
	if fg.A < 1 {
		dst.Fg = cell.BlendOver(dst.Bg, fg)
	} else {
		dst.Fg = fg
	}
	dst.Attr = attr
}

// BorderSides selects which edges of a box are drawn.
type BorderSides struct {
	Top, Right, Bottom, Left bool
}

// AllSides draws a full frame.
var AllSides = BorderSides{Top: true, Right: true, Bottom: true, Left: true}

// Align positions a box title on the top edge.
type Align uint8

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Border glyph indices within a box character set.
// Layout: top-left, top, top-right, left, right, bottom-left, bottom,
// bottom-right.
var (
	DefaultBoxChars = [8]rune{'┌', '─', '┐', '│', '│', '└', '─', '┘'}
	RoundedBoxChars = [8]rune{'╭', '─', '╮', '│', '│', '╰', '─', '╯'}
	DoubleBoxChars  = [8]rune{'╔', '═', '╗', '║', '║', '╚', '═', '╝'}
	HeavyBoxChars   = [8]rune{'┏', '━', '┓', '┃', '┃', '┗', '━', '┛'}
)

// BoxOptions configures DrawBox.
type BoxOptions struct {
	Chars      [8]rune
	Sides      BorderSides
	Fill       bool
	Title      string
	TitleAlign Align
	Border     cell.RGBA
	Background cell.RGBA
}

// PackBoxOptions encodes sides, fill and title alignment into the compact
// bit form used by serialized drawing commands.
func PackBoxOptions(sides BorderSides, fill bool, align Align) uint32 {
	var packed uint32
	if sides.Top {
		packed |= 0b1000
	}
	if sides.Right {
		packed |= 0b0100
	}
	if sides.Bottom {
		packed |= 0b0010
	}
	if sides.Left {
		packed |= 0b0001
	}
	if fill {
		packed |= 1 << 4
	}
	packed |= uint32(align&0b11) << 5
	return packed
}

// UnpackBoxOptions decodes the bit form produced by PackBoxOptions.
func UnpackBoxOptions(packed uint32) (sides BorderSides, fill bool, align Align) {
	sides = BorderSides{
		Top:    packed&0b1000 != 0,
		Right:  packed&0b0100 != 0,
		Bottom: packed&0b0010 != 0,
		Left:   packed&0b0001 != 0,
	}
	fill = packed&(1<<4) != 0
	align = Align(packed>>5) & 0b11
	return
}

// DrawBox draws a rectangular frame with optional fill and title. Zero
// width or height is a no-op. The frame is clipped at buffer edges.
func (b *Buffer) DrawBox(x, y, w, h int, o BoxOptions) {
	if w <= 0 || h <= 0 {
		return
	}
	chars := o.Chars
	if chars == ([8]rune{}) {
		chars = DefaultBoxChars
	}

	if o.Fill && w > 2 && h > 2 {
		b.FillRect(x+1, y+1, w-2, h-2, o.Background)
	}

	right := x + w - 1
	bottom := y + h - 1

	if o.Sides.Top {
		for cx := x + 1; cx < right; cx++ {
			b.SetCellWithAlphaBlending(cx, y, chars[1], o.Border, o.Background, 0)
		}
	}
	if o.Sides.Bottom && h > 1 {
		for cx := x + 1; cx < right; cx++ {
			b.SetCellWithAlphaBlending(cx, bottom, chars[6], o.Border, o.Background, 0)
		}
	}
	if o.Sides.Left {
		for cy := y + 1; cy < bottom; cy++ {
			b.SetCellWithAlphaBlending(x, cy, chars[3], o.Border, o.Background, 0)
		}
	}
	if o.Sides.Right && w > 1 {
		for cy := y + 1; cy < bottom; cy++ {
			b.SetCellWithAlphaBlending(right, cy, chars[4], o.Border, o.Background, 0)
		}
	}

	// Corners are drawn when both adjacent sides are present.
	if o.Sides.Top && o.Sides.Left {
		b.SetCellWithAlphaBlending(x, y, chars[0], o.Border, o.Background, 0)
	}
	if o.Sides.Top && o.Sides.Right {
		b.SetCellWithAlphaBlending(right, y, chars[2], o.Border, o.Background, 0)
	}
	if o.Sides.Bottom && o.Sides.Left {
		b.SetCellWithAlphaBlending(x, bottom, chars[5], o.Border, o.Background, 0)
	}
	if o.Sides.Bottom && o.Sides.Right {
		b.SetCellWithAlphaBlending(right, bottom, chars[7], o.Border, o.Background, 0)
	}

	if o.Title != "" && o.Sides.Top && w > 4 {
		b.drawBoxTitle(x, y, w, o)
	}
}

func (b *Buffer) drawBoxTitle(x, y, w int, o BoxOptions) {
	// One cell of padding on each side of the title, inside the corners.
	avail := w - 4
	title := o.Title
	if b.widths.StringWidth(title) > avail {
		title = truncateToWidth(title, avail-1, b.widths) + "…"
	}
	tw := b.widths.StringWidth(title)

	var tx int
	switch o.TitleAlign {
	case AlignRight:
		tx = x + w - 2 - tw
	case AlignCenter:
		tx = x + (w-tw)/2
	default:
		tx = x + 2
	}
	bg := o.Background
	b.DrawText(" "+title+" ", tx-1, y, o.Border, &bg, 0)
}

func truncateToWidth(s string, maxWidth int, m cell.WidthMethod) string {
	if maxWidth <= 0 {
		return ""
	}
	width := 0
	for i, r := range s {
		w := m.RuneWidth(r)
		if width+w > maxWidth {
			return s[:i]
		}
		width += w
	}
	return s
}
