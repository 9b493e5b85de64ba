// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: buffer/textdraw.go
// Summary: Renders a TextBuffer's laid-out lines into a Buffer region.

package buffer

import "github.com/framegrace/texelcore/cell"

// ClipRect restricts DrawTextBuffer output to a rectangle of the target.
type ClipRect struct {
	X, Y          int
	Width, Height int
}

func (c ClipRect) contains(x, y int) bool {
	return x >= c.X && x < c.X+c.Width && y >= c.Y && y < c.Y+c.Height
}

// DrawTextBuffer draws tb's lines starting at (x, y), one line per row.
// FinalizeLineInfo must have been called since the last mutation. Lines
// entirely outside clip (or the buffer) are skipped without per-cell work;
// the selection overlay is resolved per cell at draw time.
func (b *Buffer) DrawTextBuffer(tb *TextBuffer, x, y int, clip *ClipRect) {
	if tb == nil || !tb.linesValid {
		return
	}
	minY, maxY := 0, b.height
	if clip != nil {
		minY = max(minY, clip.Y)
		maxY = min(maxY, clip.Y+clip.Height)
	}

	for li, line := range tb.lines {
		row := y + li
		if row < minY {
			continue
		}
		if row >= maxY {
			break
		}
		end := len(tb.cells)
		if li+1 < len(tb.lines) {
			end = tb.lines[li+1].Start
		}
		b.drawTextLine(tb, line.Start, end, x, row, clip)
	}
}

func (b *Buffer) drawTextLine(tb *TextBuffer, start, end, x, row int, clip *ClipRect) {
	cx := x
	for i := start; i < end; i++ {
		tc := tb.cells[i]
		if tc.Rune == '\n' {
			break
		}
		w := tb.widths.RuneWidth(tc.Rune)
		if w <= 0 {
			continue
		}
		if cx+w > b.width {
			break
		}
		if cx >= 0 && (clip == nil || clip.contains(cx, row)) {
			fg, bg, attr := tb.resolveStyle(i, tc)
			b.SetCellWithAlphaBlending(cx, row, tc.Rune, fg, bg, attr)
			if w == 2 {
				b.SetCellWithAlphaBlending(cx+1, row, 0, fg, bg, attr)
			}
		}
		cx += w
	}
}

// resolveStyle applies the selection overlay on top of the stored style.
func (tb *TextBuffer) resolveStyle(i int, tc TextCell) (cell.RGBA, cell.RGBA, cell.Attr) {
	fg, bg := tc.Fg, tc.Bg
	attr := tc.Attr.Base()
	if tb.sel != nil && i >= tb.sel.start && i < tb.sel.end {
		if tb.sel.fg != nil {
			fg = *tb.sel.fg
		}
		if tb.sel.bg != nil {
			bg = *tb.sel.bg
		}
		if tb.sel.fg == nil && tb.sel.bg == nil {
			attr |= cell.AttrReverse
		}
	}
	return fg, bg, attr
}
