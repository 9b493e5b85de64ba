// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: renderer/diff.go
// Summary: Per-frame cell diffing and ANSI frame assembly.
//
// A cell is dirty when its codepoint, colors, or attributes differ between
// the back buffer (about to be shown) and the front buffer (on screen).
// Dirty cells coalesce into maximal horizontal runs per row, so each run
// costs one cursor move and the minimal SGR changes between its cells.

package renderer

import (
	"unicode/utf8"

	"github.com/framegrace/texelcore/cell"
)

// buildFrame assembles the escape-sequence frame for the current diff and
// returns it with the number of dirty cells. An empty frame means nothing
// changed, including cursor state; the caller skips presentation entirely.
func (r *Renderer) buildFrame(force bool) ([]byte, int) {
	out := r.scratch[:0]
	out = append(out, seqHideCursor...)
	if r.caps.caps.SupportsSyncUpdates {
		out = append(out, seqSyncBegin...)
	}
	prefix := len(out)

	// The frame tail resets SGR, so every frame starts from a known state.
	r.sgr.reset()

	dirty := 0
	w, h := r.width, r.height
	fcells := r.front.Cells()
	bcells := r.back.Cells()
	widths := r.back.WidthMethod()

	for y := 0; y < h; y++ {
		row := bcells[y*w : y*w+w]
		anyDirty := false
		if force {
			for x := range r.dirtyRow {
				r.dirtyRow[x] = true
			}
			anyDirty = true
		} else {
			prev := fcells[y*w : y*w+w]
			for x := 0; x < w; x++ {
				d := row[x] != prev[x]
				r.dirtyRow[x] = d
				anyDirty = anyDirty || d
			}
		}
		if !anyDirty {
			continue
		}

		// A wide glyph and its continuation cell form one visual unit;
		// redrawing one half would clobber the other.
		for x := 0; x < w-1; x++ {
			if widths.RuneWidth(row[x].Rune) == 2 && (r.dirtyRow[x] || r.dirtyRow[x+1]) {
				r.dirtyRow[x] = true
				r.dirtyRow[x+1] = true
			}
		}

		for x := 0; x < w; {
			if !r.dirtyRow[x] {
				x++
				continue
			}
			x0 := x
			for x < w && r.dirtyRow[x] {
				x++
			}
			out = r.appendRun(out, y, x0, row[x0:x], widths)
			dirty += x - x0
		}
	}

	cursorMoved := r.cursor.x != r.lastCursor.x ||
		r.cursor.y != r.lastCursor.y ||
		r.cursor.visible != r.lastCursor.visible
	if dirty == 0 && !cursorMoved && !r.cursor.styleDirty && !r.cursor.colorDirty {
		r.scratch = out[:0]
		return nil, 0
	}

	if len(out) > prefix {
		out = append(out, seqResetSGR...)
	}
	out = r.appendCursorState(out)
	if r.caps.caps.SupportsSyncUpdates {
		out = append(out, seqSyncEnd...)
	}

	r.scratch = out
	return out, dirty
}

// appendRun emits one dirty run: a cursor move followed by the run's glyphs,
// switching SGR state only where consecutive cells differ.
func (r *Renderer) appendRun(out []byte, y, x0 int, run []cell.Cell, widths cell.WidthMethod) []byte {
	out = appendMoveTo(out, x0, y+r.offset)
	for i := 0; i < len(run); {
		c := run[i]
		out = r.sgr.append(out, c.Fg, c.Bg, c.Attr)
		if c.Rune == 0 {
			out = append(out, ' ')
			i++
			continue
		}
		out = utf8.AppendRune(out, c.Rune)
		if widths.RuneWidth(c.Rune) == 2 {
			// The terminal advanced two columns; the continuation
			// cell carries no glyph of its own.
			i += 2
		} else {
			i++
		}
	}
	return out
}

// appendCursorState emits pending cursor shape/color changes and the final
// cursor placement for the frame.
func (r *Renderer) appendCursorState(out []byte) []byte {
	if r.cursor.styleDirty {
		out = appendCursorShape(out, r.cursor.style, r.cursor.blinking)
		r.cursor.styleDirty = false
	}
	if r.cursor.colorDirty {
		out = appendCursorColor(out, r.cursor.color)
		r.cursor.colorDirty = false
	}
	if r.cursor.visible {
		out = appendMoveTo(out, r.cursor.x, r.cursor.y+r.offset)
		out = append(out, seqShowCursor...)
	}
	r.lastCursor = r.cursor
	return out
}
