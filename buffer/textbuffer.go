// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: buffer/textbuffer.go
// Summary: Growable styled-text storage with line layout and selection.
// Usage: Hosts build styled text once, then draw it into Buffers per frame.

package buffer

import (
	"fmt"

	"github.com/framegrace/texelcore/cell"
)

// TextCell is one logical codepoint of styled text. Text cells carry the
// wider 16-bit attribute mask; only its low byte reaches the terminal.
type TextCell struct {
	Rune rune
	Fg   cell.RGBA
	Bg   cell.RGBA
	Attr cell.TextAttr
}

// LineInfo describes one laid-out line after FinalizeLineInfo.
type LineInfo struct {
	Start int // index of the line's first codepoint
	Width int // column width of the line, excluding the newline
}

type selection struct {
	start, end int
	bg, fg     *cell.RGBA
}

// TextBuffer holds styled text independent of any fixed grid. Mutations
// invalidate the cached line layout; call FinalizeLineInfo before any
// line-based query or draw.
type TextBuffer struct {
	cells      []TextCell
	widths     cell.WidthMethod
	wrapWidth  int
	lines      []LineInfo
	linesValid bool

	sel     *selection
	defFg   *cell.RGBA
	defBg   *cell.RGBA
	defAttr *cell.Attr
}

// NewText creates a text buffer with the given initial capacity.
func NewText(capacity int, method cell.WidthMethod) *TextBuffer {
	if capacity <= 0 {
		capacity = 256
	}
	return &TextBuffer{
		cells:  make([]TextCell, 0, capacity),
		widths: method,
	}
}

// Length returns the logical codepoint count.
func (tb *TextBuffer) Length() int { return len(tb.cells) }

// Capacity returns the current storage capacity in codepoints.
func (tb *TextBuffer) Capacity() int { return cap(tb.cells) }

// Cells exposes the styled cells for bulk read access. The slice is
// invalidated by any mutation.
func (tb *TextBuffer) Cells() []TextCell { return tb.cells }

// SetDefaultFg sets the foreground applied to chunks written without one.
func (tb *TextBuffer) SetDefaultFg(fg *cell.RGBA) { tb.defFg = fg }

// SetDefaultBg sets the background applied to chunks written without one.
func (tb *TextBuffer) SetDefaultBg(bg *cell.RGBA) { tb.defBg = bg }

// SetDefaultAttr sets the attribute mask applied to chunks written without one.
func (tb *TextBuffer) SetDefaultAttr(attr *cell.Attr) { tb.defAttr = attr }

// ResetDefaults clears all default styling.
func (tb *TextBuffer) ResetDefaults() {
	tb.defFg, tb.defBg, tb.defAttr = nil, nil, nil
}

// SetWrapWidth sets the column width at which lines wrap during layout.
// Zero disables wrapping. Invalidates cached line info.
func (tb *TextBuffer) SetWrapWidth(w int) {
	if w < 0 {
		w = 0
	}
	tb.wrapWidth = w
	tb.linesValid = false
}

// WriteChunk decodes text and appends one styled cell per codepoint, using
// the buffer defaults for any nil style argument. Returns the number of
// codepoints appended. Capacity grows geometrically; cached line info is
// invalidated.
func (tb *TextBuffer) WriteChunk(text string, fg, bg *cell.RGBA, attr *cell.Attr) int {
	if text == "" {
		return 0
	}
	cfg := cell.White
	if fg != nil {
		cfg = *fg
	} else if tb.defFg != nil {
		cfg = *tb.defFg
	}
	cbg := cell.Transparent
	if bg != nil {
		cbg = *bg
	} else if tb.defBg != nil {
		cbg = *tb.defBg
	}
	var cattr cell.Attr
	if attr != nil {
		cattr = *attr
	} else if tb.defAttr != nil {
		cattr = *tb.defAttr
	}

	n := 0
	for _, r := range text {
		tb.cells = append(tb.cells, TextCell{Rune: r, Fg: cfg, Bg: cbg, Attr: cell.TextAttr(cattr)})
		n++
	}
	tb.linesValid = false
	return n
}

// WriteString appends text with the buffer defaults.
func (tb *TextBuffer) WriteString(text string) int {
	return tb.WriteChunk(text, nil, nil, nil)
}

// SetCell overwrites one logical position in place.
func (tb *TextBuffer) SetCell(index int, r rune, fg, bg cell.RGBA, attr cell.TextAttr) error {
	if index < 0 || index >= len(tb.cells) {
		return fmt.Errorf("%w: index %d, length %d", ErrIndexOutOfRange, index, len(tb.cells))
	}
	tb.cells[index] = TextCell{Rune: r, Fg: fg, Bg: bg, Attr: attr}
	tb.linesValid = false
	return nil
}

// CellAt returns the styled cell at index.
func (tb *TextBuffer) CellAt(index int) (TextCell, error) {
	if index < 0 || index >= len(tb.cells) {
		return TextCell{}, fmt.Errorf("%w: index %d, length %d", ErrIndexOutOfRange, index, len(tb.cells))
	}
	return tb.cells[index], nil
}

// Reset clears content and selection while keeping capacity and defaults.
func (tb *TextBuffer) Reset() {
	tb.cells = tb.cells[:0]
	tb.sel = nil
	tb.lines = nil
	tb.linesValid = false
}

// Resize adjusts storage capacity. Content is truncated if the new capacity
// is below the current length.
func (tb *TextBuffer) Resize(capacity int) {
	if capacity < 0 {
		capacity = 0
	}
	next := make([]TextCell, min(len(tb.cells), capacity), capacity)
	copy(next, tb.cells)
	tb.cells = next
	tb.linesValid = false
}

// SetSelection marks [start, end) as selected, clamped to the buffer. The
// optional colors override cell styling at draw time only; stored cells are
// untouched.
func (tb *TextBuffer) SetSelection(start, end int, bg, fg *cell.RGBA) {
	if start > end {
		start, end = end, start
	}
	start = max(start, 0)
	end = min(end, len(tb.cells))
	tb.sel = &selection{start: start, end: end, bg: bg, fg: fg}
}

// ResetSelection clears the selection overlay.
func (tb *TextBuffer) ResetSelection() { tb.sel = nil }

// Selection returns the current selection range, or ok=false when none.
func (tb *TextBuffer) Selection() (start, end int, ok bool) {
	if tb.sel == nil {
		return 0, 0, false
	}
	return tb.sel.start, tb.sel.end, true
}

// FinalizeLineInfo lays the content out into lines, splitting at newline
// codepoints and at the wrap width when one is set. Layout is explicit so
// hosts can batch many writes before a single pass; any later mutation
// requires re-finalizing.
func (tb *TextBuffer) FinalizeLineInfo() {
	tb.lines = tb.lines[:0]
	start := 0
	width := 0
	for i, c := range tb.cells {
		if c.Rune == '\n' {
			tb.lines = append(tb.lines, LineInfo{Start: start, Width: width})
			start = i + 1
			width = 0
			continue
		}
		w := tb.widths.RuneWidth(c.Rune)
		if tb.wrapWidth > 0 && width+w > tb.wrapWidth && width > 0 {
			tb.lines = append(tb.lines, LineInfo{Start: start, Width: width})
			start = i
			width = 0
		}
		width += w
	}
	tb.lines = append(tb.lines, LineInfo{Start: start, Width: width})
	tb.linesValid = true
}

// LineCount returns the number of laid-out lines. Zero before finalization.
func (tb *TextBuffer) LineCount() int {
	if !tb.linesValid {
		return 0
	}
	return len(tb.lines)
}

// LineInfos returns the laid-out lines. Nil before finalization.
func (tb *TextBuffer) LineInfos() []LineInfo {
	if !tb.linesValid {
		return nil
	}
	return tb.lines
}

// Concat returns a fresh buffer holding a's codepoints followed by b's,
// preserving per-cell styles. Defaults and selection are not copied; the
// result shares no storage with its inputs.
func Concat(a, b *TextBuffer) *TextBuffer {
	out := NewText(a.Length()+b.Length(), a.widths)
	out.cells = append(out.cells, a.cells...)
	out.cells = append(out.cells, b.cells...)
	return out
}
