package buffer

import (
	"errors"
	"testing"

	"github.com/framegrace/texelcore/cell"
)

func TestWriteChunkRoundTrip(t *testing.T) {
	tb := NewText(0, cell.WidthWCWidth)
	n := tb.WriteChunk("hello", nil, nil, nil)
	if n != 5 || tb.Length() != 5 {
		t.Fatalf("WriteChunk returned %d, length %d", n, tb.Length())
	}
	for i, want := range "hello" {
		c, err := tb.CellAt(i)
		if err != nil {
			t.Fatalf("CellAt(%d): %v", i, err)
		}
		if c.Rune != want {
			t.Fatalf("cell %d = %q, want %q", i, c.Rune, want)
		}
	}
}

func TestWriteChunkUsesDefaults(t *testing.T) {
	tb := NewText(0, cell.WidthWCWidth)
	fg := cell.Red
	attr := cell.AttrItalic
	tb.SetDefaultFg(&fg)
	tb.SetDefaultAttr(&attr)
	tb.WriteString("x")
	c, _ := tb.CellAt(0)
	if c.Fg != cell.Red || c.Attr.Base() != cell.AttrItalic {
		t.Fatalf("defaults not applied: %#v", c)
	}

	tb.ResetDefaults()
	tb.WriteString("y")
	c, _ = tb.CellAt(1)
	if c.Fg != cell.White || c.Attr != 0 {
		t.Fatalf("reset defaults not applied: %#v", c)
	}
}

func TestWriteChunkGrowsCapacity(t *testing.T) {
	tb := NewText(4, cell.WidthWCWidth)
	tb.WriteString("0123456789")
	if tb.Length() != 10 {
		t.Fatalf("length %d", tb.Length())
	}
	if tb.Capacity() < 10 {
		t.Fatalf("capacity %d did not grow", tb.Capacity())
	}
}

func TestSetCellOutOfRange(t *testing.T) {
	tb := NewText(0, cell.WidthWCWidth)
	tb.WriteString("ab")
	if err := tb.SetCell(2, 'x', cell.White, cell.Black, 0); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("want ErrIndexOutOfRange, got %v", err)
	}
	if err := tb.SetCell(1, 'x', cell.White, cell.Black, 0); err != nil {
		t.Fatalf("in-range SetCell: %v", err)
	}
	c, _ := tb.CellAt(1)
	if c.Rune != 'x' {
		t.Fatalf("SetCell did not apply: %#v", c)
	}
}

func TestFinalizeLineInfoNewlines(t *testing.T) {
	tb := NewText(0, cell.WidthWCWidth)
	tb.WriteString("ab\ncd")
	if tb.LineCount() != 0 {
		t.Fatalf("line info valid before finalize")
	}
	tb.FinalizeLineInfo()
	lines := tb.LineInfos()
	if len(lines) != 2 {
		t.Fatalf("line count %d, want 2", len(lines))
	}
	if lines[0].Start != 0 || lines[1].Start != 3 {
		t.Fatalf("line starts [%d,%d], want [0,3]", lines[0].Start, lines[1].Start)
	}
	if lines[0].Width != 2 || lines[1].Width != 2 {
		t.Fatalf("line widths [%d,%d], want [2,2]", lines[0].Width, lines[1].Width)
	}
}

func TestFinalizeLineInfoInvalidatedByMutation(t *testing.T) {
	tb := NewText(0, cell.WidthWCWidth)
	tb.WriteString("ab")
	tb.FinalizeLineInfo()
	tb.WriteString("\ncd")
	if tb.LineCount() != 0 {
		t.Fatalf("mutation must invalidate line info")
	}
	tb.FinalizeLineInfo()
	if tb.LineCount() != 2 {
		t.Fatalf("re-finalize gave %d lines", tb.LineCount())
	}
}

func TestFinalizeLineInfoWrapWidth(t *testing.T) {
	tb := NewText(0, cell.WidthWCWidth)
	tb.WriteString("abcdef")
	tb.SetWrapWidth(4)
	tb.FinalizeLineInfo()
	lines := tb.LineInfos()
	if len(lines) != 2 || lines[0].Width != 4 || lines[1].Width != 2 {
		t.Fatalf("wrap layout wrong: %#v", lines)
	}
}

func TestConcatCopiesStyledContent(t *testing.T) {
	a := NewText(0, cell.WidthWCWidth)
	fg := cell.Red
	a.WriteChunk("ab", &fg, nil, nil)
	a.SetSelection(0, 1, nil, nil)

	b := NewText(0, cell.WidthWCWidth)
	b.WriteString("cd")

	out := Concat(a, b)
	if out.Length() != a.Length()+b.Length() {
		t.Fatalf("concat length %d, want %d", out.Length(), a.Length()+b.Length())
	}
	c, _ := out.CellAt(0)
	if c.Rune != 'a' || c.Fg != cell.Red {
		t.Fatalf("style not preserved: %#v", c)
	}
	c, _ = out.CellAt(2)
	if c.Rune != 'c' {
		t.Fatalf("second buffer content wrong: %#v", c)
	}
	if _, _, ok := out.Selection(); ok {
		t.Fatalf("selection must not be copied")
	}

	// Fresh copy: mutating the result leaves inputs untouched.
	out.SetCell(0, 'z', cell.White, cell.Black, 0)
	c, _ = a.CellAt(0)
	if c.Rune != 'a' {
		t.Fatalf("concat aliased its input: %#v", c)
	}
}

func TestSelectionClamped(t *testing.T) {
	tb := NewText(0, cell.WidthWCWidth)
	tb.WriteString("abc")
	tb.SetSelection(-5, 99, nil, nil)
	start, end, ok := tb.Selection()
	if !ok || start != 0 || end != 3 {
		t.Fatalf("selection not clamped: %d..%d", start, end)
	}
}

func TestResetKeepsCapacity(t *testing.T) {
	tb := NewText(64, cell.WidthWCWidth)
	tb.WriteString("abc")
	capBefore := tb.Capacity()
	tb.Reset()
	if tb.Length() != 0 || tb.Capacity() != capBefore {
		t.Fatalf("reset lost capacity: len=%d cap=%d", tb.Length(), tb.Capacity())
	}
}

func TestDrawTextBufferWithSelection(t *testing.T) {
	tb := NewText(0, cell.WidthWCWidth)
	tb.WriteString("ab\ncd")
	selBg := cell.Yellow
	tb.SetSelection(3, 5, &selBg, nil)
	tb.FinalizeLineInfo()

	b := mustNew(t, 4, 3, false)
	b.DrawTextBuffer(tb, 0, 0, nil)

	c, _ := b.CellAt(0, 0)
	if c.Rune != 'a' {
		t.Fatalf("line 0 missing: %#v", c)
	}
	c, _ = b.CellAt(0, 1)
	if c.Rune != 'c' || c.Bg != cell.Yellow {
		t.Fatalf("selection overlay missing on line 1: %#v", c)
	}
	// Stored cells keep their original style.
	tc, _ := tb.CellAt(3)
	if tc.Bg == cell.Yellow {
		t.Fatalf("selection baked into storage: %#v", tc)
	}
}

func TestDrawTextBufferClipSkipsLines(t *testing.T) {
	tb := NewText(0, cell.WidthWCWidth)
	tb.WriteString("one\ntwo\nthree")
	tb.FinalizeLineInfo()

	b := mustNew(t, 10, 3, false)
	clip := &ClipRect{X: 0, Y: 1, Width: 10, Height: 1}
	b.DrawTextBuffer(tb, 0, 0, clip)

	c, _ := b.CellAt(0, 0)
	if c.Rune != 0 {
		t.Fatalf("clipped line 0 drawn: %#v", c)
	}
	c, _ = b.CellAt(0, 1)
	if c.Rune != 't' {
		t.Fatalf("line inside clip missing: %#v", c)
	}
	c, _ = b.CellAt(0, 2)
	if c.Rune != 0 {
		t.Fatalf("clipped line 2 drawn: %#v", c)
	}
}
