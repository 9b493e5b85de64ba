package tcelldriver

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texelcore/buffer"
	"github.com/framegrace/texelcore/cell"
)

func newSimScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	s.SetSize(w, h)
	return s
}

func TestPresentWritesCells(t *testing.T) {
	s := newSimScreen(t, 10, 4)
	defer s.Fini()

	b, err := buffer.New(10, 4, false, cell.WidthWCWidth)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b.Clear(cell.Black)
	b.DrawText("Hi", 1, 2, cell.White, nil, cell.AttrBold)

	New(s).Present(b, 0, 0)

	mainc, _, style, _ := s.GetContent(1, 2)
	if mainc != 'H' {
		t.Fatalf("cell (1,2) = %q, want 'H'", mainc)
	}
	fg, _, attrs := style.Decompose()
	if fg != tcell.NewRGBColor(255, 255, 255) {
		t.Fatalf("foreground = %v", fg)
	}
	if attrs&tcell.AttrBold == 0 {
		t.Fatalf("bold attribute lost")
	}
}

func TestPresentOffsetsOrigin(t *testing.T) {
	s := newSimScreen(t, 12, 6)
	defer s.Fini()

	b, _ := buffer.New(4, 2, false, cell.WidthWCWidth)
	b.Clear(cell.Blue)
	b.DrawText("x", 0, 0, cell.White, nil, 0)

	New(s).Present(b, 3, 2)

	mainc, _, _, _ := s.GetContent(3, 2)
	if mainc != 'x' {
		t.Fatalf("origin offset ignored: cell (3,2) = %q", mainc)
	}
}

func TestPresentWideGlyph(t *testing.T) {
	s := newSimScreen(t, 8, 2)
	defer s.Fini()

	b, _ := buffer.New(8, 2, false, cell.WidthWCWidth)
	b.Clear(cell.Black)
	b.DrawText("世a", 0, 0, cell.White, nil, 0)

	New(s).Present(b, 0, 0)

	mainc, _, _, width := s.GetContent(0, 0)
	if mainc != '世' || width != 2 {
		t.Fatalf("wide glyph = %q width %d", mainc, width)
	}
	mainc, _, _, _ = s.GetContent(2, 0)
	if mainc != 'a' {
		t.Fatalf("glyph after wide = %q, want 'a'", mainc)
	}
}
