package renderer

import (
	"errors"
	"testing"

	"github.com/framegrace/texelcore/buffer"
	"github.com/framegrace/texelcore/cell"
)

func TestFrameDeltaRoundTrip(t *testing.T) {
	src, err := buffer.New(8, 3, false, cell.WidthWCWidth)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	src.Clear(cell.Black)
	src.DrawText("hello", 0, 0, cell.White, nil, cell.AttrBold)
	src.DrawText("世", 0, 1, cell.Green, nil, 0)

	delta := DeltaFromBuffer(src)
	if delta.Width != 8 || delta.Height != 3 {
		t.Fatalf("delta geometry %dx%d", delta.Width, delta.Height)
	}

	payload, err := EncodeFrameDelta(delta)
	if err != nil {
		t.Fatalf("EncodeFrameDelta: %v", err)
	}
	decoded, err := DecodeFrameDelta(payload)
	if err != nil {
		t.Fatalf("DecodeFrameDelta: %v", err)
	}

	dst, _ := buffer.New(8, 3, false, cell.WidthWCWidth)
	ApplyFrameDelta(dst, decoded)

	for _, pos := range []struct{ x, y int }{{0, 0}, {4, 0}, {0, 1}} {
		want, _ := src.CellAt(pos.x, pos.y)
		got, _ := dst.CellAt(pos.x, pos.y)
		if got.Rune != want.Rune || got.Attr != want.Attr {
			t.Fatalf("cell (%d,%d) = %#v, want %#v", pos.x, pos.y, got, want)
		}
		if PackRGBA(got.Fg) != PackRGBA(want.Fg) || PackRGBA(got.Bg) != PackRGBA(want.Bg) {
			t.Fatalf("cell (%d,%d) colors drifted beyond quantization", pos.x, pos.y)
		}
	}
}

func TestFrameDeltaSpansSplitOnStyle(t *testing.T) {
	src, _ := buffer.New(6, 1, false, cell.WidthWCWidth)
	src.Clear(cell.Black)
	src.DrawText("ab", 0, 0, cell.White, nil, 0)
	src.DrawText("cd", 2, 0, cell.Red, nil, 0)

	delta := DeltaFromBuffer(src)
	if len(delta.Rows) != 1 {
		t.Fatalf("row count %d", len(delta.Rows))
	}
	// White run, red run, then the trailing empty cells.
	if len(delta.Rows[0].Spans) != 3 {
		t.Fatalf("span count %d, want 3: %+v", len(delta.Rows[0].Spans), delta.Rows[0].Spans)
	}
	if delta.Rows[0].Spans[1].StartCol != 2 || delta.Rows[0].Spans[1].Text != "cd" {
		t.Fatalf("second span wrong: %+v", delta.Rows[0].Spans[1])
	}
}

func TestDecodeFrameDeltaTruncated(t *testing.T) {
	src, _ := buffer.New(4, 2, false, cell.WidthWCWidth)
	src.Clear(cell.Black)
	payload, err := EncodeFrameDelta(DeltaFromBuffer(src))
	if err != nil {
		t.Fatalf("EncodeFrameDelta: %v", err)
	}

	for _, n := range []int{0, 3, 5, len(payload) - 1} {
		if _, err := DecodeFrameDelta(payload[:n]); !errors.Is(err, ErrPayloadShort) {
			t.Fatalf("truncated payload (%d bytes) decoded: %v", n, err)
		}
	}
}

func TestPackRGBARoundTrip(t *testing.T) {
	c := cell.NewRGBA(0.25, 0.5, 0.75, 1)
	back := UnpackRGBA(PackRGBA(c))
	if PackRGBA(back) != PackRGBA(c) {
		t.Fatalf("pack/unpack not stable: %#v vs %#v", back, c)
	}
}
