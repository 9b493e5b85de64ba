// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: renderer/delta.go
// Summary: Compact binary encoding of frame updates as per-row cell spans.
//
// A FrameDelta captures the dirty runs of one frame in a transport- and
// storage-friendly form: diagnostics dumps persist them, and embedding hosts
// can ship them instead of raw ANSI. Colors are quantized to 8 bits per
// channel; the format is not a compatibility contract.

package renderer

import (
	"bytes"
	"encoding/binary"

	"github.com/framegrace/texelcore/buffer"
	"github.com/framegrace/texelcore/cell"
)

// CellSpan covers contiguous cells on a row sharing one style.
type CellSpan struct {
	StartCol uint16
	Attr     uint8
	Fg       uint32 // packed RGBA, 8 bits per channel
	Bg       uint32
	Text     string
}

// RowDelta captures the updates for a single row.
type RowDelta struct {
	Row   uint16
	Spans []CellSpan
}

// FrameDelta is one frame's worth of cell updates.
type FrameDelta struct {
	Width  uint16
	Height uint16
	Rows   []RowDelta
}

// PackRGBA quantizes a color to 8 bits per channel, R in the high byte.
func PackRGBA(c cell.RGBA) uint32 {
	r, g, b := c.RGB255()
	a := uint32(0)
	if c.A > 0 {
		if c.A >= 1 {
			a = 255
		} else {
			a = uint32(c.A*255 + 0.5)
		}
	}
	return uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | a
}

// UnpackRGBA reverses PackRGBA.
func UnpackRGBA(v uint32) cell.RGBA {
	return cell.RGBA{
		R: float32(v>>24&0xff) / 255,
		G: float32(v>>16&0xff) / 255,
		B: float32(v>>8&0xff) / 255,
		A: float32(v&0xff) / 255,
	}
}

// DeltaFromBuffer snapshots an entire buffer as a FrameDelta: every row one
// or more spans, split where the style changes. Continuation cells of wide
// glyphs are folded into their span's text.
func DeltaFromBuffer(b *buffer.Buffer) FrameDelta {
	w, h := b.Width(), b.Height()
	delta := FrameDelta{Width: uint16(w), Height: uint16(h)}
	cells := b.Cells()
	widths := b.WidthMethod()

	for y := 0; y < h; y++ {
		row := cells[y*w : y*w+w]
		var spans []CellSpan
		for x := 0; x < w; {
			c := row[x]
			span := CellSpan{
				StartCol: uint16(x),
				Attr:     uint8(c.Attr),
				Fg:       PackRGBA(c.Fg),
				Bg:       PackRGBA(c.Bg),
			}
			var text []rune
			for x < w {
				n := row[x]
				if uint8(n.Attr) != span.Attr || PackRGBA(n.Fg) != span.Fg || PackRGBA(n.Bg) != span.Bg {
					break
				}
				if n.Rune == 0 {
					text = append(text, ' ')
					x++
					continue
				}
				text = append(text, n.Rune)
				if widths.RuneWidth(n.Rune) == 2 {
					x += 2
				} else {
					x++
				}
			}
			span.Text = string(text)
			spans = append(spans, span)
		}
		delta.Rows = append(delta.Rows, RowDelta{Row: uint16(y), Spans: spans})
	}
	return delta
}

// EncodeFrameDelta serializes the delta into its binary form.
func EncodeFrameDelta(delta FrameDelta) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, 256))
	binary.Write(buf, binary.LittleEndian, delta.Width)
	binary.Write(buf, binary.LittleEndian, delta.Height)

	if len(delta.Rows) > 0xFFFF {
		return nil, ErrDeltaTooLarge
	}
	binary.Write(buf, binary.LittleEndian, uint16(len(delta.Rows)))
	for _, row := range delta.Rows {
		if len(row.Spans) > 0xFFFF {
			return nil, ErrDeltaTooLarge
		}
		binary.Write(buf, binary.LittleEndian, row.Row)
		binary.Write(buf, binary.LittleEndian, uint16(len(row.Spans)))
		for _, span := range row.Spans {
			text := []byte(span.Text)
			if len(text) > 0xFFFF {
				return nil, ErrDeltaTooLarge
			}
			binary.Write(buf, binary.LittleEndian, span.StartCol)
			buf.WriteByte(span.Attr)
			binary.Write(buf, binary.LittleEndian, span.Fg)
			binary.Write(buf, binary.LittleEndian, span.Bg)
			binary.Write(buf, binary.LittleEndian, uint16(len(text)))
			buf.Write(text)
		}
	}
	return buf.Bytes(), nil
}

// DecodeFrameDelta reverses EncodeFrameDelta.
func DecodeFrameDelta(b []byte) (FrameDelta, error) {
	var delta FrameDelta
	if len(b) < 6 { // width(2)+height(2)+rowCount(2)
		return delta, ErrPayloadShort
	}
	delta.Width = binary.LittleEndian.Uint16(b[0:2])
	delta.Height = binary.LittleEndian.Uint16(b[2:4])
	rowCount := binary.LittleEndian.Uint16(b[4:6])
	b = b[6:]

	delta.Rows = make([]RowDelta, rowCount)
	for i := 0; i < int(rowCount); i++ {
		if len(b) < 4 {
			return delta, ErrPayloadShort
		}
		row := binary.LittleEndian.Uint16(b[0:2])
		spanCount := binary.LittleEndian.Uint16(b[2:4])
		b = b[4:]
		spans := make([]CellSpan, spanCount)
		for s := 0; s < int(spanCount); s++ {
			if len(b) < 13 { // startCol(2)+attr(1)+fg(4)+bg(4)+textLen(2)
				return delta, ErrPayloadShort
			}
			span := CellSpan{
				StartCol: binary.LittleEndian.Uint16(b[0:2]),
				Attr:     b[2],
				Fg:       binary.LittleEndian.Uint32(b[3:7]),
				Bg:       binary.LittleEndian.Uint32(b[7:11]),
			}
			textLen := binary.LittleEndian.Uint16(b[11:13])
			b = b[13:]
			if len(b) < int(textLen) {
				return delta, ErrPayloadShort
			}
			span.Text = string(b[:textLen])
			b = b[textLen:]
			spans[s] = span
		}
		delta.Rows[i] = RowDelta{Row: row, Spans: spans}
	}
	return delta, nil
}

// ApplyFrameDelta draws a decoded delta into a buffer, clipping at its
// bounds. Used by the dump inspector to reconstruct stored frames.
func ApplyFrameDelta(b *buffer.Buffer, delta FrameDelta) {
	for _, row := range delta.Rows {
		for _, span := range row.Spans {
			fg := UnpackRGBA(span.Fg)
			bg := UnpackRGBA(span.Bg)
			b.DrawText(span.Text, int(span.StartCol), int(row.Row), fg, &bg, cell.Attr(span.Attr))
		}
	}
}
