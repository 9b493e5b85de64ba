// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: tcelldriver/driver.go
// Summary: Presents engine buffers onto a tcell.Screen.
// Usage: Embedding hosts that already run a tcell application hand their
// screen to a Driver instead of giving the engine a raw terminal.

// Package tcelldriver maps engine cells onto a tcell.Screen, for hosts that
// embed the rendering engine inside an existing tcell application.
package tcelldriver

import (
	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texelcore/buffer"
	"github.com/framegrace/texelcore/cell"
)

// Driver presents buffers onto a wrapped tcell.Screen.
type Driver struct {
	screen tcell.Screen
}

// New wraps the provided screen. The caller owns the screen's lifecycle.
func New(screen tcell.Screen) *Driver {
	return &Driver{screen: screen}
}

// Size returns the screen dimensions in cells.
func (d *Driver) Size() (int, int) {
	return d.screen.Size()
}

// Present writes the buffer's cells at the given origin and shows the
// result. Wide-glyph continuation cells are skipped; tcell manages the
// second column itself.
func (d *Driver) Present(b *buffer.Buffer, originX, originY int) {
	cells := b.Cells()
	w, h := b.Width(), b.Height()
	widths := b.WidthMethod()

	for y := 0; y < h; y++ {
		row := cells[y*w : y*w+w]
		for x := 0; x < w; {
			c := row[x]
			style := cellStyle(c)
			if c.Rune == 0 {
				d.screen.SetContent(originX+x, originY+y, ' ', nil, style)
				x++
				continue
			}
			d.screen.SetContent(originX+x, originY+y, c.Rune, nil, style)
			if widths.RuneWidth(c.Rune) == 2 {
				x += 2
			} else {
				x++
			}
		}
	}
	d.screen.Show()
}

// Underlying exposes the wrapped tcell.Screen for host code paths that need
// direct access.
func (d *Driver) Underlying() tcell.Screen {
	return d.screen
}

// cellStyle converts an engine cell's colors and attributes to tcell.
func cellStyle(c cell.Cell) tcell.Style {
	fr, fg, fb := c.Fg.RGB255()
	br, bg, bb := c.Bg.RGB255()
	style := tcell.StyleDefault.
		Foreground(tcell.NewRGBColor(int32(fr), int32(fg), int32(fb))).
		Background(tcell.NewRGBColor(int32(br), int32(bg), int32(bb)))

	style = style.Bold(c.Attr.Has(cell.AttrBold)).
		Dim(c.Attr.Has(cell.AttrDim)).
		Italic(c.Attr.Has(cell.AttrItalic)).
		Underline(c.Attr.Has(cell.AttrUnderline)).
		Blink(c.Attr.Has(cell.AttrBlink)).
		Reverse(c.Attr.Has(cell.AttrReverse)).
		StrikeThrough(c.Attr.Has(cell.AttrStrike))
	return style
}
