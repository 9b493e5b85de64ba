// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: buffer/raster.go
// Summary: Raster import paths: packed cell payloads and super-sampled
// pixel downsampling onto quarter-block glyphs.

package buffer

import (
	"fmt"

	"github.com/framegrace/texelcore/cell"
)

// PixelFormat tags the channel layout of super-sample pixel payloads.
type PixelFormat uint8

const (
	FormatRGBA PixelFormat = iota
	FormatRGB
	FormatBGRA
	FormatBGR
)

func (f PixelFormat) bytesPerPixel() int {
	switch f {
	case FormatRGBA, FormatBGRA:
		return 4
	case FormatRGB, FormatBGR:
		return 3
	default:
		return 0
	}
}

// PackedCellSize is the byte size of one cell in a packed payload:
// codepoint (uint32 LE), fg RGBA (4×uint8), bg RGBA (4×uint8), attributes.
const PackedCellSize = 13

// AppendPackedCell appends the packed form of c to dst.
func AppendPackedCell(dst []byte, c cell.Cell) []byte {
	dst = append(dst,
		byte(c.Rune), byte(c.Rune>>8), byte(c.Rune>>16), byte(c.Rune>>24))
	fr, fg, fb := c.Fg.RGB255()
	br, bg, bb := c.Bg.RGB255()
	dst = append(dst, fr, fg, fb, quant8(c.Fg.A))
	dst = append(dst, br, bg, bb, quant8(c.Bg.A))
	return append(dst, byte(c.Attr))
}

func quant8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

func unpackCell(p []byte) cell.Cell {
	r := rune(uint32(p[0]) | uint32(p[1])<<8 | uint32(p[2])<<16 | uint32(p[3])<<24)
	return cell.Cell{
		Rune: r,
		Fg:   cell.NewRGBA(float32(p[4])/255, float32(p[5])/255, float32(p[6])/255, float32(p[7])/255),
		Bg:   cell.NewRGBA(float32(p[8])/255, float32(p[9])/255, float32(p[10])/255, float32(p[11])/255),
		Attr: cell.Attr(p[12]),
	}
}

// DrawPackedBuffer blits a pre-quantized cell payload at (posX, posY). The
// payload must carry widthCells×heightCells packed cells; shorter payloads
// fail with ErrBufferTooSmall and leave the buffer untouched.
func (b *Buffer) DrawPackedBuffer(data []byte, posX, posY, widthCells, heightCells int) error {
	if widthCells <= 0 || heightCells <= 0 {
		return nil
	}
	need := widthCells * heightCells * PackedCellSize
	if len(data) < need {
		return fmt.Errorf("%w: have %d bytes, need %d", ErrBufferTooSmall, len(data), need)
	}
	for cy := 0; cy < heightCells; cy++ {
		for cx := 0; cx < widthCells; cx++ {
			c := unpackCell(data[(cy*widthCells+cx)*PackedCellSize:])
			b.SetCellWithAlphaBlending(posX+cx, posY+cy, c.Rune, c.Fg, c.Bg, c.Attr)
		}
	}
	return nil
}

// Quarter-block glyphs indexed by quadrant mask: bit0 top-left, bit1
// top-right, bit2 bottom-left, bit3 bottom-right.
var quadrantGlyphs = [16]rune{
	0, '▘', '▝', '▀',
	'▖', '▌', '▞', '▛',
	'▗', '▚', '▐', '▜',
	'▄', '▙', '▟', '█',
}

type pixel struct {
	r, g, b, a float32
}

func (p pixel) luma() float32 {
	return 0.2126*p.r + 0.7152*p.g + 0.0722*p.b
}

// DrawSuperSampleBuffer downsamples a pixel block onto the grid starting at
// cell (x, y). Each cell consumes a 2×2 pixel tile: quadrants brighter than
// the tile's mean luminance become foreground coverage of the chosen
// quarter-block glyph, and fg/bg are the mean colors of the two partitions
// (minimizing mean color error against the glyph's coverage mask). Rows are
// strided by alignedBytesPerRow.
func (b *Buffer) DrawSuperSampleBuffer(x, y int, pixels []byte, format PixelFormat, alignedBytesPerRow int) error {
	bpp := format.bytesPerPixel()
	if bpp == 0 {
		return fmt.Errorf("%w: format tag %d", ErrUnsupportedFormat, format)
	}
	if alignedBytesPerRow < bpp {
		return fmt.Errorf("%w: row stride %d below pixel size", ErrBufferTooSmall, alignedBytesPerRow)
	}
	rows := len(pixels) / alignedBytesPerRow
	cols := alignedBytesPerRow / bpp
	if rows < 2 || cols < 2 {
		return fmt.Errorf("%w: %d bytes is below one 2x2 tile", ErrBufferTooSmall, len(pixels))
	}

	at := func(px, py int) pixel {
		off := py*alignedBytesPerRow + px*bpp
		var r, g, bl, a float32
		switch format {
		case FormatRGBA, FormatRGB:
			r = float32(pixels[off]) / 255
			g = float32(pixels[off+1]) / 255
			bl = float32(pixels[off+2]) / 255
		case FormatBGRA, FormatBGR:
			bl = float32(pixels[off]) / 255
			g = float32(pixels[off+1]) / 255
			r = float32(pixels[off+2]) / 255
		}
		if bpp == 4 {
			a = float32(pixels[off+3]) / 255
		} else {
			a = 1
		}
		return pixel{r, g, bl, a}
	}

	for ty := 0; ty+1 < rows; ty += 2 {
		for tx := 0; tx+1 < cols; tx += 2 {
			tile := [4]pixel{
				at(tx, ty), at(tx+1, ty),
				at(tx, ty+1), at(tx+1, ty+1),
			}
			r, fg, bg := quantizeTile(tile)
			b.SetCellWithAlphaBlending(x+tx/2, y+ty/2, r, fg, bg, 0)
		}
	}
	return nil
}

// quantizeTile partitions the four quadrant pixels around their mean
// luminance and picks the matching quarter-block glyph. Foreground is the
// mean of the bright partition, background the mean of the dark one.
func quantizeTile(tile [4]pixel) (rune, cell.RGBA, cell.RGBA) {
	var meanLuma float32
	for _, p := range tile {
		meanLuma += p.luma()
	}
	meanLuma /= 4

	var mask int
	var hi, lo pixel
	var nHi, nLo int
	for i, p := range tile {
		if p.luma() > meanLuma {
			mask |= 1 << i
			hi.r += p.r
			hi.g += p.g
			hi.b += p.b
			hi.a += p.a
			nHi++
		} else {
			lo.r += p.r
			lo.g += p.g
			lo.b += p.b
			lo.a += p.a
			nLo++
		}
	}

	if nHi == 0 {
		// Uniform tile: a bare background cell approximates it exactly.
		avg := meanPixel(lo, nLo)
		return 0, cell.White, avg
	}
	fg := meanPixel(hi, nHi)
	bg := cell.Transparent
	if nLo > 0 {
		bg = meanPixel(lo, nLo)
	}
	return quadrantGlyphs[mask], fg, bg
}

func meanPixel(sum pixel, n int) cell.RGBA {
	f := float32(n)
	return cell.NewRGBA(sum.r/f, sum.g/f, sum.b/f, sum.a/f)
}
