// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: renderer/ansi.go
// Summary: ANSI/SGR escape emission helpers and the per-frame style state.

package renderer

import (
	"strconv"

	"github.com/framegrace/texelcore/cell"
)

const (
	csi = "\x1b["

	seqHideCursor = "\x1b[?25l"
	seqShowCursor = "\x1b[?25h"
	seqResetSGR   = "\x1b[0m"
	seqClearAll   = "\x1b[2J\x1b[H"

	seqAltScreenOn  = "\x1b[?1049h"
	seqAltScreenOff = "\x1b[?1049l"

	seqSyncBegin = "\x1b[?2026h"
	seqSyncEnd   = "\x1b[?2026l"

	seqMouseOn        = "\x1b[?1000h\x1b[?1002h\x1b[?1006h"
	seqMouseMotionOn  = "\x1b[?1003h"
	seqMouseOff       = "\x1b[?1003l\x1b[?1006l\x1b[?1002l\x1b[?1000l"
	seqKittyPop         = "\x1b[<u"
	seqResetCursorColor = "\x1b]112\x07"
)

// appendMoveTo appends a 1-based absolute cursor move for 0-based cell
// coordinates.
func appendMoveTo(dst []byte, x, y int) []byte {
	dst = append(dst, csi...)
	dst = strconv.AppendInt(dst, int64(y+1), 10)
	dst = append(dst, ';')
	dst = strconv.AppendInt(dst, int64(x+1), 10)
	return append(dst, 'H')
}

// appendKittyPush appends the Kitty keyboard protocol push for the given
// progressive-enhancement flags.
func appendKittyPush(dst []byte, flags uint8) []byte {
	dst = append(dst, csi...)
	dst = append(dst, '>')
	dst = strconv.AppendUint(dst, uint64(flags), 10)
	return append(dst, 'u')
}

// appendCursorShape appends a DECSCUSR sequence for the style/blink pair.
func appendCursorShape(dst []byte, style CursorStyle, blinking bool) []byte {
	// DECSCUSR: 1/2 block, 3/4 underline, 5/6 bar; odd values blink.
	var param byte
	switch style {
	case CursorUnderline:
		param = '4'
	case CursorBar:
		param = '6'
	default:
		param = '2'
	}
	if blinking {
		param--
	}
	dst = append(dst, csi...)
	dst = append(dst, param)
	return append(dst, " q"...)
}

// appendCursorColor appends an OSC 12 cursor color set.
func appendCursorColor(dst []byte, c cell.RGBA) []byte {
	r, g, b := c.RGB255()
	dst = append(dst, "\x1b]12;rgb:"...)
	dst = appendHex8(dst, r)
	dst = append(dst, '/')
	dst = appendHex8(dst, g)
	dst = append(dst, '/')
	dst = appendHex8(dst, b)
	return append(dst, '\x07')
}

func appendHex8(dst []byte, v uint8) []byte {
	const digits = "0123456789abcdef"
	return append(dst, digits[v>>4], digits[v&0xf])
}

// sgrState tracks the style the terminal is currently in, so runs only emit
// the SGR parameters that actually change between cells.
type sgrState struct {
	fg, bg cell.RGBA
	attr   cell.Attr
	valid  bool
}

func (s *sgrState) reset() { *s = sgrState{} }

// attrCodes maps attribute bits to their SGR set parameters, in bit order.
var attrCodes = [8]byte{1, 2, 3, 4, 5, 7, 9, 8}

// append emits the minimal SGR sequence moving the terminal from the current
// state to (fg, bg, attr). Dropping an attribute requires a full reset since
// not every terminal honors the individual clear codes.
func (s *sgrState) append(dst []byte, fg, bg cell.RGBA, attr cell.Attr) []byte {
	if s.valid && fg == s.fg && bg == s.bg && attr == s.attr {
		return dst
	}
	start := len(dst)
	dst = append(dst, csi...)
	first := true
	sep := func() {
		if !first {
			dst = append(dst, ';')
		}
		first = false
	}

	needReset := !s.valid || s.attr&^attr != 0
	if needReset {
		sep()
		dst = append(dst, '0')
		s.attr = 0
		s.fg = cell.RGBA{}
		s.bg = cell.RGBA{}
	}
	for bit := 0; bit < len(attrCodes); bit++ {
		mask := cell.Attr(1) << bit
		if attr&mask != 0 && s.attr&mask == 0 {
			sep()
			dst = strconv.AppendUint(dst, uint64(attrCodes[bit]), 10)
		}
	}
	if !s.valid || needReset || fg != s.fg {
		sep()
		dst = appendColor(dst, fg, true)
	}
	if !s.valid || needReset || bg != s.bg {
		sep()
		dst = appendColor(dst, bg, false)
	}
	if first {
		// Nothing actually changed; drop the empty CSI.
		return dst[:start]
	}
	dst = append(dst, 'm')
	s.fg, s.bg, s.attr, s.valid = fg, bg, attr, true
	return dst
}

// appendColor emits a 24-bit SGR color parameter (38;2 foreground,
// 48;2 background).
func appendColor(dst []byte, c cell.RGBA, foreground bool) []byte {
	r, g, b := c.RGB255()
	if foreground {
		dst = append(dst, "38;2;"...)
	} else {
		dst = append(dst, "48;2;"...)
	}
	dst = strconv.AppendUint(dst, uint64(r), 10)
	dst = append(dst, ';')
	dst = strconv.AppendUint(dst, uint64(g), 10)
	dst = append(dst, ';')
	return strconv.AppendUint(dst, uint64(b), 10)
}
