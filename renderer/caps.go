// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: renderer/caps.go
// Summary: Terminal capability snapshot and response parsing.
//
// The engine does not own the terminal's input stream. The host reads raw
// bytes and feeds any recognizable capability responses here; the parser
// tolerates partial sequences split across calls and ignores everything it
// does not understand.

package renderer

import (
	"bytes"
	"strconv"
	"strings"
)

// Capabilities is a snapshot of what the attached terminal supports. It is
// updated by ProcessCapabilityResponse and read via GetTerminalCapabilities.
type Capabilities struct {
	SupportsTruecolor       bool
	SupportsMouse           bool
	SupportsKittyKeyboard   bool
	SupportsAlternateScreen bool
	SupportsSyncUpdates     bool
}

// Query sequences emitted by SetupTerminal. Terminals answer the ones they
// know and stay silent on the rest.
const capabilityQueries = "\x1b[?u" + // Kitty keyboard flags
	"\x1b[?2026$p" + // DECRQM: synchronized updates
	"\x1b[?1016$p" + // DECRQM: SGR pixel mouse
	"\x1b[>0q" + // XTVERSION
	"\x1bP+q524742\x1b\\" + // XTGETTCAP: RGB
	"\x1b[c" // DA1

// capsParser accumulates response bytes until complete escape sequences can
// be consumed.
type capsParser struct {
	caps    Capabilities
	pending []byte
}

// maxPending bounds the partial-sequence buffer so garbage input cannot grow
// it without limit.
const maxPending = 256

// feed appends raw response bytes and consumes every complete sequence.
func (p *capsParser) feed(b []byte) {
	p.pending = append(p.pending, b...)
	for {
		n := p.consumeOne()
		if n == 0 {
			break
		}
		p.pending = p.pending[n:]
	}
	if len(p.pending) > maxPending {
		p.pending = p.pending[len(p.pending)-maxPending:]
	}
}

// consumeOne handles the first complete sequence in pending and returns the
// number of bytes it occupied, or 0 when more input is needed. Bytes that
// cannot start a sequence are skipped one at a time.
func (p *capsParser) consumeOne() int {
	if len(p.pending) == 0 {
		return 0
	}
	if p.pending[0] != 0x1b {
		return 1
	}
	if len(p.pending) < 2 {
		return 0
	}
	switch p.pending[1] {
	case '[':
		return p.consumeCSI()
	case 'P':
		return p.consumeDCS()
	default:
		return 1
	}
}

func (p *capsParser) consumeCSI() int {
	// Final byte of a CSI sequence is in 0x40..0x7e.
	for i := 2; i < len(p.pending); i++ {
		c := p.pending[i]
		if c >= 0x40 && c <= 0x7e {
			p.handleCSI(string(p.pending[2:i]), c)
			return i + 1
		}
	}
	return 0
}

func (p *capsParser) consumeDCS() int {
	// DCS payload runs until ST (ESC \).
	end := bytes.Index(p.pending[2:], []byte("\x1b\\"))
	if end < 0 {
		return 0
	}
	p.handleDCS(string(p.pending[2 : 2+end]))
	return 2 + end + 2
}

// handleCSI interprets one complete CSI response. body excludes the CSI
// introducer and the final byte.
func (p *capsParser) handleCSI(body string, final byte) {
	switch final {
	case 'u':
		// Kitty keyboard: CSI ? flags u
		if strings.HasPrefix(body, "?") {
			p.caps.SupportsKittyKeyboard = true
		}
	case 'c':
		// DA1: CSI ? ps ; ... c — any answer identifies a VT-class
		// terminal with an alternate screen and basic mouse tracking.
		// DA2 (CSI > ...c) carries no capability bits we consume.
		if strings.HasPrefix(body, "?") {
			p.caps.SupportsAlternateScreen = true
			p.caps.SupportsMouse = true
		}
	case 'y':
		// DECRPM: CSI ? mode ; value $ y
		p.handleDECRPM(body)
	}
}

func (p *capsParser) handleDECRPM(body string) {
	body = strings.TrimPrefix(body, "?")
	body = strings.TrimSuffix(body, "$")
	mode, value, ok := strings.Cut(body, ";")
	if !ok {
		return
	}
	m, err := strconv.Atoi(mode)
	if err != nil {
		return
	}
	v, err := strconv.Atoi(value)
	if err != nil {
		return
	}
	// 1 = set, 2 = reset; both mean the terminal knows the mode.
	supported := v == 1 || v == 2
	switch m {
	case 2026:
		p.caps.SupportsSyncUpdates = supported
	case 1016:
		p.caps.SupportsMouse = p.caps.SupportsMouse || supported
	}
}

// handleDCS interprets one complete DCS payload (between DCS and ST).
func (p *capsParser) handleDCS(body string) {
	// XTGETTCAP: DCS 1 + r key=value ST with hex-encoded key. A positive
	// reply for the RGB capability means direct-color SGR works.
	if strings.HasPrefix(body, "1+r") {
		key, _, _ := strings.Cut(body[3:], "=")
		// "524742" is hex for "RGB".
		if strings.EqualFold(key, "524742") {
			p.caps.SupportsTruecolor = true
		}
		return
	}
	// XTVERSION: DCS > | name ST
	if !strings.HasPrefix(body, ">|") {
		return
	}
	name := strings.ToLower(body[2:])
	for _, known := range []string{"kitty", "wezterm", "iterm", "ghostty", "contour", "foot"} {
		if strings.Contains(name, known) {
			p.caps.SupportsTruecolor = true
			break
		}
	}
	if strings.Contains(name, "kitty") {
		p.caps.SupportsKittyKeyboard = true
	}
}
