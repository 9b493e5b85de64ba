package renderer

import "testing"

func TestCapabilityResponses(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     Capabilities
	}{
		{
			name:     "kitty keyboard flags",
			response: "\x1b[?1u",
			want:     Capabilities{SupportsKittyKeyboard: true},
		},
		{
			name:     "DA1",
			response: "\x1b[?62;22c",
			want:     Capabilities{SupportsAlternateScreen: true, SupportsMouse: true},
		},
		{
			name:     "DECRPM sync updates set",
			response: "\x1b[?2026;1$y",
			want:     Capabilities{SupportsSyncUpdates: true},
		},
		{
			name:     "DECRPM sync updates reset (still supported)",
			response: "\x1b[?2026;2$y",
			want:     Capabilities{SupportsSyncUpdates: true},
		},
		{
			name:     "DECRPM sync updates unrecognized",
			response: "\x1b[?2026;0$y",
			want:     Capabilities{},
		},
		{
			name:     "DECRPM pixel mouse",
			response: "\x1b[?1016;1$y",
			want:     Capabilities{SupportsMouse: true},
		},
		{
			name:     "XTVERSION kitty",
			response: "\x1bP>|kitty(0.32.1)\x1b\\",
			want:     Capabilities{SupportsTruecolor: true, SupportsKittyKeyboard: true},
		},
		{
			name:     "XTVERSION wezterm",
			response: "\x1bP>|WezTerm 20240203\x1b\\",
			want:     Capabilities{SupportsTruecolor: true},
		},
		{
			name:     "XTGETTCAP RGB reply",
			response: "\x1bP1+r524742=382F382F38\x1b\\",
			want:     Capabilities{SupportsTruecolor: true},
		},
		{
			name:     "XTGETTCAP invalid reply ignored",
			response: "\x1bP0+r\x1b\\",
			want:     Capabilities{},
		},
		{
			name:     "unknown sequence ignored",
			response: "\x1b[31mjunk\x1b[0m",
			want:     Capabilities{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p capsParser
			p.feed([]byte(tt.response))
			if p.caps != tt.want {
				t.Fatalf("caps = %+v, want %+v", p.caps, tt.want)
			}
		})
	}
}

func TestCapabilityResponseSplitAcrossCalls(t *testing.T) {
	var p capsParser
	p.feed([]byte("\x1b[?20"))
	if p.caps.SupportsSyncUpdates {
		t.Fatalf("partial sequence recognized early")
	}
	p.feed([]byte("26;1$"))
	p.feed([]byte("y\x1b[?1u"))
	if !p.caps.SupportsSyncUpdates || !p.caps.SupportsKittyKeyboard {
		t.Fatalf("split responses not recombined: %+v", p.caps)
	}
}

func TestCapabilityResponseMixedWithNoise(t *testing.T) {
	var p capsParser
	p.feed([]byte("garbage\x1b[?1016;1$ymore"))
	if !p.caps.SupportsMouse {
		t.Fatalf("response surrounded by noise not parsed: %+v", p.caps)
	}
}

func TestCapabilityPendingBounded(t *testing.T) {
	var p capsParser
	// An unterminated DCS cannot grow the pending buffer without limit.
	p.feed([]byte("\x1bP>|"))
	junk := make([]byte, 4096)
	for i := range junk {
		junk[i] = 'x'
	}
	p.feed(junk)
	if len(p.pending) > maxPending {
		t.Fatalf("pending buffer grew to %d bytes", len(p.pending))
	}
}
