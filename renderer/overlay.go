// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: renderer/overlay.go
// Summary: Debug overlay showing frame and memory stats in a grid corner.

package renderer

import (
	"fmt"

	"github.com/framegrace/texelcore/cell"
)

var (
	overlayFg = cell.White
	overlayBg = cell.NewRGBA(0, 0, 0, 0.85)
)

// drawOverlay stamps the stats panel into the back buffer just before the
// diff, so it participates in normal dirty tracking.
func (r *Renderer) drawOverlay() {
	lines := []string{
		fmt.Sprintf(" fps %d/%d ", r.engineFPS, r.hostStats.FPS),
		fmt.Sprintf(" frame %.2fms cb %.2fms ", r.hostStats.Time, r.hostStats.FrameCallbackTime),
		fmt.Sprintf(" heap %d/%d buf %d ", r.memStats.HeapUsed, r.memStats.HeapTotal, r.memStats.ArrayBuffers),
	}

	widths := r.back.WidthMethod()
	panelW := 0
	for _, l := range lines {
		if w := widths.StringWidth(l); w > panelW {
			panelW = w
		}
	}
	if panelW > r.width {
		panelW = r.width
	}

	x, y := 0, 0
	switch r.overlayCorner {
	case OverlayTopRight:
		x = r.width - panelW
	case OverlayBottomLeft:
		y = r.height - len(lines)
	case OverlayBottomRight:
		x = r.width - panelW
		y = r.height - len(lines)
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}

	for i, l := range lines {
		r.back.FillRect(x, y+i, panelW, 1, overlayBg)
		r.back.DrawText(l, x, y+i, overlayFg, nil, 0)
	}
}
