// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: renderer/hitgrid.go
// Summary: Spatial index mapping grid coordinates to host element ids.

package renderer

// HitGrid maps every cell of the render area to an opaque host id. Id 0
// means "no hit". Stamps overwrite, so painter's order decides overlaps:
// the last element stamped over a coordinate wins.
type HitGrid struct {
	width, height int
	ids           []uint32
}

// NewHitGrid creates a grid covering width×height cells.
func NewHitGrid(width, height int) *HitGrid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &HitGrid{width: width, height: height, ids: make([]uint32, width*height)}
}

// Add stamps id over the rectangle intersected with the grid.
func (g *HitGrid) Add(x, y, w, h int, id uint32) {
	x0, y0 := max(x, 0), max(y, 0)
	x1, y1 := min(x+w, g.width), min(y+h, g.height)
	for cy := y0; cy < y1; cy++ {
		row := g.ids[cy*g.width : cy*g.width+g.width]
		for cx := x0; cx < x1; cx++ {
			row[cx] = id
		}
	}
}

// At returns the id stamped at (x, y), or 0 when empty or out of bounds.
func (g *HitGrid) At(x, y int) uint32 {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return 0
	}
	return g.ids[y*g.width+x]
}

// Clear resets every id to 0. The engine never clears implicitly; the host
// decides when a frame's hit regions become stale.
func (g *HitGrid) Clear() {
	clear(g.ids)
}

// Resize reallocates the grid. All ids reset; stale hits must not survive a
// geometry change.
func (g *HitGrid) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	g.width = width
	g.height = height
	g.ids = make([]uint32, width*height)
}
