// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: renderer/renderer.go
// Summary: Double-buffered terminal renderer with a diff-and-present loop.
// Usage: Hosts draw into GetNextBuffer's grid, then call Render; only cells
// that changed since the previous frame reach the terminal.

// Package renderer presents buffer contents to a terminal. It owns the
// front/back cell grids, the cursor and capability side channels, the mouse
// hit-test grid, and the synchronous or threaded flush path.
package renderer

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/framegrace/texelcore/buffer"
	"github.com/framegrace/texelcore/cell"
)

// CursorStyle selects the terminal cursor shape.
type CursorStyle string

const (
	CursorBlock     CursorStyle = "block"
	CursorUnderline CursorStyle = "underline"
	CursorBar       CursorStyle = "bar"
)

// DebugOverlayCorner positions the debug overlay.
type DebugOverlayCorner uint8

const (
	OverlayTopLeft DebugOverlayCorner = iota
	OverlayTopRight
	OverlayBottomLeft
	OverlayBottomRight
)

type cursorState struct {
	x, y       int
	visible    bool
	style      CursorStyle
	blinking   bool
	color      cell.RGBA
	styleDirty bool
	colorDirty bool
}

// Renderer owns two equally sized buffers: the front buffer mirrors what is
// on screen, the back buffer is what the host mutates for the next frame.
// Render diffs them, flushes the changes, and syncs the front buffer so the
// host's buffer keeps holding exactly what is on screen.
type Renderer struct {
	mu sync.Mutex

	width, height int
	front, back   *buffer.Buffer

	w         io.Writer
	presenter presenter
	useThread bool
	sess      session

	cursor     cursorState
	caps       capsParser
	hits       *HitGrid
	background cell.RGBA
	offset     int

	fullRedraw   bool
	mouseEnabled bool
	kittyEnabled bool

	overlayEnabled bool
	overlayCorner  DebugOverlayCorner

	hostStats Stats
	memStats  MemoryStats
	observer  RenderObserver

	lastRender time.Time
	engineFPS  uint32

	sgr        sgrState
	scratch    []byte
	dirtyRow   []bool
	lastFrame  []byte
	lastCursor cursorState

	dumps *DumpStore

	closed bool
}

// New creates a renderer writing to stdout.
func New(width, height int) (*Renderer, error) {
	return NewWithWriter(width, height, os.Stdout)
}

// NewWithWriter creates a renderer writing frames to w. Hosts embedding the
// engine (or tests) pass their own sink; terminal session setup is skipped
// when w is not a tty.
func NewWithWriter(width, height int, w io.Writer) (*Renderer, error) {
	front, err := buffer.New(width, height, false, cell.WidthWCWidth)
	if err != nil {
		return nil, err
	}
	back, err := buffer.New(width, height, false, cell.WidthWCWidth)
	if err != nil {
		return nil, err
	}
	r := &Renderer{
		width:      width,
		height:     height,
		front:      front,
		back:       back,
		w:          w,
		presenter:  &syncPresenter{w: w},
		hits:       NewHitGrid(width, height),
		background: cell.Black,
		fullRedraw: true,
		dirtyRow:   make([]bool, width),
	}
	r.cursor.style = CursorBlock
	return r, nil
}

// Width returns the renderer width in cells.
func (r *Renderer) Width() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width
}

// Height returns the renderer height in cells.
func (r *Renderer) Height() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.height
}

// GetNextBuffer returns the buffer the host should draw the next frame into.
func (r *Renderer) GetNextBuffer() (*buffer.Buffer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrClosed
	}
	return r.back, nil
}

// GetCurrentBuffer returns the buffer mirroring the frame on screen.
func (r *Renderer) GetCurrentBuffer() (*buffer.Buffer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrClosed
	}
	return r.front, nil
}

// Render diffs the back buffer against the front buffer and flushes the
// dirty runs. With force set, every cell is treated as dirty.
func (r *Renderer) Render(force bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}

	start := time.Now()
	if !r.lastRender.IsZero() {
		if gap := start.Sub(r.lastRender); gap > 0 {
			r.engineFPS = uint32(time.Second / gap)
		}
	}
	r.lastRender = start

	if r.overlayEnabled {
		r.drawOverlay()
	}

	frame, dirty := r.buildFrame(force || r.fullRedraw)
	r.fullRedraw = false

	if len(frame) > 0 {
		r.lastFrame = append(r.lastFrame[:0], frame...)
		if r.useThread {
			frame = append([]byte(nil), frame...)
		}
		r.presenter.present(frame)
	}

	// The just-shown content becomes both the on-screen mirror and the
	// starting point for the host's next frame.
	copy(r.front.Cells(), r.back.Cells())

	if r.observer != nil {
		r.observer.ObserveRender(RenderStats{
			Duration:   time.Since(start),
			DirtyCells: dirty,
			Bytes:      len(frame),
		})
	}
	return nil
}

// Resize reallocates both buffers atomically and forces a full redraw on the
// next Render. The hit grid resets; stale regions must not survive.
func (r *Renderer) Resize(width, height int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	return r.resizeLocked(width, height)
}

func (r *Renderer) resizeLocked(width, height int) error {
	if err := r.back.Resize(width, height); err != nil {
		return err
	}
	if err := r.front.Resize(width, height); err != nil {
		// Keep the pair in lockstep even on failure.
		if rbErr := r.back.Resize(r.width, r.height); rbErr != nil {
			return fmt.Errorf("resize rollback failed: %w", rbErr)
		}
		return err
	}
	r.width = width
	r.height = height
	r.hits.Resize(width, height)
	r.dirtyRow = make([]bool, width)
	r.fullRedraw = true
	return nil
}

// SetUseThread switches between the synchronous and threaded flush paths.
// Switching off joins the worker after its in-flight frame.
func (r *Renderer) SetUseThread(useThread bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || useThread == r.useThread {
		return
	}
	r.presenter.close()
	if useThread {
		r.presenter = newThreadedPresenter(r.w)
	} else {
		r.presenter = &syncPresenter{w: r.w}
	}
	r.useThread = useThread
}

// SetWidthMethod switches the column-width policy used by both buffers.
func (r *Renderer) SetWidthMethod(m cell.WidthMethod) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.front.SetWidthMethod(m)
	r.back.SetWidthMethod(m)
}

// SetBackgroundColor sets the color used when clearing the terminal and
// padding resized regions.
func (r *Renderer) SetBackgroundColor(color cell.RGBA) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.background = color
}

// SetRenderOffset shifts all emitted rows down by offset terminal rows, for
// hosts rendering below a preserved scrollback region.
func (r *Renderer) SetRenderOffset(offset int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if offset < 0 {
		offset = 0
	}
	if offset != r.offset {
		r.offset = offset
		r.fullRedraw = true
	}
}

// SetCursorPosition moves the terminal cursor. The move is emitted by the
// next Render, not immediately.
func (r *Renderer) SetCursorPosition(x, y int, visible bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cursor.x = x
	r.cursor.y = y
	r.cursor.visible = visible
}

// SetCursorStyle selects the cursor shape and blink, applied at next Render.
func (r *Renderer) SetCursorStyle(style CursorStyle, blinking bool) error {
	switch style {
	case CursorBlock, CursorUnderline, CursorBar:
	default:
		return fmt.Errorf("renderer: unknown cursor style %q", style)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cursor.style = style
	r.cursor.blinking = blinking
	r.cursor.styleDirty = true
	return nil
}

// SetCursorColor sets the cursor color, applied at next Render.
func (r *Renderer) SetCursorColor(color cell.RGBA) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cursor.color = color
	r.cursor.colorDirty = true
}

// EnableMouse switches on mouse tracking, immediately emitting the mode
// changes. With enableMovement, motion events are reported too.
func (r *Renderer) EnableMouse(enableMovement bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	seq := seqMouseOn
	if enableMovement {
		seq += seqMouseMotionOn
	}
	r.presenter.present([]byte(seq))
	r.mouseEnabled = true
}

// DisableMouse switches off mouse tracking immediately.
func (r *Renderer) DisableMouse() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.presenter.present([]byte(seqMouseOff))
	r.mouseEnabled = false
}

// EnableKittyKeyboard pushes the Kitty keyboard protocol with the given
// progressive-enhancement flags, immediately.
func (r *Renderer) EnableKittyKeyboard(flags uint8) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.presenter.present(appendKittyPush(nil, flags))
	r.kittyEnabled = true
}

// DisableKittyKeyboard pops the Kitty keyboard protocol immediately.
func (r *Renderer) DisableKittyKeyboard() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.presenter.present([]byte(seqKittyPop))
	r.kittyEnabled = false
}

// SetDebugOverlay toggles the stats overlay drawn into the chosen corner.
func (r *Renderer) SetDebugOverlay(enabled bool, corner DebugOverlayCorner) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overlayEnabled = enabled
	r.overlayCorner = corner
}

// UpdateStats records the host's frame timing for the debug overlay.
func (r *Renderer) UpdateStats(stats Stats) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hostStats = stats
}

// UpdateMemoryStats records the host's memory gauges for the debug overlay.
func (r *Renderer) UpdateMemoryStats(stats MemoryStats) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.memStats = stats
}

// SetRenderObserver installs an observer receiving per-render metrics.
func (r *Renderer) SetRenderObserver(obs RenderObserver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observer = obs
}

// ClearTerminal wipes the terminal and forces a full redraw next Render.
func (r *Renderer) ClearTerminal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	var out []byte
	out = r.sgr.append(out, cell.White, r.background, 0)
	out = append(out, seqClearAll...)
	r.presenter.present(out)
	r.sgr.reset()
	r.fullRedraw = true
}

// SetupTerminal prepares the attached terminal: raw mode, optional alternate
// screen, hidden cursor, and capability queries. When the sink is a tty the
// renderer also adopts the detected window size. Writing to a pipe or file
// only emits the screen setup.
func (r *Renderer) SetupTerminal(useAlternateScreen bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}

	cols, rows, err := r.sess.setup(r.w)
	if err != nil {
		return err
	}
	r.sess.altScreen = useAlternateScreen

	if strings.Contains(strings.ToLower(os.Getenv("COLORTERM")), "truecolor") ||
		os.Getenv("COLORTERM") == "24bit" {
		r.caps.caps.SupportsTruecolor = true
	}

	var out []byte
	if useAlternateScreen {
		out = append(out, seqAltScreenOn...)
	}
	out = append(out, seqHideCursor...)
	out = append(out, seqClearAll...)
	out = append(out, capabilityQueries...)
	r.presenter.present(out)
	r.fullRedraw = true

	if cols > 0 && rows > 0 && (cols != r.width || rows != r.height) {
		return r.resizeLocked(cols, rows)
	}
	return nil
}

// ProcessCapabilityResponse feeds raw terminal response bytes to the
// capability parser. Partial sequences may be split across calls; unknown
// sequences are ignored.
func (r *Renderer) ProcessCapabilityResponse(response []byte) {
	if len(response) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.caps.feed(response)
}

// GetTerminalCapabilities returns the current capability snapshot.
func (r *Renderer) GetTerminalCapabilities() Capabilities {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.caps.caps
}

// AddToHitGrid stamps id over the clipped rectangle in the hit grid.
func (r *Renderer) AddToHitGrid(x, y, w, h int, id uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hits.Add(x, y, w, h, id)
}

// CheckHit returns the id stamped at (x, y), or 0 when nothing is there.
func (r *Renderer) CheckHit(x, y int) uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hits.At(x, y)
}

// ClearHitGrid resets all stamps. Called by the host before rebuilding a
// frame's hit regions.
func (r *Renderer) ClearHitGrid() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hits.Clear()
}

// Close restores the terminal, joins any in-flight flush, and releases the
// buffers. The renderer must not be used afterwards.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}

	var out []byte
	if r.mouseEnabled {
		out = append(out, seqMouseOff...)
	}
	if r.kittyEnabled {
		out = append(out, seqKittyPop...)
	}
	if r.cursor.colorDirty || r.cursor.color != (cell.RGBA{}) {
		out = append(out, seqResetCursorColor...)
	}
	out = append(out, seqResetSGR...)
	out = append(out, seqShowCursor...)
	if r.sess.altScreen {
		out = append(out, seqAltScreenOff...)
	}
	if len(out) > 0 {
		r.presenter.present(out)
	}
	r.presenter.close()

	err := r.sess.restore()
	if r.dumps != nil {
		if dErr := r.dumps.Close(); err == nil {
			err = dErr
		}
		r.dumps = nil
	}

	r.front = nil
	r.back = nil
	r.closed = true
	return err
}
