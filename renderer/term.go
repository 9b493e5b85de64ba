// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: renderer/term.go
// Summary: Terminal session state separate from the per-frame diff engine.
//
// Raw mode, alternate screen, and the detected window size belong to the
// terminal session, not to any single frame. The session is only active when
// the renderer's sink is a real tty; writing to a pipe or file skips mode
// changes entirely.

package renderer

import (
	"fmt"
	"io"
	"os"

	"github.com/creack/pty"
	"golang.org/x/term"
)

type session struct {
	tty       *os.File
	savedMode *term.State
	altScreen bool
}

// setup switches the tty into raw mode and reports the current window size.
// A nil return with zero dimensions means the sink is not a terminal.
func (s *session) setup(w io.Writer) (cols, rows int, err error) {
	if s.active() {
		// Re-entering raw mode would save the raw state as the mode to
		// restore on Close.
		return 0, 0, nil
	}
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0, 0, nil
	}
	state, err := term.MakeRaw(int(f.Fd()))
	if err != nil {
		return 0, 0, fmt.Errorf("renderer: raw mode: %w", err)
	}
	s.tty = f
	s.savedMode = state

	size, err := pty.GetsizeFull(f)
	if err != nil {
		// Raw mode is already active; size detection failing just means
		// the caller keeps the renderer's current dimensions.
		return 0, 0, nil
	}
	return int(size.Cols), int(size.Rows), nil
}

// restore returns the tty to its saved mode.
func (s *session) restore() error {
	if !s.active() {
		return nil
	}
	err := term.Restore(int(s.tty.Fd()), s.savedMode)
	s.savedMode = nil
	s.tty = nil
	if err != nil {
		return fmt.Errorf("renderer: restore terminal: %w", err)
	}
	return nil
}

// active reports whether a raw-mode session is in effect.
func (s *session) active() bool { return s.tty != nil && s.savedMode != nil }
