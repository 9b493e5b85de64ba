// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: renderer/writer.go
// Summary: Synchronous and threaded frame presenters.
//
// The renderer builds a frame as an immutable byte slice and hands it to a
// presenter. The sync presenter writes inline; the threaded presenter owns
// terminal I/O on its own goroutine behind a single-slot channel, so at most
// one frame is queued while another is being flushed. A second submission
// blocks until the slot drains.

package renderer

import (
	"io"
	"log"
	"sync"
)

type presenter interface {
	present(frame []byte)
	close()
}

type syncPresenter struct {
	w io.Writer
}

func (p *syncPresenter) present(frame []byte) {
	if _, err := p.w.Write(frame); err != nil {
		log.Printf("renderer: present failed: %v", err)
	}
}

func (p *syncPresenter) close() {}

type threadedPresenter struct {
	w      io.Writer
	frames chan []byte
	done   chan struct{}

	closeOnce sync.Once
}

func newThreadedPresenter(w io.Writer) *threadedPresenter {
	p := &threadedPresenter{
		w:      w,
		frames: make(chan []byte, 1),
		done:   make(chan struct{}),
	}
	go p.loop()
	return p
}

func (p *threadedPresenter) loop() {
	defer close(p.done)
	for frame := range p.frames {
		if _, err := p.w.Write(frame); err != nil {
			log.Printf("renderer: present failed: %v", err)
		}
	}
}

// present hands the frame to the worker. The frame must not be mutated by
// the caller afterwards; Render always passes a fresh copy.
func (p *threadedPresenter) present(frame []byte) {
	p.frames <- frame
}

// close flushes any queued frame and joins the worker.
func (p *threadedPresenter) close() {
	p.closeOnce.Do(func() {
		close(p.frames)
	})
	<-p.done
}
