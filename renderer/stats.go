// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: renderer/stats.go
// Summary: Frame statistics and the optional render observer.

package renderer

import (
	"log"
	"time"
)

// Stats is the host-reported frame timing, fed via UpdateStats and shown on
// the debug overlay.
type Stats struct {
	// Time is the host's overall frame time in milliseconds.
	Time float64
	// FPS is the host's measured frames per second.
	FPS uint32
	// FrameCallbackTime is the host's scene-build time in milliseconds.
	FrameCallbackTime float64
}

// MemoryStats is the host-reported memory usage, fed via UpdateMemoryStats.
type MemoryStats struct {
	HeapUsed     uint32
	HeapTotal    uint32
	ArrayBuffers uint32
}

// RenderStats describes one completed Render call as measured by the engine.
type RenderStats struct {
	Duration   time.Duration
	DirtyCells int
	Bytes      int
}

// RenderObserver receives engine-side render metrics.
type RenderObserver interface {
	ObserveRender(stats RenderStats)
}

// RenderLogger logs render metrics to the provided logger.
type RenderLogger struct {
	logger *log.Logger
}

// NewRenderLogger creates an observer that logs render metrics.
func NewRenderLogger(l *log.Logger) *RenderLogger {
	if l == nil {
		l = log.Default()
	}
	return &RenderLogger{logger: l}
}

func (r *RenderLogger) ObserveRender(stats RenderStats) {
	if r == nil || r.logger == nil {
		return
	}
	r.logger.Printf("render cells=%d bytes=%d duration=%s", stats.DirtyCells, stats.Bytes, stats.Duration)
}
