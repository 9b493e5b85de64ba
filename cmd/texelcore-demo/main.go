// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/texelcore-demo/main.go
// Summary: Demo binary driving the render engine end to end.

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/framegrace/texelcore/buffer"
	"github.com/framegrace/texelcore/cell"
	"github.com/framegrace/texelcore/config"
	"github.com/framegrace/texelcore/highlight"
	"github.com/framegrace/texelcore/renderer"
)

const sampleSource = `package main

import "fmt"

func main() {
	for i := 0; i < 3; i++ {
		fmt.Println("hello from texelcore", i)
	}
}
`

const boxHitID = 7

func main() {
	duration := flag.Duration("duration", 0, "exit after this long (0 runs until interrupted)")
	fps := flag.Int("fps", 0, "target frames per second (0 uses the config value)")
	overlay := flag.Bool("overlay", false, "show the debug stats overlay")
	dumpPath := flag.String("dump", "", "write diagnostic dumps to this SQLite file on exit")
	flag.Parse()

	cfg := config.Load()
	if *fps <= 0 {
		*fps = cfg.GetInt("renderer", "target_fps", 30)
	}
	if *dumpPath == "" && cfg.GetBool("dumps", "enabled", false) {
		*dumpPath = cfg.GetString("dumps", "path", "")
	}

	r, err := renderer.New(80, 24)
	if err != nil {
		log.Fatalf("renderer init failed: %v", err)
	}
	widths := cell.WidthWCWidth
	if cfg.GetString("renderer", "width_method", "wcwidth") == "unicode" {
		widths = cell.WidthUnicode
	}
	r.SetWidthMethod(widths)
	r.SetBackgroundColor(parseHexColor(cfg.GetString("renderer", "background", "#000000")))
	r.SetUseThread(cfg.GetBool("renderer", "use_thread", true))
	if *overlay {
		r.SetDebugOverlay(true, renderer.OverlayBottomRight)
	}

	var dumps *renderer.DumpStore
	if *dumpPath != "" {
		dumps, err = renderer.NewDumpStore(*dumpPath)
		if err != nil {
			log.Fatalf("dump store init failed: %v", err)
		}
		r.SetDumpStore(dumps)
	}

	if err := r.SetupTerminal(cfg.GetBool("renderer", "use_alt_screen", true)); err != nil {
		log.Fatalf("terminal setup failed: %v", err)
	}

	quit := make(chan struct{})
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	// Raw-mode input: capability responses go to the parser, q or ctrl-c quits.
	go func() {
		buf := make([]byte, 256)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				return
			}
			chunk := buf[:n]
			r.ProcessCapabilityResponse(chunk)
			for _, b := range chunk {
				if b == 'q' || b == 0x03 {
					close(quit)
					return
				}
			}
		}
	}()

	code := buffer.NewText(1024, widths)
	if _, err := highlight.Write(code, sampleSource, "demo.go", highlight.DefaultStyle); err != nil {
		log.Printf("highlight failed: %v", err)
	}
	code.FinalizeLineInfo()

	interval := time.Second / time.Duration(*fps)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var deadline <-chan time.Time
	if *duration > 0 {
		deadline = time.After(*duration)
	}

	frame := 0
	var mem runtime.MemStats
	start := time.Now()
loop:
	for {
		select {
		case <-quit:
			break loop
		case <-sigCh:
			break loop
		case <-deadline:
			break loop
		case <-ticker.C:
		}

		frameStart := time.Now()
		buf, err := r.GetNextBuffer()
		if err != nil {
			break loop
		}
		drawScene(r, buf, code, frame)

		if frame%30 == 0 {
			runtime.ReadMemStats(&mem)
			r.UpdateMemoryStats(renderer.MemoryStats{
				HeapUsed:  uint32(mem.HeapAlloc),
				HeapTotal: uint32(mem.HeapSys),
			})
		}
		r.UpdateStats(renderer.Stats{
			Time:              millis(time.Since(start)),
			FPS:               uint32(*fps),
			FrameCallbackTime: millis(time.Since(frameStart)),
		})

		if err := r.Render(false); err != nil {
			break loop
		}
		frame++
	}

	if dumps != nil {
		ts := time.Now().UnixMilli()
		if err := r.DumpBuffers(ts); err != nil {
			log.Printf("dump buffers: %v", err)
		}
		if err := r.DumpHitGrid(ts); err != nil {
			log.Printf("dump hit grid: %v", err)
		}
		if err := r.DumpStdoutBuffer(ts); err != nil {
			log.Printf("dump stdout: %v", err)
		}
	}

	if err := r.Close(); err != nil {
		log.Printf("renderer close: %v", err)
	}
	fmt.Printf("rendered %d frames in %s\n", frame, time.Since(start).Round(time.Millisecond))
}

func drawScene(r *renderer.Renderer, buf *buffer.Buffer, code *buffer.TextBuffer, frame int) {
	w, h := buf.Width(), buf.Height()
	buf.Clear(cell.NewRGB(0.07, 0.07, 0.12))

	boxW, boxH := w-4, h-4
	buf.DrawBox(2, 1, boxW, boxH, buffer.BoxOptions{
		Chars:      buffer.RoundedBoxChars,
		Sides:      buffer.AllSides,
		Fill:       true,
		Title:      " texelcore ",
		TitleAlign: buffer.AlignCenter,
		Border:     cell.NewRGB(0.54, 0.7, 0.98),
		Background: cell.NewRGB(0.1, 0.1, 0.16),
	})
	r.ClearHitGrid()
	r.AddToHitGrid(2, 1, boxW, boxH, boxHitID)

	buf.DrawText("press q to quit", 4, 2, cell.Gray, nil, cell.AttrItalic)
	buf.DrawTextBuffer(code, 4, 4, &buffer.ClipRect{X: 3, Y: 3, Width: boxW - 2, Height: boxH - 3})

	// A small marker orbiting the lower edge keeps the diff loop busy.
	markerX := 4 + frame%(boxW-6)
	buf.DrawText("●", markerX, h-4, cell.NewRGB(0.96, 0.76, 0.4), nil, 0)
	r.SetCursorPosition(markerX, h-4, false)
}

// millis converts a duration to the fractional milliseconds Stats carries.
func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

// parseHexColor converts "#rrggbb" to an opaque RGBA. Malformed input
// falls back to black.
func parseHexColor(s string) cell.RGBA {
	if len(s) != 7 || s[0] != '#' {
		return cell.Black
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return cell.Black
	}
	return cell.NewRGB(
		float32(v>>16&0xff)/255,
		float32(v>>8&0xff)/255,
		float32(v&0xff)/255,
	)
}
