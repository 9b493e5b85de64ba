// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/texelcore-dump/main.go
// Summary: Lists and prints diagnostic dumps stored by the render engine.

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/framegrace/texelcore/buffer"
	"github.com/framegrace/texelcore/cell"
	"github.com/framegrace/texelcore/renderer"
)

func main() {
	dbPath := flag.String("db", "", "path to the dump database")
	id := flag.Int64("id", 0, "print the dump with this id instead of listing")
	asJSON := flag.Bool("json", false, "emit JSON instead of text")
	flag.Parse()

	if *dbPath == "" && flag.NArg() > 0 {
		*dbPath = flag.Arg(0)
	}
	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: texelcore-dump [-id N] [-json] <dump.db>")
		os.Exit(2)
	}

	store, err := renderer.NewDumpStore(*dbPath)
	if err != nil {
		log.Fatalf("open dump store: %v", err)
	}
	defer store.Close()

	if *id == 0 {
		if err := listDumps(store, *asJSON); err != nil {
			log.Fatalf("list dumps: %v", err)
		}
		return
	}
	if err := printDump(store, *id, *asJSON); err != nil {
		log.Fatalf("print dump %d: %v", *id, err)
	}
}

func listDumps(store *renderer.DumpStore, asJSON bool) error {
	infos, err := store.List()
	if err != nil {
		return err
	}
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}
	if len(infos) == 0 {
		fmt.Println("no dumps stored")
		return nil
	}
	fmt.Printf("%-6s %-24s %-8s %s\n", "ID", "TIME", "KIND", "SIZE")
	for _, info := range infos {
		ts := time.UnixMilli(info.Timestamp).Format(time.RFC3339)
		fmt.Printf("%-6d %-24s %-8s %dx%d\n", info.ID, ts, info.Kind, info.Width, info.Height)
	}
	return nil
}

func printDump(store *renderer.DumpStore, id int64, asJSON bool) error {
	info, payload, err := store.Get(id)
	if err != nil {
		return err
	}

	switch info.Kind {
	case renderer.DumpKindFront, renderer.DumpKindBack:
		delta, err := renderer.DecodeFrameDelta(payload)
		if err != nil {
			return err
		}
		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(delta)
		}
		return printFrame(delta)
	case renderer.DumpKindHits:
		os.Stdout.Write(payload)
		if len(payload) > 0 && payload[len(payload)-1] != '\n' {
			fmt.Println()
		}
		return nil
	case renderer.DumpKindStdout:
		if asJSON {
			return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
				"bytes": len(payload),
				"data":  string(payload),
			})
		}
		fmt.Printf("%d bytes\n%q\n", len(payload), payload)
		return nil
	default:
		return fmt.Errorf("unknown dump kind %q", info.Kind)
	}
}

// printFrame replays a frame delta into a scratch buffer and prints the
// glyphs row by row. Styling is dropped; this is a layout preview.
func printFrame(delta renderer.FrameDelta) error {
	buf, err := buffer.New(int(delta.Width), int(delta.Height), false, cell.WidthWCWidth)
	if err != nil {
		return err
	}
	renderer.ApplyFrameDelta(buf, delta)

	var line strings.Builder
	for y := 0; y < buf.Height(); y++ {
		line.Reset()
		for x := 0; x < buf.Width(); x++ {
			c, _ := buf.CellAt(x, y)
			r := c.Rune
			if r == 0 {
				r = ' '
			}
			line.WriteRune(r)
			if buf.WidthMethod().RuneWidth(r) == 2 {
				x++
			}
		}
		fmt.Println(strings.TrimRight(line.String(), " "))
	}
	return nil
}
