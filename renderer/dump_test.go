package renderer

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/framegrace/texelcore/cell"
)

func newTestDumpStore(t *testing.T) *DumpStore {
	t.Helper()
	ds, err := NewDumpStore(filepath.Join(t.TempDir(), "dumps.db"))
	if err != nil {
		t.Fatalf("NewDumpStore: %v", err)
	}
	return ds
}

func TestDumpStorePutGetList(t *testing.T) {
	ds := newTestDumpStore(t)
	defer ds.Close()

	if err := ds.Put(100, DumpKindHits, 4, 2, []byte("..\n..\n")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := ds.Put(200, DumpKindStdout, 4, 2, []byte("\x1b[1;1Hx")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	infos, err := ds.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("List returned %d dumps, want 2", len(infos))
	}
	if infos[0].Timestamp != 200 {
		t.Fatalf("List not newest-first: %+v", infos)
	}

	info, payload, err := ds.Get(infos[1].ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if info.Kind != DumpKindHits || string(payload) != "..\n..\n" {
		t.Fatalf("Get returned %+v %q", info, payload)
	}
}

func TestRendererDumps(t *testing.T) {
	var out bytes.Buffer
	r, err := NewWithWriter(6, 2, &out)
	if err != nil {
		t.Fatalf("NewWithWriter: %v", err)
	}
	defer r.Close()

	if err := r.DumpBuffers(1); !errors.Is(err, ErrNoDumpStore) {
		t.Fatalf("DumpBuffers without store = %v, want ErrNoDumpStore", err)
	}

	ds := newTestDumpStore(t)
	r.SetDumpStore(ds)

	next, _ := r.GetNextBuffer()
	next.Clear(cell.Black)
	next.DrawText("ok", 0, 0, cell.White, nil, 0)
	r.Render(true)
	r.AddToHitGrid(1, 0, 2, 1, 3)

	if err := r.DumpBuffers(42); err != nil {
		t.Fatalf("DumpBuffers: %v", err)
	}
	if err := r.DumpHitGrid(42); err != nil {
		t.Fatalf("DumpHitGrid: %v", err)
	}
	if err := r.DumpStdoutBuffer(42); err != nil {
		t.Fatalf("DumpStdoutBuffer: %v", err)
	}

	infos, err := ds.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 4 { // front, back, hitgrid, stdout
		t.Fatalf("stored %d dumps, want 4", len(infos))
	}

	kinds := map[string][]byte{}
	for _, info := range infos {
		_, payload, err := ds.Get(info.ID)
		if err != nil {
			t.Fatalf("Get(%d): %v", info.ID, err)
		}
		kinds[info.Kind] = payload
	}

	if !strings.Contains(string(kinds[DumpKindHits]), ".33...") {
		t.Fatalf("hit grid art wrong: %q", kinds[DumpKindHits])
	}
	if !bytes.Contains(kinds[DumpKindStdout], []byte("ok")) {
		t.Fatalf("stdout dump missing last frame: %q", kinds[DumpKindStdout])
	}

	delta, err := DecodeFrameDelta(kinds[DumpKindFront])
	if err != nil {
		t.Fatalf("front dump does not decode: %v", err)
	}
	if delta.Width != 6 || delta.Height != 2 {
		t.Fatalf("front dump geometry %dx%d", delta.Width, delta.Height)
	}
}
