// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: renderer/dump.go
// Summary: SQLite-backed diagnostics store for offline frame debugging.
//
// Dumps persist renderer state keyed by a caller-supplied timestamp:
// front/back buffers as encoded frame deltas, the hit grid as text art, and
// the raw bytes of the last flushed frame. The storage format is a debugging
// aid, not a compatibility contract.

package renderer

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Dump kinds stored by the renderer.
const (
	DumpKindFront  = "front"
	DumpKindBack   = "back"
	DumpKindHits   = "hitgrid"
	DumpKindStdout = "stdout"
)

const dumpSchema = `
CREATE TABLE IF NOT EXISTS dumps (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    ts INTEGER NOT NULL,          -- caller-supplied timestamp
    kind TEXT NOT NULL,
    width INTEGER NOT NULL,
    height INTEGER NOT NULL,
    payload BLOB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_dumps_ts ON dumps(ts);
`

// DumpInfo describes one stored dump.
type DumpInfo struct {
	ID        int64
	Timestamp int64
	Kind      string
	Width     int
	Height    int
}

// DumpStore persists renderer dumps in a SQLite database.
type DumpStore struct {
	db *sql.DB
}

// NewDumpStore opens (or creates) the dump database at path.
func NewDumpStore(path string) (*DumpStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	dsn := path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=temp_store(MEMORY)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.Exec(dumpSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &DumpStore{db: db}, nil
}

// Put stores one dump record.
func (ds *DumpStore) Put(ts int64, kind string, width, height int, payload []byte) error {
	_, err := ds.db.Exec(
		"INSERT INTO dumps (ts, kind, width, height, payload) VALUES (?, ?, ?, ?, ?)",
		ts, kind, width, height, payload,
	)
	return err
}

// List returns all stored dumps, newest first.
func (ds *DumpStore) List() ([]DumpInfo, error) {
	rows, err := ds.db.Query("SELECT id, ts, kind, width, height FROM dumps ORDER BY ts DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var infos []DumpInfo
	for rows.Next() {
		var info DumpInfo
		if err := rows.Scan(&info.ID, &info.Timestamp, &info.Kind, &info.Width, &info.Height); err != nil {
			continue
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// Get returns one dump and its payload by id.
func (ds *DumpStore) Get(id int64) (DumpInfo, []byte, error) {
	var info DumpInfo
	var payload []byte
	err := ds.db.QueryRow(
		"SELECT id, ts, kind, width, height, payload FROM dumps WHERE id = ?", id,
	).Scan(&info.ID, &info.Timestamp, &info.Kind, &info.Width, &info.Height, &payload)
	if err != nil {
		return DumpInfo{}, nil, err
	}
	return info, payload, nil
}

// Close closes the database.
func (ds *DumpStore) Close() error {
	return ds.db.Close()
}

// SetDumpStore attaches a diagnostics store. The renderer closes it on
// Close.
func (r *Renderer) SetDumpStore(ds *DumpStore) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dumps = ds
}

// DumpBuffers persists both frame buffers keyed by ts.
func (r *Renderer) DumpBuffers(ts int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	if r.dumps == nil {
		return ErrNoDumpStore
	}
	frontPayload, err := EncodeFrameDelta(DeltaFromBuffer(r.front))
	if err != nil {
		return err
	}
	if err := r.dumps.Put(ts, DumpKindFront, r.width, r.height, frontPayload); err != nil {
		return err
	}
	backPayload, err := EncodeFrameDelta(DeltaFromBuffer(r.back))
	if err != nil {
		return err
	}
	return r.dumps.Put(ts, DumpKindBack, r.width, r.height, backPayload)
}

// DumpHitGrid persists the hit grid as text art, one row per line, '.' for
// empty cells and the id's last decimal digit otherwise.
func (r *Renderer) DumpHitGrid(ts int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	if r.dumps == nil {
		return ErrNoDumpStore
	}
	payload := make([]byte, 0, (r.width+1)*r.height)
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			id := r.hits.At(x, y)
			if id == 0 {
				payload = append(payload, '.')
			} else {
				payload = append(payload, byte('0'+id%10))
			}
		}
		payload = append(payload, '\n')
	}
	return r.dumps.Put(ts, DumpKindHits, r.width, r.height, payload)
}

// DumpStdoutBuffer persists the raw bytes of the last flushed frame.
func (r *Renderer) DumpStdoutBuffer(ts int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	if r.dumps == nil {
		return ErrNoDumpStore
	}
	return r.dumps.Put(ts, DumpKindStdout, r.width, r.height, append([]byte(nil), r.lastFrame...))
}
