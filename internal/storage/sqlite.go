package storage

import (
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	_ "modernc.org/sqlite"
)

const sqliteDriverName = "sqlite"

const settingsRowID = 1

const schemaSettings = `
CREATE TABLE IF NOT EXISTS settings (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    image BLOB NOT NULL
);
`

const (
	selectImageSQL = `SELECT image FROM settings WHERE id=?`

	upsertImageSQL = `
		INSERT INTO settings (id, image) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET image=excluded.image
	`
)

// InitDB opens/creates the SQLite file backing the settings region and
// ensures the schema exists.
func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// Single writer is plenty for a 9-byte settings record.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSettings); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure settings schema: %w", err)
	}

	// Fail fast if the DB cannot be reached.
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

// SQLiteRegion keeps the settings image in RAM and flushes it to a
// single-row table on Commit, giving the byte-addressable/explicit-commit
// semantics the range store is written against.
type SQLiteRegion struct {
	db    *sql.DB
	image [RegionSize]byte
}

// NewRegion loads the persisted image into RAM. A missing row means the
// region has never been committed; the image is filled with ErasedByte so
// the sentinel check fails and compiled-in defaults apply.
func NewRegion(db *sql.DB) (*SQLiteRegion, error) {
	r := &SQLiteRegion{db: db}

	var blob []byte
	err := db.QueryRow(selectImageSQL, settingsRowID).Scan(&blob)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		for i := range r.image {
			r.image[i] = ErasedByte
		}
		return r, nil
	case err != nil:
		return nil, fmt.Errorf("load settings image: %w", err)
	}

	if len(blob) != RegionSize {
		return nil, fmt.Errorf("settings image has %d bytes, want %d", len(blob), RegionSize)
	}
	copy(r.image[:], blob)
	return r, nil
}

func (r *SQLiteRegion) ReadByte(off int) byte {
	return r.image[off]
}

func (r *SQLiteRegion) WriteByte(off int, b byte) {
	r.image[off] = b
}

func (r *SQLiteRegion) ReadFloat(off int) float32 {
	return math.Float32frombits(binary.NativeEndian.Uint32(r.image[off : off+4]))
}

func (r *SQLiteRegion) WriteFloat(off int, v float32) {
	binary.NativeEndian.PutUint32(r.image[off:off+4], math.Float32bits(v))
}

// Commit flushes the RAM image. Callers batch their writes and commit
// once, keeping the write-cycle count on the backing store minimal.
func (r *SQLiteRegion) Commit() error {
	if _, err := r.db.Exec(upsertImageSQL, settingsRowID, r.image[:]); err != nil {
		return fmt.Errorf("commit settings image: %w", err)
	}
	return nil
}
