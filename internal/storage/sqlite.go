package storage

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"

	"stubdex/internal/codec"
	"stubdex/internal/stub"
	"stubdex/internal/stubindex"

	_ "github.com/mattn/go-sqlite3"
)

// Store persists index occurrences and serialized file stubs in a
// SQLite database. The composite primary key on occurrences makes it
// the deduplicating sink the indexing engine assumes: emitting the
// same (category, key, file) twice is a no-op.
type Store struct {
	db *sql.DB
}

// NewStore creates or opens a SQLite database.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS occurrences (
			category TEXT NOT NULL,
			key TEXT NOT NULL,
			filepath TEXT NOT NULL,
			PRIMARY KEY (category, key, filepath)
		);`,
		`CREATE TABLE IF NOT EXISTS file_stubs (
			filepath TEXT PRIMARY KEY,
			stub BLOB NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_occurrences_file ON occurrences(filepath);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

type occurrence struct {
	key   stubindex.IndexKey
	value string
}

// FileSink buffers the occurrences emitted while indexing one file.
// It implements stubindex.Sink; the buffered batch is written in a
// single transaction by Store.ReplaceFile.
type FileSink struct {
	path string
	occ  []occurrence
}

// NewFileSink creates a sink scoped to one file path.
func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

func (f *FileSink) Occurrence(key stubindex.IndexKey, value string) {
	f.occ = append(f.occ, occurrence{key: key, value: value})
}

// Len returns the number of buffered emissions, duplicates included.
func (f *FileSink) Len() int {
	return len(f.occ)
}

// ReplaceFile atomically replaces one file's persisted state: its
// previous occurrences, the new batch from the sink, and the
// serialized file stub.
func (s *Store) ReplaceFile(ctx context.Context, path string, fileStub *stub.FileStub, sink *FileSink) error {
	var blob bytes.Buffer
	if err := codec.WriteFileStub(&blob, fileStub); err != nil {
		return fmt.Errorf("failed to serialize stub for %s: %w", path, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM occurrences WHERE filepath = ?`, path); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO occurrences (category, key, filepath) VALUES (?, ?, ?)
		ON CONFLICT(category, key, filepath) DO NOTHING
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, o := range sink.occ {
		if _, err := stmt.ExecContext(ctx, string(o.key), o.value, path); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO file_stubs (filepath, stub) VALUES (?, ?)
		ON CONFLICT(filepath) DO UPDATE SET stub=excluded.stub
	`, path, blob.Bytes()); err != nil {
		return err
	}

	return tx.Commit()
}

// LoadFileStub reconstructs a file stub from its persisted blob
// without touching the source file.
func (s *Store) LoadFileStub(ctx context.Context, path string) (*stub.FileStub, error) {
	row := s.db.QueryRowContext(ctx, `SELECT stub FROM file_stubs WHERE filepath = ?`, path)

	var blob []byte
	if err := row.Scan(&blob); err != nil {
		return nil, fmt.Errorf("failed to load stub for %s: %w", path, err)
	}

	fileStub, err := codec.ReadFileStub(bytes.NewReader(blob))
	if err != nil {
		return nil, fmt.Errorf("failed to decode stub for %s: %w", path, err)
	}
	return fileStub, nil
}

// FilesWithKey returns the files holding an occurrence of key under
// the given index category, sorted by path.
func (s *Store) FilesWithKey(ctx context.Context, category stubindex.IndexKey, key string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT filepath FROM occurrences
		WHERE category = ? AND key = ?
		ORDER BY filepath
	`, string(category), key)
	if err != nil {
		return nil, fmt.Errorf("failed to query occurrences: %w", err)
	}
	defer rows.Close()

	var files []string
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, fmt.Errorf("failed to scan occurrence: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// KeysInIndex returns the distinct keys registered under one index
// category, sorted.
func (s *Store) KeysInIndex(ctx context.Context, category stubindex.IndexKey) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT key FROM occurrences WHERE category = ? ORDER BY key
	`, string(category))
	if err != nil {
		return nil, fmt.Errorf("failed to query keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// DeleteFile removes every trace of one file from the store.
func (s *Store) DeleteFile(ctx context.Context, path string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM occurrences WHERE filepath = ?`, path); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM file_stubs WHERE filepath = ?`, path); err != nil {
		return err
	}
	return tx.Commit()
}
