package index

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/gofrs/flock"
)

// snapshotHeader prefixes every snapshot file: magic, version, then the
// xxhash of the JSON payload that follows the first newline.
const snapshotMagic = "fileseek-index"
const snapshotVersion = "v1"

// SaveSnapshot serializes the store's entries to path as a flat record list.
// The write is atomic (temp file + rename) and guarded by a cross-process
// file lock so a concurrent load never sees a torn file.
func SaveSnapshot(store *Store, path string) error {
	entries := store.Snapshot()

	payload, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	header := fmt.Sprintf("%s %s %016x\n", snapshotMagic, snapshotVersion, xxhash.Sum64(payload))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("locking snapshot: %w", err)
	}
	defer lock.Unlock()

	tmp := path + ".tmp"
	data := append([]byte(header), payload...)
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reads a snapshot from path and returns its entries. A missing,
// truncated, or checksum-mismatched file is treated as an empty index, never
// an error.
func LoadSnapshot(path string) []Entry {
	lock := flock.New(path + ".lock")
	if err := lock.RLock(); err == nil {
		defer lock.Unlock()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	newline := bytes.IndexByte(data, '\n')
	if newline < 0 {
		return nil
	}
	header := string(data[:newline])
	payload := data[newline+1:]

	var magic, version string
	var checksum uint64
	if _, err := fmt.Sscanf(header, "%s %s %x", &magic, &version, &checksum); err != nil {
		return nil
	}
	if magic != snapshotMagic || version != snapshotVersion {
		return nil
	}
	if xxhash.Sum64(payload) != checksum {
		return nil
	}

	var entries []Entry
	if err := json.Unmarshal(payload, &entries); err != nil {
		return nil
	}
	return entries
}

// RestoreSnapshot loads a snapshot and replaces the store's contents with it.
// Returns the number of entries restored.
func RestoreSnapshot(store *Store, path string) int {
	entries := LoadSnapshot(path)
	store.Clear()
	for _, entry := range entries {
		store.Upsert(entry)
	}
	return len(entries)
}
