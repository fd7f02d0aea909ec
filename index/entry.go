package index

import (
	"path/filepath"
	"strings"
	"time"
)

// Entry is the unit of storage in the file index, uniquely keyed by Path.
// An entry is replaced in place when the underlying file changes and removed
// when the file disappears.
type Entry struct {
	Path      string    `json:"path"` // absolute path, unique key
	Name      string    `json:"name"`
	Dir       string    `json:"dir"`
	Extension string    `json:"extension"` // lower-case, leading dot, "" when none
	SizeBytes int64     `json:"sizeBytes"`
	ModTime   time.Time `json:"modTime"`
	IndexedAt time.Time `json:"indexedAt"`
}

// NewEntry builds an entry from a path and its stat data, stamping IndexedAt.
func NewEntry(path string, sizeBytes int64, modTime time.Time) Entry {
	return Entry{
		Path:      path,
		Name:      filepath.Base(path),
		Dir:       filepath.Dir(path),
		Extension: strings.ToLower(filepath.Ext(path)),
		SizeBytes: sizeBytes,
		ModTime:   modTime,
		IndexedAt: time.Now(),
	}
}

// Stats are aggregate counts derived from the current index contents.
// They are recomputed on request and never persisted.
type Stats struct {
	TotalFiles      int
	TotalSizeBytes  int64
	ExtensionCounts map[string]int
	RootCounts      map[string]int
}
