package index

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Store is the concurrently-accessible in-memory file index. Reads proceed
// during a background update; updates are atomic per key, so a reader never
// observes a partially-updated entry.
type Store struct {
	mu      sync.RWMutex
	entries map[string]Entry // key: absolute path
}

// NewStore creates an empty index store.
func NewStore() *Store {
	return &Store{entries: make(map[string]Entry)}
}

// Upsert inserts or replaces the entry for its path.
func (s *Store) Upsert(entry Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.Path] = entry
}

// Remove deletes the entry for the given path, if present.
func (s *Store) Remove(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, path)
}

// Get returns the entry for a path.
func (s *Store) Get(path string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[path]
	return entry, ok
}

// Len returns the number of indexed files.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Snapshot returns all entries ordered by path. The slice is owned by the
// caller and detached from subsequent updates.
func (s *Store) Snapshot() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]Entry, 0, len(s.entries))
	for _, entry := range s.entries {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})
	return entries
}

// Clear removes all entries.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]Entry)
}

// Stats recomputes aggregate counts. Roots attribute each entry to the first
// configured root that contains it.
func (s *Store) Stats(roots []string) Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{
		ExtensionCounts: make(map[string]int),
		RootCounts:      make(map[string]int),
	}
	for _, entry := range s.entries {
		stats.TotalFiles++
		stats.TotalSizeBytes += entry.SizeBytes
		ext := entry.Extension
		if ext == "" {
			ext = "(none)"
		}
		stats.ExtensionCounts[ext]++

		for _, root := range roots {
			if pathWithinRoot(entry.Path, root) {
				stats.RootCounts[root]++
				break
			}
		}
	}
	return stats
}

// pathWithinRoot reports whether path sits at or below root.
func pathWithinRoot(path string, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
