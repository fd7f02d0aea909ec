package query

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ayasuda/fileseek/index"
	"github.com/ayasuda/fileseek/pattern"
)

// defaultMaxResults bounds queries when the caller passes no limit.
const defaultMaxResults = 50

// Engine serves read-only lookups against the index store's current snapshot.
// Queries never trigger a filesystem walk; if the store is empty and a
// persisted snapshot exists, it is loaded transparently before the first
// query executes.
type Engine struct {
	store        *index.Store
	snapshotPath string
	logger       *slog.Logger
	loadOnce     sync.Once
}

// NewEngine creates a query engine over the given store. snapshotPath may be
// empty when no persisted snapshot should be consulted.
func NewEngine(store *index.Store, snapshotPath string, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{store: store, snapshotPath: snapshotPath, logger: logger}
}

// QuickSearch returns entries whose name contains the substring,
// case-insensitively, ordered by name length then lexicographic name so the
// most specific names surface first.
func (e *Engine) QuickSearch(substring string, maxResults int) []index.Entry {
	e.ensureLoaded()
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	needle := strings.ToLower(substring)
	var results []index.Entry
	for _, entry := range e.store.Snapshot() {
		if strings.Contains(strings.ToLower(entry.Name), needle) {
			results = append(results, entry)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if len(results[i].Name) != len(results[j].Name) {
			return len(results[i].Name) < len(results[j].Name)
		}
		return results[i].Name < results[j].Name
	})

	return truncate(results, maxResults)
}

// SearchByExtension returns entries whose extension is in the given set.
// Bare extensions are normalized with a leading dot; matching is
// case-insensitive.
func (e *Engine) SearchByExtension(extensions []string, maxResults int) []index.Entry {
	e.ensureLoaded()
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	set := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = true
	}

	var results []index.Entry
	for _, entry := range e.store.Snapshot() {
		if set[entry.Extension] {
			results = append(results, entry)
			if len(results) >= maxResults {
				break
			}
		}
	}
	return results
}

// SearchByPattern matches entry names against a wildcard or regex pattern.
// An invalid regex falls back to substring search.
func (e *Engine) SearchByPattern(pat string, useRegex bool, caseSensitive bool, maxResults int) []index.Entry {
	e.ensureLoaded()
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	match := e.nameMatcher(pat, useRegex, caseSensitive)

	var results []index.Entry
	for _, entry := range e.store.Snapshot() {
		if match(entry.Name) {
			results = append(results, entry)
			if len(results) >= maxResults {
				break
			}
		}
	}
	return results
}

// SearchByGlob matches full paths against a doublestar glob pattern.
func (e *Engine) SearchByGlob(glob string, maxResults int) ([]index.Entry, error) {
	e.ensureLoaded()
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	glob = strings.ReplaceAll(glob, "\\", "/")
	if !doublestar.ValidatePattern(glob) {
		return nil, fmt.Errorf("invalid glob pattern: %s", glob)
	}

	var results []index.Entry
	for _, entry := range e.store.Snapshot() {
		matched, err := doublestar.Match(glob, strings.TrimPrefix(strings.ReplaceAll(entry.Path, "\\", "/"), "/"))
		if err != nil {
			continue
		}
		if matched {
			results = append(results, entry)
			if len(results) >= maxResults {
				break
			}
		}
	}
	return results, nil
}

// nameMatcher builds the name predicate for SearchByPattern.
func (e *Engine) nameMatcher(pat string, useRegex bool, caseSensitive bool) func(string) bool {
	if useRegex {
		source := pat
		if !caseSensitive {
			source = "(?i)" + source
		}
		re, err := regexp.Compile(source)
		if err != nil {
			e.logger.Debug("invalid query regex, using substring fallback", "pattern", pat)
			needle := strings.ToLower(pat)
			return func(name string) bool {
				return strings.Contains(strings.ToLower(name), needle)
			}
		}
		return re.MatchString
	}

	return func(name string) bool {
		return pattern.Matches(name, pat, caseSensitive)
	}
}

// ensureLoaded restores the persisted snapshot once if the store is empty.
func (e *Engine) ensureLoaded() {
	e.loadOnce.Do(func() {
		if e.snapshotPath == "" || e.store.Len() > 0 {
			return
		}
		restored := index.RestoreSnapshot(e.store, e.snapshotPath)
		if restored > 0 {
			e.logger.Info("index snapshot loaded", "path", e.snapshotPath, "entries", restored)
		}
	})
}

func truncate(entries []index.Entry, max int) []index.Entry {
	if len(entries) > max {
		return entries[:max]
	}
	return entries
}
