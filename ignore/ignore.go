// Package ignore decides which paths index walks skip: built-in junk
// patterns, a gitignore-syntax .fsearchignore file at each root, and custom
// patterns from configuration.
package ignore

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	gitignore "github.com/denormal/go-gitignore"
)

// IgnoreFileName is the per-root exclusion file, in .gitignore syntax.
const IgnoreFileName = ".fsearchignore"

// Matcher reports whether a path should be excluded from index walks.
// Thread-safe: Reload takes a write lock, the Should* methods a read lock.
type Matcher struct {
	mu               sync.RWMutex
	roots            []string
	rootIgnores      map[string]gitignore.GitIgnore // key: root dir
	customPatterns   []string
	maxFileSizeBytes int64
}

// Options configures a Matcher.
type Options struct {
	Roots            []string
	CustomPatterns   []string
	MaxFileSizeBytes int64
}

// NewMatcher creates a matcher for the given roots, loading each root's
// .fsearchignore file if present.
func NewMatcher(options Options) *Matcher {
	m := &Matcher{
		roots:            options.Roots,
		customPatterns:   options.CustomPatterns,
		maxFileSizeBytes: options.MaxFileSizeBytes,
	}
	if m.maxFileSizeBytes <= 0 {
		m.maxFileSizeBytes = 10 * 1024 * 1024 // 10MB default
	}
	m.rootIgnores = loadRootIgnores(options.Roots)
	return m
}

// ShouldIgnore returns true if the path should be excluded from indexing.
func (m *Matcher) ShouldIgnore(absolutePath string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	root, relativePath := m.split(absolutePath)

	if m.matchesDefaults(relativePath, absolutePath) {
		return true
	}

	if root != "" {
		if gi := m.rootIgnores[root]; gi != nil {
			isDir := false
			if info, err := os.Stat(absolutePath); err == nil {
				isDir = info.IsDir()
			}
			if match := gi.Relative(relativePath, isDir); match != nil && match.Ignore() {
				return true
			}
		}
	}

	return m.matchesCustom(relativePath)
}

// ShouldIgnoreDir returns true if a directory should be skipped entirely.
func (m *Matcher) ShouldIgnoreDir(absolutePath string) bool {
	switch filepath.Base(absolutePath) {
	case ".git", ".svn", ".hg", "node_modules", "__pycache__",
		".idea", ".vscode", ".cache", ".venv", "venv",
		".Trash", "$RECYCLE.BIN", "System Volume Information":
		return true
	}
	return m.ShouldIgnore(absolutePath)
}

// IsFileTooLarge returns true if the size exceeds the configured limit.
func (m *Matcher) IsFileTooLarge(sizeBytes int64) bool {
	return sizeBytes > m.maxFileSizeBytes
}

// MaxFileSizeBytes returns the configured limit.
func (m *Matcher) MaxFileSizeBytes() int64 {
	return m.maxFileSizeBytes
}

// Reload re-reads every root's .fsearchignore file from disk.
func (m *Matcher) Reload() {
	fresh := loadRootIgnores(m.roots)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.rootIgnores = fresh
}

// split locates the root containing the path and returns it with the
// slash-normalized relative path. An out-of-root path keeps its full form.
func (m *Matcher) split(absolutePath string) (string, string) {
	for _, root := range m.roots {
		rel, err := filepath.Rel(root, absolutePath)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		return root, filepath.ToSlash(rel)
	}
	return "", filepath.ToSlash(absolutePath)
}

func (m *Matcher) matchesDefaults(relativePath string, absolutePath string) bool {
	baseLower := strings.ToLower(filepath.Base(absolutePath))

	for _, pat := range DefaultPatterns {
		patLower := strings.ToLower(pat)

		if !strings.ContainsAny(pat, "*?[") {
			if baseLower == patLower {
				return true
			}
			for _, part := range strings.Split(relativePath, "/") {
				if strings.ToLower(part) == patLower {
					return true
				}
			}
			continue
		}

		if matched, err := filepath.Match(patLower, baseLower); err == nil && matched {
			return true
		}
	}
	return false
}

func (m *Matcher) matchesCustom(relativePath string) bool {
	base := filepath.Base(relativePath)
	for _, pat := range m.customPatterns {
		if matched, err := filepath.Match(pat, relativePath); err == nil && matched {
			return true
		}
		if matched, err := filepath.Match(pat, base); err == nil && matched {
			return true
		}
	}
	return false
}

// loadRootIgnores reads each root's ignore file; roots without one map to nil.
func loadRootIgnores(roots []string) map[string]gitignore.GitIgnore {
	ignores := make(map[string]gitignore.GitIgnore, len(roots))
	for _, root := range roots {
		ignores[root] = loadIgnoreFile(filepath.Join(root, IgnoreFileName), root)
	}
	return ignores
}

// loadIgnoreFile parses one ignore file, returning nil when absent.
func loadIgnoreFile(path string, baseDir string) gitignore.GitIgnore {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	return gitignore.New(f, baseDir, nil)
}
