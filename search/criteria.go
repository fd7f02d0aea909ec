package search

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Criteria describes one search request. It is built by the caller, normalized
// and validated once, and treated as immutable for the duration of the search.
type Criteria struct {
	RootDir         string
	FilenamePattern string     // wildcard list (`;`/`,` separated) or raw regex per UseRegex
	Extensions      []string   // allow-list, normalized to ".ext" lower-case
	DateFrom        *time.Time // inclusive lower bound on modification time
	DateTo          *time.Time // inclusive upper bound on modification time
	ContentPattern  string

	UseRegex              bool
	CaseSensitive         bool
	IncludeSubdirectories bool
	WholeWordOnly         bool
}

// Normalize canonicalizes the extension list: a leading dot is added when
// missing, casing is folded, duplicates and blanks are dropped.
func (c *Criteria) Normalize() {
	if len(c.Extensions) == 0 {
		return
	}

	seen := make(map[string]bool, len(c.Extensions))
	normalized := make([]string, 0, len(c.Extensions))
	for _, ext := range c.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" || ext == "." {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if seen[ext] {
			continue
		}
		seen[ext] = true
		normalized = append(normalized, ext)
	}
	c.Extensions = normalized
}

// Validate checks the invariants that must hold before any filesystem work
// begins: the root exists and is a directory, and the date range is ordered.
func (c *Criteria) Validate() error {
	if strings.TrimSpace(c.RootDir) == "" {
		return fmt.Errorf("root directory is required")
	}

	info, err := os.Stat(c.RootDir)
	if err != nil {
		return fmt.Errorf("root directory does not exist: %s", c.RootDir)
	}
	if !info.IsDir() {
		return fmt.Errorf("root path is not a directory: %s", c.RootDir)
	}

	if c.DateFrom != nil && c.DateTo != nil && c.DateFrom.After(*c.DateTo) {
		return fmt.Errorf("date range is inverted: from %s is after to %s",
			c.DateFrom.Format(time.DateOnly), c.DateTo.Format(time.DateOnly))
	}

	return nil
}

// HasContentPattern reports whether content scanning applies. Empty or
// whitespace-only patterns disable content search entirely.
func (c *Criteria) HasContentPattern() bool {
	return strings.TrimSpace(c.ContentPattern) != ""
}

// extensionSet returns the allow-list as a set, or nil when no extension
// filter was requested.
func (c *Criteria) extensionSet() map[string]bool {
	if len(c.Extensions) == 0 {
		return nil
	}
	set := make(map[string]bool, len(c.Extensions))
	for _, ext := range c.Extensions {
		set[ext] = true
	}
	return set
}
