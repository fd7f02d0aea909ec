package search

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ayasuda/fileseek/pattern"
	"github.com/ayasuda/fileseek/scan"
)

// Pipeline runs searches: lazy enumeration under a root, metadata filters,
// content scanning, progress emission and cooperative cancellation.
// A single Pipeline may serve multiple concurrent searches; each invocation
// carries its own counters and cancellation.
type Pipeline struct {
	Logger   *slog.Logger
	progress *Broker
}

// NewPipeline creates a search pipeline.
func NewPipeline(logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		Logger:   logger,
		progress: NewBroker(),
	}
}

// Progress returns the broker delivering progress snapshots for searches run
// through this pipeline.
func (p *Pipeline) Progress() *Broker {
	return p.progress
}

// Search runs a search synchronously. Invalid criteria are reported as an
// error before any filesystem work; cancellation is not an error and is
// reported through Result.WasCancelled.
func (p *Pipeline) Search(ctx context.Context, criteria Criteria) (*Result, error) {
	criteria.Normalize()
	if err := criteria.Validate(); err != nil {
		return nil, err
	}
	return p.run(ctx, criteria), nil
}

// SearchAsync runs a search on its own goroutine and never surfaces a fault:
// invalid criteria and unexpected errors land in Result.ErrorMessage. The
// returned channel delivers exactly one result.
func (p *Pipeline) SearchAsync(ctx context.Context, criteria Criteria) <-chan *Result {
	out := make(chan *Result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				p.Logger.Error("search panicked", "error", r)
				out <- &Result{Criteria: criteria, ErrorMessage: fmt.Sprintf("search failed: %v", r)}
			}
		}()

		result, err := p.Search(ctx, criteria)
		if err != nil {
			result = &Result{Criteria: criteria, ErrorMessage: err.Error()}
		}
		out <- result
	}()

	return out
}

// run executes a validated search.
func (p *Pipeline) run(ctx context.Context, criteria Criteria) *Result {
	start := time.Now()
	searchID := uuid.NewString()
	result := &Result{Criteria: criteria}

	extensions := criteria.extensionSet()
	nameMatch := p.nameMatcher(criteria)

	var scanner *scan.Scanner
	if criteria.HasContentPattern() {
		scanner = scan.NewScanner(criteria.ContentPattern, criteria.UseRegex,
			criteria.CaseSensitive, criteria.WholeWordOnly)
	}

	handle := func(path string, entry fs.DirEntry) {
		result.TotalFilesScanned++

		if extensions != nil && !extensions[strings.ToLower(filepath.Ext(path))] {
			return
		}

		name := entry.Name()
		if nameMatch != nil && !nameMatch(name) {
			return
		}

		info, err := entry.Info()
		if err != nil {
			return // vanished mid-scan, skip
		}
		if criteria.DateFrom != nil && info.ModTime().Before(*criteria.DateFrom) {
			return
		}
		if criteria.DateTo != nil && info.ModTime().After(*criteria.DateTo) {
			return
		}

		var contentMatches []scan.Match
		if scanner != nil {
			contentMatches = p.scanFile(path, scanner)
			if len(contentMatches) == 0 {
				return
			}
		}

		result.Matches = append(result.Matches, FileMatch{
			Path:           path,
			Name:           name,
			Dir:            filepath.Dir(path),
			SizeBytes:      info.Size(),
			ModTime:        info.ModTime(),
			ContentMatches: contentMatches,
		})
	}

	cancelled := p.enumerate(ctx, criteria, func(path string, entry fs.DirEntry) {
		handle(path, entry)
		if result.TotalFilesScanned%progressInterval == 0 {
			p.progress.publish(Progress{
				SearchID:     searchID,
				FilesScanned: result.TotalFilesScanned,
				FilesMatched: len(result.Matches),
				CurrentFile:  path,
				Percentage:   0, // total unknown ahead of enumeration
				Elapsed:      time.Since(start),
			})
		}
	})

	result.WasCancelled = cancelled
	result.Duration = time.Since(start)

	p.progress.publish(Progress{
		SearchID:     searchID,
		FilesScanned: result.TotalFilesScanned,
		FilesMatched: len(result.Matches),
		Percentage:   100,
		Elapsed:      result.Duration,
	})

	p.Logger.Info("search complete",
		"root", criteria.RootDir,
		"scanned", result.TotalFilesScanned,
		"matched", len(result.Matches),
		"cancelled", cancelled,
		"duration", result.Duration,
	)
	return result
}

// enumerate walks the candidate files lazily, invoking visit for each regular
// file. It returns true if the walk stopped because of cancellation.
// Per-entry access errors are swallowed and the walk continues with siblings.
func (p *Pipeline) enumerate(ctx context.Context, criteria Criteria, visit func(string, fs.DirEntry)) bool {
	cancelled := false

	if !criteria.IncludeSubdirectories {
		entries, err := os.ReadDir(criteria.RootDir)
		if err != nil {
			return false
		}
		for _, entry := range entries {
			if ctx.Err() != nil {
				return true
			}
			if entry.IsDir() {
				continue
			}
			visit(filepath.Join(criteria.RootDir, entry.Name()), entry)
		}
		return false
	}

	filepath.WalkDir(criteria.RootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // permission denied etc., skip
		}
		if ctx.Err() != nil {
			cancelled = true
			return filepath.SkipAll
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		visit(path, d)
		return nil
	})

	return cancelled
}

// nameMatcher builds the filename predicate, or nil when no pattern is set.
// Wildcard mode requires a full-string match; regex mode uses unanchored
// search semantics. An invalid regex falls back to substring containment.
func (p *Pipeline) nameMatcher(criteria Criteria) func(string) bool {
	pat := strings.TrimSpace(criteria.FilenamePattern)
	if pat == "" {
		return nil
	}

	if criteria.UseRegex {
		source := pat
		if !criteria.CaseSensitive {
			source = "(?i)" + source
		}
		re, err := regexp.Compile(source)
		if err != nil {
			p.Logger.Debug("invalid filename regex, using substring fallback", "pattern", pat)
			return func(name string) bool {
				if criteria.CaseSensitive {
					return strings.Contains(name, pat)
				}
				return strings.Contains(strings.ToLower(name), strings.ToLower(pat))
			}
		}
		return re.MatchString
	}

	return func(name string) bool {
		return pattern.MatchesAny(name, pat, criteria.CaseSensitive)
	}
}

// scanFile reads one file and returns its content matches. Unreadable or
// binary files yield zero matches and are not an error for the search.
func (p *Pipeline) scanFile(path string, scanner *scan.Scanner) []scan.Match {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	if scan.IsBinary(data) {
		return nil
	}
	return scanner.ScanLines(strings.Split(string(data), "\n"))
}
