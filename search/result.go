package search

import (
	"time"

	"github.com/ayasuda/fileseek/scan"
)

// FileMatch is one file that satisfied the criteria. ContentMatches is empty
// when only name/metadata criteria were in effect.
type FileMatch struct {
	Path           string
	Name           string
	Dir            string
	SizeBytes      int64
	ModTime        time.Time
	ContentMatches []scan.Match
}

// Result is the outcome of one search invocation, owned by the caller.
type Result struct {
	Criteria          Criteria
	Matches           []FileMatch
	TotalFilesScanned int
	Duration          time.Duration
	WasCancelled      bool
	ErrorMessage      string
}

// MatchCount returns the number of matched files.
func (r *Result) MatchCount() int {
	return len(r.Matches)
}

// TotalContentMatches returns the number of content hits across all files.
// A file matched on metadata alone contributes zero.
func (r *Result) TotalContentMatches() int {
	total := 0
	for _, m := range r.Matches {
		total += len(m.ContentMatches)
	}
	return total
}
