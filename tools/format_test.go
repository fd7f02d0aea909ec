package tools

import (
	"strings"
	"testing"
	"time"

	"github.com/ayasuda/fileseek/index"
	"github.com/ayasuda/fileseek/scan"
	"github.com/ayasuda/fileseek/search"
)

func Test_FormatSearchResult_WithContentMatches(t *testing.T) {
	result := &search.Result{
		Matches: []search.FileMatch{{
			Path:      "/data/a.txt",
			Name:      "a.txt",
			SizeBytes: 2048,
			ModTime:   time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC),
			ContentMatches: []scan.Match{{
				LineNumber: 3, StartColumn: 4, MatchedText: "hit",
				ContextBefore: "a ", ContextAfter: " b",
			}},
		}},
		TotalFilesScanned: 10,
		Duration:          42 * time.Millisecond,
	}

	output := FormatSearchResult(result)
	if !strings.Contains(output, "Matched 1 of 10 files") {
		t.Errorf("missing summary: %q", output)
	}
	if !strings.Contains(output, "/data/a.txt") || !strings.Contains(output, "3:4: a hit b") {
		t.Errorf("missing match detail: %q", output)
	}
}

func Test_FormatSearchResult_Cancelled(t *testing.T) {
	output := FormatSearchResult(&search.Result{WasCancelled: true, TotalFilesScanned: 5})
	if !strings.Contains(output, "(cancelled)") {
		t.Errorf("cancelled flag must be rendered: %q", output)
	}
}

func Test_FormatSearchResult_Error(t *testing.T) {
	output := FormatSearchResult(&search.Result{ErrorMessage: "root directory does not exist"})
	if !strings.Contains(output, "Search failed") {
		t.Errorf("error message must be rendered: %q", output)
	}
}

func Test_FormatEntries(t *testing.T) {
	if got := FormatEntries(nil); got != "No files matched." {
		t.Errorf("empty case: %q", got)
	}

	entries := []index.Entry{index.NewEntry("/data/report.pdf", 1536, time.Now())}
	output := FormatEntries(entries)
	if !strings.Contains(output, "Found 1 files") || !strings.Contains(output, "1.5 KB") {
		t.Errorf("unexpected output: %q", output)
	}
}

func Test_FormatFileSize(t *testing.T) {
	cases := []struct {
		bytes int64
		want  string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{3 * 1024 * 1024, "3.0 MB"},
		{2 * 1024 * 1024 * 1024, "2.0 GB"},
	}
	for _, c := range cases {
		if got := formatFileSize(c.bytes); got != c.want {
			t.Errorf("formatFileSize(%d) = %q, want %q", c.bytes, got, c.want)
		}
	}
}

func Test_FormatDuration(t *testing.T) {
	if got := formatDuration(42 * time.Second); got != "42s" {
		t.Errorf("got %q", got)
	}
	if got := formatDuration(150 * time.Second); got != "2m30s" {
		t.Errorf("got %q", got)
	}
	if got := formatDuration(90 * time.Minute); got != "1h30m" {
		t.Errorf("got %q", got)
	}
}
