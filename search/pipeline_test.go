package search

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func testPipeline() *Pipeline {
	return NewPipeline(nil)
}

func Test_Pipeline_ExtensionAndContentFilter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "hello world")
	writeFile(t, filepath.Join(dir, "b.log"), "hello")

	result, err := testPipeline().Search(context.Background(), Criteria{
		RootDir:               dir,
		Extensions:            []string{".txt"},
		ContentPattern:        "hello",
		IncludeSubdirectories: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.MatchCount() != 1 {
		t.Fatalf("expected exactly 1 match, got %d", result.MatchCount())
	}
	match := result.Matches[0]
	if match.Name != "a.txt" {
		t.Errorf("expected a.txt, got %s", match.Name)
	}
	if len(match.ContentMatches) != 1 {
		t.Fatalf("expected 1 content match, got %d", len(match.ContentMatches))
	}
	if match.ContentMatches[0].LineNumber != 1 {
		t.Errorf("expected match at line 1, got %d", match.ContentMatches[0].LineNumber)
	}
	if result.TotalFilesScanned != 2 {
		t.Errorf("expected 2 files scanned, got %d", result.TotalFilesScanned)
	}
}

func Test_Pipeline_WildcardFilenamePattern(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"test1.log", "test12.log", "test.log"} {
		writeFile(t, filepath.Join(dir, name), "content")
	}

	result, err := testPipeline().Search(context.Background(), Criteria{
		RootDir:               dir,
		FilenamePattern:       "test?.log",
		IncludeSubdirectories: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.MatchCount() != 1 {
		t.Fatalf("expected 1 match, got %d", result.MatchCount())
	}
	if result.Matches[0].Name != "test1.log" {
		t.Errorf("expected test1.log, got %s", result.Matches[0].Name)
	}
	if len(result.Matches[0].ContentMatches) != 0 {
		t.Error("metadata-only match must carry zero content matches")
	}
}

func Test_Pipeline_RegexFilenameUnanchored(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "report_2025.txt"), "x")
	writeFile(t, filepath.Join(dir, "notes.txt"), "x")

	result, err := testPipeline().Search(context.Background(), Criteria{
		RootDir:               dir,
		FilenamePattern:       `report_\d+`,
		UseRegex:              true,
		IncludeSubdirectories: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.MatchCount() != 1 || result.Matches[0].Name != "report_2025.txt" {
		t.Fatalf("expected report_2025.txt only, got %v", result.Matches)
	}
}

func Test_Pipeline_InvalidRegexFallsBackToSubstring(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a(b.txt"), "x")
	writeFile(t, filepath.Join(dir, "other.txt"), "x")

	result, err := testPipeline().Search(context.Background(), Criteria{
		RootDir:               dir,
		FilenamePattern:       "a(b",
		UseRegex:              true,
		IncludeSubdirectories: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.MatchCount() != 1 || result.Matches[0].Name != "a(b.txt" {
		t.Fatalf("expected substring fallback to match a(b.txt, got %v", result.Matches)
	}
}

func Test_Pipeline_DateRangeFilter(t *testing.T) {
	dir := t.TempDir()
	oldFile := filepath.Join(dir, "old.txt")
	newFile := filepath.Join(dir, "new.txt")
	writeFile(t, oldFile, "x")
	writeFile(t, newFile, "x")

	oldTime := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(oldFile, oldTime, oldTime); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	cutoff := time.Now().Add(-24 * time.Hour)
	result, err := testPipeline().Search(context.Background(), Criteria{
		RootDir:               dir,
		DateFrom:              &cutoff,
		IncludeSubdirectories: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.MatchCount() != 1 || result.Matches[0].Name != "new.txt" {
		t.Fatalf("expected only new.txt, got %d matches", result.MatchCount())
	}
}

func Test_Pipeline_SubdirectoriesExcluded(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "top.txt"), "x")
	writeFile(t, filepath.Join(dir, "sub", "nested.txt"), "x")

	result, err := testPipeline().Search(context.Background(), Criteria{
		RootDir:               dir,
		Extensions:            []string{"txt"},
		IncludeSubdirectories: false,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.MatchCount() != 1 || result.Matches[0].Name != "top.txt" {
		t.Fatalf("expected only top.txt, got %d matches", result.MatchCount())
	}
}

func Test_Pipeline_BinaryFilesYieldNoContentMatches(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "data.bin"), "hello\x00world")
	writeFile(t, filepath.Join(dir, "data.txt"), "hello world")

	result, err := testPipeline().Search(context.Background(), Criteria{
		RootDir:               dir,
		ContentPattern:        "hello",
		IncludeSubdirectories: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.MatchCount() != 1 || result.Matches[0].Name != "data.txt" {
		t.Fatalf("binary file must be silently skipped, got %d matches", result.MatchCount())
	}
}

func Test_Pipeline_Cancellation(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 500; i++ {
		writeFile(t, filepath.Join(dir, fmt.Sprintf("file%03d.txt", i)), "content here")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancelled before the walk begins

	result, err := testPipeline().Search(ctx, Criteria{
		RootDir:               dir,
		ContentPattern:        "content",
		IncludeSubdirectories: true,
	})
	if err != nil {
		t.Fatalf("cancellation must not be an error, got %v", err)
	}
	if !result.WasCancelled {
		t.Error("expected WasCancelled=true")
	}
	if result.TotalFilesScanned >= 500 {
		t.Errorf("expected scan to stop early, scanned %d", result.TotalFilesScanned)
	}
}

func Test_Pipeline_AsyncInvalidCriteria(t *testing.T) {
	result := <-testPipeline().SearchAsync(context.Background(), Criteria{
		RootDir: filepath.Join(t.TempDir(), "missing"),
	})

	if result.ErrorMessage == "" {
		t.Error("async entry point must capture validation failure in ErrorMessage")
	}
	if result.MatchCount() != 0 {
		t.Errorf("expected zero matches, got %d", result.MatchCount())
	}
}

func Test_Pipeline_ProgressDelivery(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 250; i++ {
		writeFile(t, filepath.Join(dir, fmt.Sprintf("f%03d.txt", i)), "x")
	}

	p := testPipeline()
	id, ch := p.Progress().Subscribe()
	defer p.Progress().Unsubscribe(id)

	if _, err := p.Search(context.Background(), Criteria{
		RootDir:               dir,
		IncludeSubdirectories: true,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var snapshots []Progress
	for {
		select {
		case snap := <-ch:
			snapshots = append(snapshots, snap)
			if snap.Percentage == 100 {
				goto done
			}
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for completion snapshot")
		}
	}
done:
	if len(snapshots) < 2 {
		t.Fatalf("expected interval snapshots plus completion, got %d", len(snapshots))
	}
	for i := 1; i < len(snapshots); i++ {
		if snapshots[i].FilesScanned < snapshots[i-1].FilesScanned {
			t.Error("scanned counts must be monotonic")
		}
	}
	final := snapshots[len(snapshots)-1]
	if final.FilesScanned != 250 {
		t.Errorf("expected final count 250, got %d", final.FilesScanned)
	}
}

func Test_Pipeline_ProgressIdentifiesEachSearch(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	for i := 0; i < 150; i++ {
		writeFile(t, filepath.Join(dirA, fmt.Sprintf("a%03d.txt", i)), "x")
		writeFile(t, filepath.Join(dirB, fmt.Sprintf("b%03d.txt", i)), "x")
	}

	p := testPipeline()
	id, ch := p.Progress().Subscribe()
	defer p.Progress().Unsubscribe(id)

	chA := p.SearchAsync(context.Background(), Criteria{RootDir: dirA, IncludeSubdirectories: true})
	chB := p.SearchAsync(context.Background(), Criteria{RootDir: dirB, IncludeSubdirectories: true})
	<-chA
	<-chB

	perSearch := make(map[string][]Progress)
	completed := 0
	for completed < 2 {
		select {
		case snap := <-ch:
			if snap.SearchID == "" {
				t.Fatal("every snapshot must carry its search identity")
			}
			perSearch[snap.SearchID] = append(perSearch[snap.SearchID], snap)
			if snap.Percentage == 100 {
				completed++
			}
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for completion snapshots")
		}
	}

	if len(perSearch) != 2 {
		t.Fatalf("expected snapshots from 2 distinct searches, got %d", len(perSearch))
	}
	for searchID, snaps := range perSearch {
		for i := 1; i < len(snaps); i++ {
			if snaps[i].FilesScanned < snaps[i-1].FilesScanned {
				t.Errorf("search %s: scanned counts must be monotonic", searchID)
			}
		}
		if final := snaps[len(snaps)-1]; final.FilesScanned != 150 {
			t.Errorf("search %s: expected final count 150, got %d", searchID, final.FilesScanned)
		}
	}
}

func Test_Pipeline_ConcurrentSearchesDoNotInterfere(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	writeFile(t, filepath.Join(dirA, "a.txt"), "alpha")
	writeFile(t, filepath.Join(dirB, "b.txt"), "beta")
	writeFile(t, filepath.Join(dirB, "c.txt"), "beta")

	p := testPipeline()
	chA := p.SearchAsync(context.Background(), Criteria{RootDir: dirA, ContentPattern: "alpha", IncludeSubdirectories: true})
	chB := p.SearchAsync(context.Background(), Criteria{RootDir: dirB, ContentPattern: "beta", IncludeSubdirectories: true})

	resultA, resultB := <-chA, <-chB
	if resultA.MatchCount() != 1 {
		t.Errorf("search A expected 1 match, got %d", resultA.MatchCount())
	}
	if resultB.MatchCount() != 2 {
		t.Errorf("search B expected 2 matches, got %d", resultB.MatchCount())
	}
	if resultB.TotalContentMatches() != 2 {
		t.Errorf("search B expected 2 content matches, got %d", resultB.TotalContentMatches())
	}
}
