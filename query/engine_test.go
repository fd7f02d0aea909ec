package query

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/ayasuda/fileseek/index"
)

func storeWith(paths ...string) *index.Store {
	store := index.NewStore()
	for _, path := range paths {
		store.Upsert(index.NewEntry(path, 100, time.Now()))
	}
	return store
}

func testEngine(store *index.Store) *Engine {
	return NewEngine(store, "", nil)
}

func Test_Engine_QuickSearchOrdering(t *testing.T) {
	store := storeWith("/docs/report_final.pdf", "/docs/report.pdf")
	results := testEngine(store).QuickSearch("report", 0)

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Name != "report.pdf" {
		t.Errorf("shorter name must surface first, got %s", results[0].Name)
	}
	if results[1].Name != "report_final.pdf" {
		t.Errorf("expected report_final.pdf second, got %s", results[1].Name)
	}
}

func Test_Engine_QuickSearchCaseInsensitive(t *testing.T) {
	store := storeWith("/docs/README.md")
	if got := testEngine(store).QuickSearch("readme", 10); len(got) != 1 {
		t.Errorf("expected case-insensitive hit, got %d results", len(got))
	}
}

func Test_Engine_QuickSearchMaxResults(t *testing.T) {
	store := storeWith("/a/x1.txt", "/a/x2.txt", "/a/x3.txt", "/a/x4.txt")
	if got := testEngine(store).QuickSearch("x", 2); len(got) != 2 {
		t.Errorf("expected truncation to 2, got %d", len(got))
	}
}

func Test_Engine_SearchByExtension(t *testing.T) {
	store := storeWith("/a/doc.txt", "/a/image.PNG", "/a/notes.md")

	results := testEngine(store).SearchByExtension([]string{"txt", ".png"}, 0)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, entry := range results {
		if entry.Extension != ".txt" && entry.Extension != ".png" {
			t.Errorf("unexpected extension %s", entry.Extension)
		}
	}
}

func Test_Engine_SearchByPatternWildcard(t *testing.T) {
	store := storeWith("/logs/test1.log", "/logs/test12.log", "/logs/test.log")

	results := testEngine(store).SearchByPattern("test?.log", false, false, 0)
	if len(results) != 1 || results[0].Name != "test1.log" {
		t.Fatalf("expected only test1.log, got %v", results)
	}
}

func Test_Engine_SearchByPatternInvalidRegexFallsBack(t *testing.T) {
	store := storeWith("/src/a(b.go", "/src/main.go")

	results := testEngine(store).SearchByPattern("a(b", true, false, 0)
	if len(results) != 1 || results[0].Name != "a(b.go" {
		t.Fatalf("expected substring fallback hit, got %v", results)
	}
}

func Test_Engine_SearchByGlob(t *testing.T) {
	store := storeWith("/project/src/main.go", "/project/docs/readme.md")

	results, err := testEngine(store).SearchByGlob("**/*.go", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].Name != "main.go" {
		t.Fatalf("expected main.go, got %v", results)
	}

	if _, err := testEngine(store).SearchByGlob("[invalid", 0); err == nil {
		t.Error("expected error for invalid glob")
	}
}

func Test_Engine_LazyLoadsPersistedSnapshot(t *testing.T) {
	seed := storeWith("/data/report.pdf")
	path := filepath.Join(t.TempDir(), "index.json")
	if err := index.SaveSnapshot(seed, path); err != nil {
		t.Fatalf("save: %v", err)
	}

	empty := index.NewStore()
	engine := NewEngine(empty, path, nil)

	results := engine.QuickSearch("report", 10)
	if len(results) != 1 {
		t.Fatalf("expected snapshot to be loaded before first query, got %d results", len(results))
	}
	if empty.Len() != 1 {
		t.Errorf("store should hold the restored entry, got %d", empty.Len())
	}
}

func Test_Engine_QueriesNeverTouchFilesystem(t *testing.T) {
	// Entries point at paths that do not exist; queries must still answer.
	store := storeWith("/nonexistent/ghost.txt")
	results := testEngine(store).QuickSearch("ghost", 10)
	if len(results) != 1 {
		t.Errorf("expected index-only lookup to succeed, got %d results", len(results))
	}
}
