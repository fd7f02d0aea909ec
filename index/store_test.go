package index

import (
	"testing"
	"time"
)

func testEntry(path string, size int64) Entry {
	return NewEntry(path, size, time.Now())
}

func Test_Store_UpsertAndGet(t *testing.T) {
	s := NewStore()
	s.Upsert(testEntry("/data/report.pdf", 2048))

	entry, ok := s.Get("/data/report.pdf")
	if !ok {
		t.Fatal("expected entry to be present")
	}
	if entry.Name != "report.pdf" || entry.Extension != ".pdf" || entry.Dir != "/data" {
		t.Errorf("derived fields wrong: name=%s ext=%s dir=%s", entry.Name, entry.Extension, entry.Dir)
	}
}

func Test_Store_UpsertReplacesInPlace(t *testing.T) {
	s := NewStore()
	s.Upsert(testEntry("/data/a.txt", 100))
	s.Upsert(testEntry("/data/a.txt", 250))

	if s.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", s.Len())
	}
	entry, _ := s.Get("/data/a.txt")
	if entry.SizeBytes != 250 {
		t.Errorf("expected replaced size 250, got %d", entry.SizeBytes)
	}
}

func Test_Store_Remove(t *testing.T) {
	s := NewStore()
	s.Upsert(testEntry("/data/a.txt", 100))
	s.Remove("/data/a.txt")
	s.Remove("/data/never-there.txt")

	if s.Len() != 0 {
		t.Errorf("expected empty store, got %d entries", s.Len())
	}
}

func Test_Store_SnapshotOrderedByPath(t *testing.T) {
	s := NewStore()
	s.Upsert(testEntry("/b.txt", 1))
	s.Upsert(testEntry("/a.txt", 1))
	s.Upsert(testEntry("/c.txt", 1))

	snapshot := s.Snapshot()
	if len(snapshot) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(snapshot))
	}
	if snapshot[0].Path != "/a.txt" || snapshot[2].Path != "/c.txt" {
		t.Errorf("snapshot not ordered: %s, %s, %s",
			snapshot[0].Path, snapshot[1].Path, snapshot[2].Path)
	}
}

func Test_Store_Stats(t *testing.T) {
	s := NewStore()
	s.Upsert(testEntry("/home/user/a.txt", 100))
	s.Upsert(testEntry("/home/user/docs/b.TXT", 200))
	s.Upsert(testEntry("/srv/data/c.log", 50))
	s.Upsert(testEntry("/srv/data/noext", 10))

	stats := s.Stats([]string{"/home/user", "/srv/data"})

	if stats.TotalFiles != 4 {
		t.Errorf("expected 4 files, got %d", stats.TotalFiles)
	}
	if stats.TotalSizeBytes != 360 {
		t.Errorf("expected 360 bytes, got %d", stats.TotalSizeBytes)
	}
	if stats.ExtensionCounts[".txt"] != 2 {
		t.Errorf("extension counting must be case-insensitive, got %d", stats.ExtensionCounts[".txt"])
	}
	if stats.ExtensionCounts["(none)"] != 1 {
		t.Errorf("expected 1 extensionless file, got %d", stats.ExtensionCounts["(none)"])
	}
	if stats.RootCounts["/home/user"] != 2 || stats.RootCounts["/srv/data"] != 2 {
		t.Errorf("unexpected root counts: %v", stats.RootCounts)
	}
}

func Test_Store_ConcurrentReadsDuringWrites(t *testing.T) {
	s := NewStore()
	done := make(chan struct{})

	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			s.Upsert(testEntry("/data/a.txt", int64(i)))
		}
	}()

	for i := 0; i < 1000; i++ {
		if entry, ok := s.Get("/data/a.txt"); ok {
			// An observed entry must always be internally consistent.
			if entry.Name != "a.txt" {
				t.Fatalf("partially written entry observed: %+v", entry)
			}
		}
	}
	<-done
}
