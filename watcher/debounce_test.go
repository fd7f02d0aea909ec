package watcher

import (
	"testing"
	"time"
)

func Test_Debouncer_CollapsesSamePath(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	d.Add("/data/a.txt", OpCreate)
	d.Add("/data/a.txt", OpWrite)
	d.Add("/data/a.txt", OpWrite)

	select {
	case batch := <-d.Output():
		if len(batch) != 1 {
			t.Fatalf("expected 1 collapsed event, got %d", len(batch))
		}
		if batch[0].Op != OpWrite {
			t.Errorf("expected latest op to win, got %v", batch[0].Op)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for batch")
	}
}

func Test_Debouncer_SeparatePathsInOneBatch(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	d.Add("/data/a.txt", OpWrite)
	d.Add("/data/b.txt", OpRemove)

	select {
	case batch := <-d.Output():
		if len(batch) != 2 {
			t.Fatalf("expected 2 events, got %d", len(batch))
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for batch")
	}
}

func Test_Debouncer_QuietWindowRestarts(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)
	d.Add("/data/a.txt", OpWrite)
	time.Sleep(25 * time.Millisecond)
	d.Add("/data/b.txt", OpWrite)

	select {
	case <-d.Output():
		// Both adds land in one batch because the second reset the window.
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for batch")
	}

	select {
	case batch := <-d.Output():
		t.Fatalf("no further batch expected, got %d events", len(batch))
	case <-time.After(100 * time.Millisecond):
	}
}

func Test_Debouncer_StopCancelsPendingFlush(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	d.Add("/data/a.txt", OpWrite)
	d.Stop()

	select {
	case <-d.Output():
		t.Fatal("stopped debouncer must not flush")
	case <-time.After(60 * time.Millisecond):
	}
}
