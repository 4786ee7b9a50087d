package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReportsWatchedFile(t *testing.T) {
	dir := t.TempDir()
	chart := filepath.Join(dir, "level.adofai")
	other := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(chart, []byte("{}"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	w, err := New(chart)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(other, []byte("x"), 0o644); err != nil {
		t.Fatalf("write other: %v", err)
	}
	if err := os.WriteFile(chart, []byte(`{"angleData": []}`), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	want, _ := filepath.Abs(chart)
	select {
	case got := <-w.Events:
		if got != want {
			t.Fatalf("event for %q, want %q", got, want)
		}
	case err := <-w.Errors:
		t.Fatalf("watch error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatalf("no event for the rewritten chart")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "missing.adofai"))
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if _, ok := <-w.Events; ok {
		t.Fatalf("expected events channel to be closed")
	}
}
