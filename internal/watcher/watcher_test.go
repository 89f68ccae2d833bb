package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

type counter struct {
	mu sync.Mutex
	n  int
}

func (c *counter) inc() {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
}

func (c *counter) get() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

func startWatcher(t *testing.T, root string, c *counter) *Watcher {
	t.Helper()
	w := NewWatcher(root, c.inc, WithDebounce(100*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(w.Stop)
	return w
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0600); err != nil {
		t.Fatal(err)
	}
}

func TestWatcher_triggersOnDocumentChange(t *testing.T) {
	dir := t.TempDir()
	var c counter
	startWatcher(t, dir, &c)

	writeFile(t, filepath.Join(dir, "12 - Application.pdf"))
	time.Sleep(800 * time.Millisecond)

	if got := c.get(); got != 1 {
		t.Errorf("got %d batch callbacks, want 1", got)
	}
}

func TestWatcher_coalescesBurst(t *testing.T) {
	dir := t.TempDir()
	var c counter
	startWatcher(t, dir, &c)

	// A candidate dropping several documents at once should trigger one run.
	writeFile(t, filepath.Join(dir, "12 - Application.pdf"))
	writeFile(t, filepath.Join(dir, "12 - JANE DOE CV.pdf"))
	writeFile(t, filepath.Join(dir, "31 - Application.pdf"))
	time.Sleep(800 * time.Millisecond)

	if got := c.get(); got != 1 {
		t.Errorf("got %d batch callbacks, want 1", got)
	}
}

func TestWatcher_ignoresOtherExtensions(t *testing.T) {
	dir := t.TempDir()
	var c counter
	startWatcher(t, dir, &c)

	writeFile(t, filepath.Join(dir, "notes.txt"))
	time.Sleep(400 * time.Millisecond)

	if got := c.get(); got != 0 {
		t.Errorf("got %d batch callbacks for a non-document, want 0", got)
	}
}

func TestWatcher_newDirectoryIsWatched(t *testing.T) {
	dir := t.TempDir()
	var c counter
	startWatcher(t, dir, &c)

	sub := filepath.Join(dir, "batch-2026-08")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}
	// Give the watcher a moment to pick up the new directory.
	time.Sleep(200 * time.Millisecond)
	writeFile(t, filepath.Join(sub, "44 - Application.pdf"))
	time.Sleep(800 * time.Millisecond)

	if got := c.get(); got < 1 {
		t.Errorf("got %d batch callbacks, want at least 1", got)
	}
}

func TestWatcher_removeTriggers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "12 - Application.pdf")
	writeFile(t, path)

	var c counter
	startWatcher(t, dir, &c)

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	time.Sleep(800 * time.Millisecond)

	if got := c.get(); got != 1 {
		t.Errorf("got %d batch callbacks after remove, want 1", got)
	}
}

func TestIsDocument(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/a/12 - Application.pdf", true},
		{"/a/12 - Application.PDF", true},
		{"/a/notes.txt", false},
		{"/a/noext", false},
	}
	for _, tt := range tests {
		if got := isDocument(tt.path); got != tt.want {
			t.Errorf("isDocument(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
