package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func startWatcher(t *testing.T, root string) *Watcher {
	t.Helper()
	w, err := New(root, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(w.Stop)
	return w
}

func expectTrigger(t *testing.T, w *Watcher) {
	t.Helper()
	select {
	case <-w.Triggers:
	case <-time.After(5 * time.Second):
		t.Fatal("no trigger received")
	}
}

func expectQuiet(t *testing.T, w *Watcher) {
	t.Helper()
	select {
	case <-w.Triggers:
		t.Fatal("unexpected trigger")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestTriggersOnSpreadsheetWrite(t *testing.T) {
	root := t.TempDir()
	w := startWatcher(t, root)

	if err := os.WriteFile(filepath.Join(root, "a.xlsx"), []byte("x"), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	expectTrigger(t, w)
}

func TestIgnoresOtherFiles(t *testing.T) {
	root := t.TempDir()
	w := startWatcher(t, root)

	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "~$open.xlsx"), []byte("x"), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	expectQuiet(t, w)
}

func TestCoalescesBursts(t *testing.T) {
	root := t.TempDir()
	w := startWatcher(t, root)

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(filepath.Join(root, "a.xlsx"), []byte{byte(i)}, 0644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
	}
	expectTrigger(t, w)
	expectQuiet(t, w)
}

func TestWatchesNewSubdirectories(t *testing.T) {
	root := t.TempDir()
	w := startWatcher(t, root)

	sub := filepath.Join(root, "sub")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	// Give the watcher a moment to register the new directory.
	time.Sleep(200 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(sub, "b.xlsx"), []byte("x"), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	expectTrigger(t, w)
}
