// Package watch monitors a directory tree for spreadsheet changes and
// emits debounced re-consolidation triggers.
package watch

import (
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/marenkov/sheaf/internal/scan"
)

// DefaultDebounce is the quiet period waited after the last relevant
// event before a trigger is emitted. Spreadsheet saves often arrive as
// bursts of writes and renames.
const DefaultDebounce = 500 * time.Millisecond

// Watcher monitors a directory tree using fsnotify. Every subdirectory
// is watched; directories created while watching are added on the fly.
type Watcher struct {
	Root     string
	Triggers <-chan struct{} // read-only external channel

	debounce time.Duration
	triggers chan struct{} // internal write channel
	done     chan struct{}
	watcher  *fsnotify.Watcher
}

// New creates a watcher for the given root directory. Debounce values
// of zero or less use DefaultDebounce.
func New(root string, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	ch := make(chan struct{}, 1)
	w := &Watcher{
		Root:     root,
		Triggers: ch,
		debounce: debounce,
		triggers: ch,
		done:     make(chan struct{}),
		watcher:  fw,
	}
	return w, nil
}

// Start registers the root and all existing subdirectories, then begins
// watching.
func (w *Watcher) Start() error {
	err := filepath.WalkDir(w.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable subtree, skip
		}
		if d.IsDir() {
			return w.watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	go w.loop()
	return nil
}

// Stop closes the watcher and channels.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done // wait for loop to exit
	close(w.triggers)
}

func (w *Watcher) loop() {
	defer close(w.done)

	// Debounce: remember the last relevant event and fire once the
	// burst goes quiet.
	var lastEvent time.Time
	dirty := false
	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				if dirty {
					w.emit()
				}
				return
			}

			if event.Has(fsnotify.Create) {
				// New directories must be watched too.
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.watcher.Add(event.Name)
					continue
				}
			}

			if !w.relevant(event) {
				continue
			}
			lastEvent = time.Now()
			dirty = true

		case _, ok := <-ticker.C:
			if !ok {
				return
			}
			if dirty && time.Since(lastEvent) >= w.debounce {
				dirty = false
				w.emit()
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal; the next trigger re-scans anyway.
		}
	}
}

// relevant reports whether an event should schedule a re-consolidation:
// a write, create, remove, or rename of a spreadsheet file. Lock files
// and other extensions are noise.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	return scan.IsSpreadsheet(filepath.Base(event.Name))
}

// emit delivers a trigger without blocking; a pending trigger already
// covers any newer changes.
func (w *Watcher) emit() {
	select {
	case w.triggers <- struct{}{}:
	default:
	}
}
