package document

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports when a document file changes on disk. Bursts of events are coalesced, so a
// receiver that is slow to drain sees one pending change rather than a backlog.
type Watcher interface {
	// Changes returns the channel a value is sent on after the file was written, created or
	// renamed into place.
	Changes() <-chan struct{}

	// Close stops watching and closes the Changes channel.
	Close() error
}

type watcher struct {
	path    string
	fs      *fsnotify.Watcher
	changes chan struct{}
	done    chan struct{}
	once    *sync.Once
}

var _ Watcher = &watcher{}

// Watch starts watching path. The containing directory is watched so that saves performed by
// rename, including Save, are seen.
//
// Parameters:
//   - path: the document file
//
// Returns:
//   - Watcher: the running watcher
//   - error: the directory could not be watched
func Watch(path string) (Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	w := &watcher{
		path:    abs,
		fs:      fw,
		changes: make(chan struct{}, 1),
		done:    make(chan struct{}),
		once:    &sync.Once{},
	}
	go w.run()
	return w, nil
}

func (w *watcher) Changes() <-chan struct{} {
	return w.changes
}

func (w *watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fs.Close()
	})
	return err
}

// --- internal helpers ---

func (w *watcher) run() {
	defer close(w.changes)
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			select {
			case w.changes <- struct{}{}:
			default:
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Printf("[Document] watch %s: %v", w.path, err)
		}
	}
}
