package editor

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/Carmen-Shannon/oxy-rig/engine/document"
)

// ErrNoDocumentPath is returned by save and load when no document path is configured.
var ErrNoDocumentPath = errors.New("editor: no document path")

// DocumentPath returns the file the editor saves to and loads from.
func (e *Editor) DocumentPath() string { return e.documentPath }

// LoadDocument replaces the animation with the document at path. The selection is cleared, the
// gizmo hidden and the clock reset. On error nothing changes.
//
// Parameters:
//   - path: the document to read; empty means the configured document path
//
// Returns:
//   - error: a read or decode failure
func (e *Editor) LoadDocument(path string) error {
	if path == "" {
		path = e.documentPath
	}
	if path == "" {
		return ErrNoDocumentPath
	}
	doc, err := document.Load(path)
	if err != nil {
		return err
	}
	e.apply(doc)
	return nil
}

// SaveDocument writes the animation to path.
//
// Parameters:
//   - path: the destination; empty means the configured document path
//
// Returns:
//   - error: an encode or write failure
func (e *Editor) SaveDocument(path string) error {
	if path == "" {
		path = e.documentPath
	}
	if path == "" {
		return ErrNoDocumentPath
	}
	data, err := document.Save(path, &document.Document{
		Duration:  e.clock.Duration(),
		Keyframes: e.store.Snapshot(),
	})
	if err != nil {
		return err
	}
	if path == e.documentPath {
		e.lastSaved = data
	}
	return nil
}

// WatchDocument reloads the configured document whenever it changes on disk. Changes caused by
// the editor's own saves are ignored.
//
// Returns:
//   - error: ErrNoDocumentPath or a watcher setup failure
func (e *Editor) WatchDocument() error {
	if e.documentPath == "" {
		return ErrNoDocumentPath
	}
	if e.watcher != nil {
		return nil
	}
	w, err := document.Watch(e.documentPath)
	if err != nil {
		return fmt.Errorf("failed to watch document: %w", err)
	}
	e.watcher = w
	return nil
}

// Close stops the document watcher.
func (e *Editor) Close() error {
	if e.watcher == nil {
		return nil
	}
	err := e.watcher.Close()
	e.watcher = nil
	return err
}

// --- internal helpers ---

func (e *Editor) apply(doc *document.Document) {
	e.store.Replace(doc.Keyframes)
	e.clock.SetDuration(doc.Duration)
	e.clock.Reset()
	e.ClearSelection()
}

// pollWatcher applies at most one pending reload.
func (e *Editor) pollWatcher() {
	if e.watcher == nil {
		return
	}
	select {
	case <-e.watcher.Changes():
	default:
		return
	}

	data, err := os.ReadFile(e.documentPath)
	if err != nil {
		log.Printf("[Editor] failed to read changed document: %v", err)
		return
	}
	if e.lastSaved != nil && bytes.Equal(data, e.lastSaved) {
		return
	}
	doc, err := document.Decode(data)
	if err != nil {
		log.Printf("[Editor] ignoring changed document %s: %v", e.documentPath, err)
		return
	}
	e.apply(doc)
	log.Printf("[Editor] reloaded %s", e.documentPath)
}
