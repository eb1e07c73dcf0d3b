package editor

import (
	"github.com/Carmen-Shannon/oxy-rig/engine/camera"
	"github.com/Carmen-Shannon/oxy-rig/engine/clock"
	"github.com/Carmen-Shannon/oxy-rig/engine/keyframe"
	"github.com/Carmen-Shannon/oxy-rig/engine/picking"
)

// EditorBuilderOption is a functional option applied by NewEditor.
type EditorBuilderOption func(*Editor)

// WithStore starts the editor from an existing keyframe store.
//
// Parameters:
//   - s: the store to edit
//
// Returns:
//   - EditorBuilderOption: option function to apply
func WithStore(s *keyframe.Store) EditorBuilderOption {
	return func(e *Editor) {
		if s != nil {
			e.store = s
		}
	}
}

// WithClock uses an existing animation clock.
func WithClock(c *clock.Clock) EditorBuilderOption {
	return func(e *Editor) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithCamera uses a caller configured camera. It must carry a CameraController.
//
// Parameters:
//   - c: the camera
//
// Returns:
//   - EditorBuilderOption: option function to apply
func WithCamera(c camera.Camera) EditorBuilderOption {
	return func(e *Editor) {
		e.camera = c
	}
}

// WithResolver sets the picking resolver clicks are resolved through. Without one, clicks on
// the scene do nothing.
func WithResolver(r picking.Resolver) EditorBuilderOption {
	return func(e *Editor) {
		e.resolver = r
	}
}

// WithViewport sets the initial viewport size in pixels.
func WithViewport(width, height int) EditorBuilderOption {
	return func(e *Editor) {
		if width > 0 && height > 0 {
			e.width, e.height = width, height
		}
	}
}

// WithDocumentPath sets the file Ctrl+S and Ctrl+O save to and load from.
func WithDocumentPath(path string) EditorBuilderOption {
	return func(e *Editor) {
		e.documentPath = path
	}
}

// WithQueueSize sets the command buffer length.
func WithQueueSize(n int) EditorBuilderOption {
	return func(e *Editor) {
		if n > 0 {
			e.queueSize = n
		}
	}
}
