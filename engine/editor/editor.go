// Package editor holds the state of one editing session and applies input to it.
//
// The Editor is owned by a single goroutine, the render loop. Other goroutines never touch it
// directly: they Enqueue commands, and the owner applies them in order with Drain before it
// evaluates and draws the next frame.
package editor

import (
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/camera"
	"github.com/Carmen-Shannon/oxy-rig/engine/clock"
	"github.com/Carmen-Shannon/oxy-rig/engine/document"
	"github.com/Carmen-Shannon/oxy-rig/engine/gizmo"
	"github.com/Carmen-Shannon/oxy-rig/engine/keyframe"
	"github.com/Carmen-Shannon/oxy-rig/engine/picking"
	"github.com/Carmen-Shannon/oxy-rig/engine/rig"
	"github.com/Carmen-Shannon/oxy-rig/engine/scene"
)

const (
	// DefaultQueueSize is the command buffer length.
	DefaultQueueSize = 256

	// SeekStep and SeekStepLarge are the keyboard timeline steps.
	SeekStep      float32 = 0.01
	SeekStepLarge float32 = 0.1
)

// Selection names one keyframe of one part.
type Selection struct {
	Part  rig.Part
	Index int
}

// View is what the renderer needs from the editor for one frame.
type View struct {
	Time         float32
	Selected     rig.Part
	GizmoVisible bool
	GizmoAnchor  common.Vec3
	GizmoMode    gizmo.Mode
}

// pointer tracks the button state between pointer commands.
type pointer struct {
	left, middle bool
	orbiting     bool
	panning      bool
	hasMoved     bool
	lastX, lastY float32
}

// Editor is the editing session: keyframes, clock, camera, selection and gizmo.
type Editor struct {
	store     *keyframe.Store
	clock     *clock.Clock
	evaluator scene.Evaluator
	gizmo     gizmo.Controller
	camera    camera.Camera
	resolver  picking.Resolver

	width, height int

	selection *Selection
	pointer   pointer
	shift     bool
	ctrl      bool
	space     bool

	documentPath string
	lastSaved    []byte
	watcher      document.Watcher

	queueSize int
	queue     chan Command

	title atomic.Pointer[string]
}

// NewEditor creates an editor with an empty keyframe store, a paused clock and an orbit camera.
//
// Parameters:
//   - options: functional options to configure the editor
//
// Returns:
//   - *Editor: the editor
func NewEditor(options ...EditorBuilderOption) *Editor {
	e := &Editor{
		store:     keyframe.NewStore(),
		clock:     clock.New(),
		gizmo:     gizmo.NewController(),
		width:     1280,
		height:    720,
		queueSize: DefaultQueueSize,
	}
	for _, opt := range options {
		opt(e)
	}

	if e.camera == nil {
		e.camera = camera.NewCamera(camera.WithController(camera.NewCameraController()))
	}
	e.camera.SetAspect(float32(e.width) / float32(e.height))
	e.camera.Update()
	e.evaluator = scene.NewEvaluator(scene.WithSampler(e.store))
	e.queue = make(chan Command, e.queueSize)
	e.updateTitle()
	return e
}

// Store returns the keyframe store.
func (e *Editor) Store() *keyframe.Store { return e.store }

// Clock returns the animation clock.
func (e *Editor) Clock() *clock.Clock { return e.clock }

// Evaluator returns the scene evaluator sampling the store.
func (e *Editor) Evaluator() scene.Evaluator { return e.evaluator }

// Gizmo returns the gizmo controller.
func (e *Editor) Gizmo() gizmo.Controller { return e.gizmo }

// Camera returns the editor camera.
func (e *Editor) Camera() camera.Camera { return e.camera }

// Selection returns the selected keyframe, if any.
func (e *Editor) Selection() (Selection, bool) {
	if e.selection == nil {
		return Selection{Part: rig.None, Index: -1}, false
	}
	return *e.selection, true
}

// Size returns the viewport size in pixels.
func (e *Editor) Size() (int, int) { return e.width, e.height }

// View returns the per-frame render state.
func (e *Editor) View() View {
	v := View{
		Time:         e.clock.Time(),
		Selected:     rig.None,
		GizmoVisible: e.gizmo.Visible(),
		GizmoAnchor:  e.gizmo.Anchor(),
		GizmoMode:    e.gizmo.Mode(),
	}
	if e.selection != nil {
		v.Selected = e.selection.Part
	}
	return v
}

// Title returns the status line for the window title. Safe to call from any goroutine.
func (e *Editor) Title() string {
	if t := e.title.Load(); t != nil {
		return *t
	}
	return ""
}

// AddKeyframe keys a part at time t with its currently interpolated pose and selects the new
// keyframe. When a keyframe already lies within keyframe.DedupThreshold of t, that one is
// selected instead.
//
// Parameters:
//   - part: the part to key
//   - t: normalized time
//
// Returns:
//   - int: index of the selected keyframe, or -1 when editing is locked or part is invalid
//   - bool: true when a keyframe was created
func (e *Editor) AddKeyframe(part rig.Part, t float32) (int, bool) {
	if e.clock.Playing() || !part.Valid() {
		return -1, false
	}
	i, created := e.store.Insert(part, t, e.store.Sample(part, t))
	e.SelectKeyframe(part, i)
	return i, created
}

// SelectKeyframe selects a keyframe, seeks the clock to its time and shows the gizmo on the part.
//
// Returns:
//   - bool: false when the keyframe does not exist or editing is locked
func (e *Editor) SelectKeyframe(part rig.Part, i int) bool {
	if e.clock.Playing() {
		return false
	}
	k, ok := e.store.Get(part, i)
	if !ok {
		return false
	}
	e.selection = &Selection{Part: part, Index: i}
	e.clock.Seek(k.Time)
	e.gizmo.Show(e.anchor())
	return true
}

// SelectAdjacent moves the selection to the previous (step < 0) or next keyframe of the
// selected part, wrapping around.
func (e *Editor) SelectAdjacent(step int) bool {
	if e.selection == nil || step == 0 {
		return false
	}
	n := e.store.Len(e.selection.Part)
	if n == 0 {
		return false
	}
	i := ((e.selection.Index+step)%n + n) % n
	return e.SelectKeyframe(e.selection.Part, i)
}

// ClearSelection drops the selection and hides the gizmo.
func (e *Editor) ClearSelection() {
	e.selection = nil
	e.gizmo.End()
	e.gizmo.Hide()
}

// DeleteSelected removes the selected keyframe, clears the selection and hides the gizmo.
// Without a selection it does nothing.
func (e *Editor) DeleteSelected() bool {
	if e.selection == nil || e.clock.Playing() {
		return false
	}
	ok := e.store.Delete(e.selection.Part, e.selection.Index)
	e.ClearSelection()
	return ok
}

// UpdateKeyframeValue sets one component of the selected keyframe.
//
// Parameters:
//   - kind: keyframe.Translation or keyframe.Rotation
//   - axis: 0, 1 or 2
//   - v: the new value
//
// Returns:
//   - bool: false without a selection, with a bad axis, or while playing
func (e *Editor) UpdateKeyframeValue(kind keyframe.Kind, axis int, v float32) bool {
	if e.selection == nil || e.clock.Playing() {
		return false
	}
	if !e.store.SetValue(e.selection.Part, e.selection.Index, kind, axis, v) {
		return false
	}
	e.refreshGizmo()
	return true
}

// ResetTransform restores the selected keyframe's translation or rotation to the values it was
// created with.
func (e *Editor) ResetTransform(kind keyframe.Kind) bool {
	if e.selection == nil || e.clock.Playing() {
		return false
	}
	if !e.store.Reset(e.selection.Part, e.selection.Index, kind) {
		return false
	}
	e.refreshGizmo()
	return true
}

// Play starts the clock.
func (e *Editor) Play() {
	e.gizmo.End()
	e.clock.Play()
}

// Pause stops the clock.
func (e *Editor) Pause() { e.clock.Pause() }

// TogglePlay flips between playing and paused.
func (e *Editor) TogglePlay() {
	if e.clock.Playing() {
		e.Pause()
		return
	}
	e.Play()
}

// ResetClock pauses and rewinds to time 0.
func (e *Editor) ResetClock() {
	e.clock.Reset()
	e.refreshGizmo()
}

// Seek moves the playhead. The selection is kept and the gizmo follows the part.
func (e *Editor) Seek(t float32) {
	e.clock.Seek(t)
	e.refreshGizmo()
}

// SetDuration changes the cycle length. Non-positive durations are refused.
func (e *Editor) SetDuration(d time.Duration) bool {
	return e.clock.SetDuration(d)
}

// Resize updates the viewport and the camera aspect. Zero sizes are ignored.
func (e *Editor) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	e.width, e.height = width, height
	e.camera.SetAspect(float32(width) / float32(height))
	e.camera.Update()
}

// Pick resolves the part under the pointer and keys or selects it at the current time.
//
// Parameters:
//   - x, y: pointer position in pixels, origin top-left
//
// Returns:
//   - rig.Part: the hit part or rig.None
//   - bool: true when a part was hit
func (e *Editor) Pick(x, y int) (rig.Part, bool) {
	if e.resolver == nil || e.clock.Playing() {
		return rig.None, false
	}
	part, ok, err := e.resolver.Pick(picking.Frame{
		Evaluator: e.evaluator,
		Time:      e.clock.Time(),
		View:      e.camera.ViewMatrix(),
		Proj:      e.camera.ProjectionMatrix(),
		Width:     e.width,
		Height:    e.height,
	}, x, y)
	if err != nil {
		log.Printf("[Picking] %v", err)
		return rig.None, false
	}
	if !ok {
		return rig.None, false
	}
	e.AddKeyframe(part, e.clock.Time())
	return part, true
}

// --- internal helpers ---

// anchor is the world position of the selected part at the current time.
func (e *Editor) anchor() common.Vec3 {
	if e.selection == nil {
		return common.Vec3{}
	}
	return common.Position(e.evaluator.WorldMatrix(e.selection.Part, e.clock.Time()))
}

func (e *Editor) refreshGizmo() {
	if e.selection == nil {
		return
	}
	if _, ok := e.store.Get(e.selection.Part, e.selection.Index); !ok {
		e.ClearSelection()
		return
	}
	e.gizmo.SetAnchor(e.anchor())
}

func (e *Editor) viewport() gizmo.Viewport {
	return gizmo.Viewport{
		View:   e.camera.ViewMatrix(),
		Proj:   e.camera.ProjectionMatrix(),
		Width:  float32(e.width),
		Height: float32(e.height),
	}
}

func (e *Editor) updateTitle() {
	state := "paused"
	if e.clock.Playing() {
		state = "playing"
	}
	sel := "none"
	if e.selection != nil {
		sel = fmt.Sprintf("%s #%d", e.selection.Part, e.selection.Index)
	}
	t := fmt.Sprintf("oxy-rig | t=%.3f / %.1fs %s | selected: %s | gizmo: %s",
		e.clock.Time(), e.clock.Duration().Seconds(), state, sel, e.gizmo.Mode())
	e.title.Store(&t)
}
