package editor

import (
	"context"
	"log"
	"time"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/gizmo"
	"github.com/Carmen-Shannon/oxy-rig/engine/keyframe"
)

// CommandKind identifies what a Command carries.
type CommandKind uint8

const (
	CommandPointerDown CommandKind = iota
	CommandPointerMove
	CommandPointerUp
	CommandScroll
	CommandKeyDown
	CommandKeyUp
	CommandResize
	CommandTick
)

// Command is one input event or clock tick queued for the editor's owning goroutine.
type Command struct {
	Kind   CommandKind
	X, Y   float32
	Button common.MouseButton
	Mods   uint32
	Key    uint32
	Delta  float32
	Width  int
	Height int
	DT     time.Duration
}

// PointerDown builds a button press command.
func PointerDown(button common.MouseButton, x, y float32, mods uint32) Command {
	return Command{Kind: CommandPointerDown, Button: button, X: x, Y: y, Mods: mods}
}

// PointerMove builds a cursor move command.
func PointerMove(x, y float32) Command {
	return Command{Kind: CommandPointerMove, X: x, Y: y}
}

// PointerUp builds a button release command.
func PointerUp(button common.MouseButton, x, y float32, mods uint32) Command {
	return Command{Kind: CommandPointerUp, Button: button, X: x, Y: y, Mods: mods}
}

// Scroll builds a wheel command. Positive delta is a scroll up.
func Scroll(delta float32) Command {
	return Command{Kind: CommandScroll, Delta: delta}
}

// KeyDown builds a key press command.
func KeyDown(key uint32) Command {
	return Command{Kind: CommandKeyDown, Key: key}
}

// KeyUp builds a key release command.
func KeyUp(key uint32) Command {
	return Command{Kind: CommandKeyUp, Key: key}
}

// Resize builds a viewport resize command.
func Resize(width, height int) Command {
	return Command{Kind: CommandResize, Width: width, Height: height}
}

// Tick builds a clock advance command.
func Tick(dt time.Duration) Command {
	return Command{Kind: CommandTick, DT: dt}
}

// Enqueue queues a command, blocking while the buffer is full. Safe from any goroutine.
func (e *Editor) Enqueue(cmd Command) {
	e.queue <- cmd
}

// Send queues a command, blocking while the buffer is full until ctx is done. Safe from any
// goroutine.
//
// Returns:
//   - error: ctx.Err() when the command was not queued
func (e *Editor) Send(ctx context.Context, cmd Command) error {
	select {
	case e.queue <- cmd:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryEnqueue queues a command unless the buffer is full.
//
// Returns:
//   - bool: false when the command was not queued
func (e *Editor) TryEnqueue(cmd Command) bool {
	select {
	case e.queue <- cmd:
		return true
	default:
		return false
	}
}

// Drain applies every queued command in order, then any pending document reload, then
// refreshes the gizmo anchor and the title. Must be called from the owning goroutine.
//
// Returns:
//   - int: the number of commands applied
func (e *Editor) Drain() int {
	n := 0
	for {
		select {
		case cmd := <-e.queue:
			e.Apply(cmd)
			n++
		default:
			e.pollWatcher()
			e.refreshGizmo()
			e.updateTitle()
			return n
		}
	}
}

// Apply executes one command immediately.
func (e *Editor) Apply(cmd Command) {
	switch cmd.Kind {
	case CommandPointerDown:
		e.pointerDown(cmd.Button, cmd.X, cmd.Y, cmd.Mods)
	case CommandPointerMove:
		e.pointerMove(cmd.X, cmd.Y)
	case CommandPointerUp:
		e.pointerUp(cmd.Button, cmd.X, cmd.Y, cmd.Mods)
	case CommandScroll:
		e.scroll(cmd.Delta)
	case CommandKeyDown:
		e.keyDown(cmd.Key)
	case CommandKeyUp:
		e.keyUp(cmd.Key)
	case CommandResize:
		e.Resize(cmd.Width, cmd.Height)
	case CommandTick:
		e.clock.Advance(cmd.DT)
	}
}

// --- internal helpers ---

func (e *Editor) pointerDown(button common.MouseButton, x, y float32, mods uint32) {
	p := &e.pointer
	p.lastX, p.lastY = x, y

	switch button {
	case common.MouseButtonMiddle:
		p.middle = true
		p.panning = true
		return
	case common.MouseButtonLeft:
	default:
		return
	}

	p.left = true
	p.hasMoved = false

	if !e.clock.Playing() && e.gizmo.Visible() && e.gizmo.Begin(e.viewport(), x, y) {
		return
	}
	if mods&(common.ModShift|common.ModControl) != 0 || e.space {
		p.panning = true
	} else {
		p.orbiting = true
	}
}

func (e *Editor) pointerMove(x, y float32) {
	p := &e.pointer
	dx, dy := x-p.lastX, y-p.lastY
	p.lastX, p.lastY = x, y
	if dx == 0 && dy == 0 {
		return
	}

	switch {
	case e.gizmo.Dragging():
		p.hasMoved = true
		e.dragGizmo(x, y)
	case p.panning:
		p.hasMoved = true
		e.camera.Controller().Pan(dx, dy)
		e.camera.Update()
	case p.orbiting:
		p.hasMoved = true
		e.camera.Controller().Orbit(dx, dy)
		e.camera.Update()
	}
}

func (e *Editor) pointerUp(button common.MouseButton, x, y float32, mods uint32) {
	p := &e.pointer
	if button == common.MouseButtonMiddle {
		p.middle = false
		p.panning = p.left && p.panning
		return
	}
	if button != common.MouseButtonLeft || !p.left {
		return
	}

	wasGizmo := e.gizmo.Dragging()
	click := !p.hasMoved && !wasGizmo
	e.gizmo.End()
	p.left, p.orbiting = false, false
	p.panning = p.middle

	if !click || e.clock.Playing() {
		return
	}
	if mods&common.ModShift != 0 && e.gizmo.Visible() {
		e.gizmo.ToggleMode()
		return
	}
	e.Pick(int(x), int(y))
}

func (e *Editor) dragGizmo(x, y float32) {
	if e.selection == nil {
		e.gizmo.End()
		return
	}
	k, ok := e.store.Get(e.selection.Part, e.selection.Index)
	if !ok {
		return
	}
	pose, changed := e.gizmo.Drag(x, y, k.Pose())
	if !changed {
		return
	}
	e.store.SetPose(e.selection.Part, e.selection.Index, pose)
	e.refreshGizmo()
}

// scroll follows the browser convention the zoom steps were tuned for: wheel down moves away.
func (e *Editor) scroll(delta float32) {
	if delta == 0 {
		return
	}
	e.camera.Controller().Zoom(-delta)
	e.camera.Update()
}

func (e *Editor) keyDown(key uint32) {
	switch key {
	case common.KeyLeftShift, common.KeyRightShift:
		e.shift = true
		return
	case common.KeyLeftControl, common.KeyRightControl:
		e.ctrl = true
		return
	case common.KeySpace:
		e.space = true
		return
	}

	if e.ctrl {
		switch key {
		case common.KeyS:
			if err := e.SaveDocument(""); err != nil {
				log.Printf("[Editor] save failed: %v", err)
			} else {
				log.Printf("[Editor] saved %s", e.documentPath)
			}
		case common.KeyO:
			if err := e.LoadDocument(""); err != nil {
				log.Printf("[Editor] load failed: %v", err)
			} else {
				log.Printf("[Editor] loaded %s", e.documentPath)
			}
		}
		return
	}

	step := SeekStep
	if e.shift {
		step = SeekStepLarge
	}

	switch key {
	case common.KeyDelete, common.KeyBackspace:
		e.DeleteSelected()
	case common.KeyG:
		if e.gizmo.Visible() && !e.clock.Playing() {
			e.gizmo.ToggleMode()
		}
	case common.KeyT:
		if e.gizmo.Visible() && !e.clock.Playing() {
			e.gizmo.SetMode(gizmo.Translate)
		}
	case common.KeyR:
		if e.gizmo.Visible() && !e.clock.Playing() {
			e.gizmo.SetMode(gizmo.Rotate)
		}
	case common.KeyP:
		e.TogglePlay()
	case common.KeyHome:
		e.ResetClock()
	case common.KeyLeft:
		e.Seek(e.clock.Time() - step)
	case common.KeyRight:
		e.Seek(e.clock.Time() + step)
	case common.KeyComma:
		e.SelectAdjacent(-1)
	case common.KeyPeriod:
		e.SelectAdjacent(1)
	case common.Key1:
		e.ResetTransform(keyframe.Translation)
	case common.Key2:
		e.ResetTransform(keyframe.Rotation)
	}
}

func (e *Editor) keyUp(key uint32) {
	switch key {
	case common.KeyLeftShift, common.KeyRightShift:
		e.shift = false
	case common.KeyLeftControl, common.KeyRightControl:
		e.ctrl = false
	case common.KeySpace:
		e.space = false
	}
}
