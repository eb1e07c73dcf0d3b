package engine

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/editor"
	"github.com/Carmen-Shannon/oxy-rig/engine/profiler"
	"github.com/Carmen-Shannon/oxy-rig/engine/renderer"
	"github.com/Carmen-Shannon/oxy-rig/engine/window"
)

// engine implements the Engine interface.
// Coordinates engine, render, and window threads.
type engine struct {
	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates
	resizeChannel   chan [2]int        // Latest pending surface size

	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once
	quitCtx     context.Context
	cancel      context.CancelFunc

	window      window.Window
	editor      *editor.Editor
	renderer    renderer.Renderer
	rigRenderer renderer.RigRenderer

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate time.Duration
	renderCallback func(deltaTime float32)

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Engine is the main entry point for the editor.
// It runs the clock tick loop and the render loop and forwards window input to the editor.
//
// Threading: window callbacks run on the main thread and only enqueue editor commands. The tick
// goroutine only enqueues clock ticks. The render goroutine owns the editor: it drains the
// command queue, then draws.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Editor returns the editor driven by this engine.
	Editor() *editor.Editor

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the clock tick rate in ticks per second.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetRenderCallback registers a function called on the render goroutine after each frame.
	//
	// Parameters:
	//   - callback: function to call each render frame, receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run starts the engine loops and processes window messages (blocks until the window closes).
	Run()

	// Quit signals all engine goroutines to stop. The window is left open; close it after Run returns.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options and wires the window input
// callbacks to the editor's command queue.
//
// Parameters:
//   - options: functional options for engine configuration (window, editor, renderer, tick rate)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		tickRateChannel:  make(chan time.Duration, 1),
		resizeChannel:    make(chan [2]int, 1),
		quitChannel:      make(chan struct{}),
		running:          false,
		wg:               sync.WaitGroup{},
		profiler:         profiler.NewProfiler(),
		profilingEnabled: false,
		engineTickRate:   time.Second / 60,
	}

	e.quitCtx, e.cancel = context.WithCancel(context.Background())

	for _, opt := range options {
		opt(e)
	}

	if e.editor == nil {
		e.editor = editor.NewEditor()
	}
	if e.window != nil {
		e.bindWindow()
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Editor() *editor.Editor {
	return e.editor
}

func (e *engine) Run() {
	e.running = true
	e.handle()
	e.window.ProcessMessages()
	e.signalQuit()
	e.wg.Wait()
}

// Quit signals all engine goroutines to stop and shuts down the engine.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.running = false
		e.cancel()
		close(e.quitChannel)
	})
}

// send queues an input command. Once the engine is shutting down commands are dropped so the
// main thread never blocks on a queue nobody drains.
func (e *engine) send(cmd editor.Command) {
	_ = e.editor.Send(e.quitCtx, cmd)
}

// bindWindow forwards window events to the editor. Every callback runs on the main thread
// and must not touch editor state directly.
func (e *engine) bindWindow() {
	w := e.window
	ed := e.editor

	w.SetResizeCallback(func(width, height int) {
		if width <= 0 || height <= 0 {
			return
		}
		// latest size wins
		select {
		case <-e.resizeChannel:
		default:
		}
		e.resizeChannel <- [2]int{width, height}
		e.send(editor.Resize(width, height))
	})
	w.SetScrollCallback(func(delta float32) {
		e.send(editor.Scroll(delta))
	})
	w.SetKeyDownCallback(func(keyCode uint32) {
		e.send(editor.KeyDown(keyCode))
	})
	w.SetKeyUpCallback(func(keyCode uint32) {
		e.send(editor.KeyUp(keyCode))
	})
	w.SetMouseDownCallback(func(button common.MouseButton, x, y int32, mods uint32) {
		e.send(editor.PointerDown(button, float32(x), float32(y), mods))
	})
	w.SetMouseUpCallback(func(button common.MouseButton, x, y int32, mods uint32) {
		e.send(editor.PointerUp(button, float32(x), float32(y), mods))
	})
	w.SetMouseMoveCallback(func(x, y int32) {
		ed.TryEnqueue(editor.PointerMove(float32(x), float32(y)))
	})
	w.SetUpdateCallback(func() {
		w.SetTitle(ed.Title())
	})

	e.send(editor.Resize(w.Width(), w.Height()))
}

// handle launches the engine, render, and quit goroutines.
// Each goroutine is tracked by the engine's WaitGroup.
func (e *engine) handle() {
	e.wg.Add(3)
	go e.handleEngine()
	go e.handleRender()
	go e.handleQuit()
}

// handleEngine runs the fixed-rate clock tick loop in its own goroutine.
// Ticks that do not fit in the command queue are carried into the next one so playback time is
// never lost. Exits when the quit channel is closed.
func (e *engine) handleEngine() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()
	var pending time.Duration

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			pending += now.Sub(lastTick)
			lastTick = now

			if e.editor.TryEnqueue(editor.Tick(pending)) {
				pending = 0
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		}
	}
}

// handleRender runs the uncapped (or frame-limited) render loop in its own goroutine.
// Each frame applies a pending surface resize, drains the editor's commands and draws.
// Recovers from panics to avoid crashing the process and signals quit on recovery.
func (e *engine) handleRender() {
	defer e.wg.Done()
	// Recover from panics inside the render goroutine to avoid crashing the whole process.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Engine] render goroutine recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	lastRender := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
			now := time.Now()
			dt := float32(now.Sub(lastRender).Seconds())
			lastRender = now

			select {
			case size := <-e.resizeChannel:
				if e.renderer != nil {
					e.renderer.Resize(size[0], size[1])
				}
			default:
			}

			commands := e.editor.Drain()

			if e.rigRenderer != nil {
				v := e.editor.View()
				if err := e.rigRenderer.Render(renderer.Frame{
					Evaluator:    e.editor.Evaluator(),
					Time:         v.Time,
					Camera:       e.editor.Camera(),
					Selected:     v.Selected,
					GizmoVisible: v.GizmoVisible,
					GizmoAnchor:  v.GizmoAnchor,
					GizmoMode:    v.GizmoMode,
				}); err != nil {
					log.Printf("[Engine] frame skipped: %v", err)
				}
			}

			if e.renderCallback != nil {
				e.renderCallback(dt)
			}

			if e.profilingEnabled && e.profiler != nil {
				e.profiler.Tick(commands)
			}

			// Frame rate limiting
			if e.renderFrameLimit > 0 {
				elapsed := time.Since(lastRender)
				if remaining := e.renderFrameLimit - elapsed; remaining > 0 {
					time.Sleep(remaining)
				}
			}
		}
	}
}

// handleQuit blocks until the quit channel is closed, then decrements the WaitGroup.
func (e *engine) handleQuit() {
	defer e.wg.Done()
	<-e.quitChannel
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetTickRate sets the clock tick rate in ticks per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Duration(float64(time.Second) / fps)

	if e.running {
		// Non-blocking send - if channel is full, replace the pending value
		select {
		case e.tickRateChannel <- newRate:
		default:
			select {
			case <-e.tickRateChannel:
			default:
			}
			e.tickRateChannel <- newRate
		}
	} else {
		e.engineTickRate = newRate
	}
}

// SetRenderCallback registers the function called each render frame.
func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}
