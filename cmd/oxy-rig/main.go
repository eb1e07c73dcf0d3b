// Command oxy-rig is the interactive keyframe editor for the robot rig.
package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log"
	"os"

	"github.com/Carmen-Shannon/oxy-rig/engine"
	"github.com/Carmen-Shannon/oxy-rig/engine/clock"
	"github.com/Carmen-Shannon/oxy-rig/engine/config"
	"github.com/Carmen-Shannon/oxy-rig/engine/editor"
	"github.com/Carmen-Shannon/oxy-rig/engine/loader"
	"github.com/Carmen-Shannon/oxy-rig/engine/picking"
	"github.com/Carmen-Shannon/oxy-rig/engine/renderer"
	"github.com/Carmen-Shannon/oxy-rig/engine/window"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "config file")
	docPath := flag.String("doc", "", "animation document, overrides document.path")
	assetsDir := flag.String("assets", "", "mesh directory, overrides assets.dir")
	writeConfig := flag.Bool("write-config", false, "write the resolved config back to -config and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath, config.Flags{DocumentPath: *docPath, AssetsDir: *assetsDir})
	if err != nil {
		log.Fatalf("[Config] %v", err)
	}
	if *writeConfig {
		if err := cfg.Save(*configPath); err != nil {
			log.Fatalf("[Main] %v", err)
		}
		return
	}

	meshes, err := loader.NewLoader(loader.WithWorkers(cfg.Engine.LoadWorkers)).LoadAll(context.Background(), cfg.Assets.Dir)
	if err != nil {
		log.Fatalf("[Main] failed to load meshes: %v", err)
	}

	// ── Window + Renderer ───────────────────────────────────────────────
	win := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
		window.WithMinSize(cfg.Window.MinWidth, cfg.Window.MinHeight),
		window.WithMaxSize(cfg.Window.MaxWidth, cfg.Window.MaxHeight),
	)

	msaa := renderer.MSAA4x
	if cfg.Render.MSAA == 1 {
		msaa = renderer.MSAAOff
	}
	present := renderer.PresentModeVSync
	if !*cfg.Render.VSync {
		present = renderer.PresentModeUncapped
	}
	r := renderer.NewRenderer(
		renderer.BackendTypeWGPU,
		win,
		renderer.WithMSAA(msaa),
		renderer.WithPresentMode(present),
		renderer.WithClearColor(renderer.DefaultClearColor),
	)

	rr := renderer.NewRigRenderer(r)
	if err := rr.Init(meshes); err != nil {
		log.Fatalf("[Main] failed to initialize rig renderer: %v", err)
	}

	// ── Editor ──────────────────────────────────────────────────────────
	clk := clock.New()
	if !clk.SetDuration(cfg.AnimationDuration()) {
		log.Printf("[Main] ignoring animation duration %v", cfg.AnimationDuration())
	}
	ed := editor.NewEditor(
		editor.WithClock(clk),
		editor.WithResolver(picking.NewResolver(rr.IdentifierTarget())),
		editor.WithViewport(win.Width(), win.Height()),
		editor.WithDocumentPath(cfg.Document.Path),
	)
	if _, err := os.Stat(cfg.Document.Path); err == nil {
		if err := ed.LoadDocument(""); err != nil {
			log.Printf("[Main] %v", err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		log.Printf("[Main] %v", err)
	}
	if cfg.Document.Watch {
		if err := ed.WatchDocument(); err != nil {
			log.Printf("[Main] hot reload disabled: %v", err)
		}
	}

	// ── Engine ──────────────────────────────────────────────────────────
	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithEditor(ed),
		engine.WithRenderer(r, rr),
		engine.WithTickRate(float64(cfg.Engine.TickRate)),
		engine.WithProfiling(cfg.Engine.Profiling),
		engine.WithRenderFrameLimit(float64(cfg.Render.FrameLimit)),
	)

	eng.Run()

	if err := ed.Close(); err != nil {
		log.Printf("[Main] %v", err)
	}
	rr.Release()
	r.Release()
	if err := win.Close(); err != nil {
		log.Printf("[Main] %v", err)
	}
}
