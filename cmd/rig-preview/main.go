// Command rig-preview renders one pose of an animation document to a webp or png image
// without opening a window.
package main

import (
	"context"
	"flag"
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-rig/engine/clock"
	"github.com/Carmen-Shannon/oxy-rig/engine/config"
	"github.com/Carmen-Shannon/oxy-rig/engine/document"
	"github.com/Carmen-Shannon/oxy-rig/engine/keyframe"
	"github.com/Carmen-Shannon/oxy-rig/engine/loader"
	"github.com/Carmen-Shannon/oxy-rig/engine/preview"
	"github.com/Carmen-Shannon/oxy-rig/engine/rig"
	"github.com/Carmen-Shannon/oxy-rig/engine/scene"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "config file")
	docPath := flag.String("doc", "", "animation document, overrides document.path")
	assetsDir := flag.String("assets", "", "mesh directory, overrides assets.dir")
	at := flag.Float64("t", 0, "normalized time, clamped to [0,1)")
	out := flag.String("o", "", "output file, the extension picks the format (default preview.<format>)")
	ids := flag.Bool("ids", false, "render the identifier pass instead of the lit pass")
	thumb := flag.Int("thumb", 0, "also scale the result so its longer side is this many pixels")
	selected := flag.String("select", "", "part to tint as selected")
	flag.Parse()

	cfg, err := config.Load(*configPath, config.Flags{DocumentPath: *docPath, AssetsDir: *assetsDir})
	if err != nil {
		log.Fatalf("[Config] %v", err)
	}

	meshes, err := loader.NewLoader(loader.WithWorkers(cfg.Engine.LoadWorkers)).LoadAll(context.Background(), cfg.Assets.Dir)
	if err != nil {
		log.Fatalf("[Preview] failed to load meshes: %v", err)
	}

	doc, err := document.Load(cfg.Document.Path)
	if err != nil {
		log.Fatalf("[Preview] %v", err)
	}
	store := keyframe.NewStore()
	store.Replace(doc.Keyframes)

	clk := clock.New()
	clk.SetDuration(doc.Duration)
	clk.Seek(float32(*at))

	part := rig.None
	if *selected != "" {
		p, err := rig.ParsePart(*selected)
		if err != nil {
			log.Fatalf("[Preview] %v", err)
		}
		part = p
	}

	img, err := preview.Render(preview.Options{
		Evaluator:   scene.NewEvaluator(scene.WithSampler(store)),
		Meshes:      meshes,
		Time:        clk.Time(),
		Width:       cfg.Preview.Width,
		Height:      cfg.Preview.Height,
		Supersample: cfg.Preview.Supersample,
		Selected:    part,
		Identifiers: *ids,
	})
	if err != nil {
		log.Fatalf("[Preview] %v", err)
	}

	format := cfg.Preview.Format
	path := *out
	if path == "" {
		path = "preview." + format
	} else if ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."); ext == "png" || ext == "webp" {
		format = ext
	}

	var result image.Image = img
	if *thumb > 0 {
		result = preview.Thumbnail(img, *thumb)
	}

	f, err := os.Create(path)
	if err != nil {
		log.Fatalf("[Preview] %v", err)
	}
	if err := preview.Encode(f, result, format); err != nil {
		f.Close()
		log.Fatalf("[Preview] %v", err)
	}
	if err := f.Close(); err != nil {
		log.Fatalf("[Preview] %v", err)
	}
	log.Printf("[Preview] wrote %s (t=%.3f, %dx%d)", path, clk.Time(), result.Bounds().Dx(), result.Bounds().Dy())
}
