// Package config loads the editor and preview settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
)

// DefaultPath is the config file used when no -config flag is given.
const DefaultPath = "~/.config/oxy-rig/config.toml"

// Config holds every setting. Zero values are replaced by defaults in Resolve.
type Config struct {
	Window    Window    `toml:"window"`
	Assets    Assets    `toml:"assets"`
	Document  Document  `toml:"document"`
	Animation Animation `toml:"animation"`
	Render    Render    `toml:"render"`
	Engine    Engine    `toml:"engine"`
	Preview   Preview   `toml:"preview"`
}

type Window struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`

	// Resize limits; zero max values leave the size unbounded.
	MinWidth  int `toml:"min_width"`
	MinHeight int `toml:"min_height"`
	MaxWidth  int `toml:"max_width"`
	MaxHeight int `toml:"max_height"`
}

type Assets struct {
	// Dir holds body, head, upper_leg and lower_leg meshes in .obj, .gltf or .glb form.
	Dir string `toml:"dir"`
}

type Document struct {
	Path  string `toml:"path"`
	Watch bool   `toml:"watch"`
}

type Animation struct {
	// Duration of one cycle in seconds, used until a document sets its own.
	Duration float64 `toml:"duration"`
}

type Render struct {
	// MSAA is 1 (off) or 4.
	MSAA       int   `toml:"msaa"`
	VSync      *bool `toml:"vsync"`
	FrameLimit int   `toml:"frame_limit"`
}

type Engine struct {
	TickRate    int  `toml:"tick_rate"`
	Profiling   bool `toml:"profiling"`
	LoadWorkers int  `toml:"load_workers"`
}

type Preview struct {
	Width       int    `toml:"width"`
	Height      int    `toml:"height"`
	Supersample int    `toml:"supersample"`
	Format      string `toml:"format"`
}

// Flags holds command line values that override the file.
type Flags struct {
	DocumentPath string
	AssetsDir    string
}

// Default returns a fully resolved config with no file applied.
func Default() Config {
	var c Config
	if err := c.Resolve(Flags{}); err != nil {
		// Only path expansion can fail and the defaults are relative.
		panic(err)
	}
	return c
}

// Load reads the TOML file at path and resolves it. A missing file is not an error and yields
// the defaults; a malformed file is.
//
// Parameters:
//   - path: the config file, "~" is expanded
//   - flags: command line overrides
//
// Returns:
//   - Config: the resolved config
//   - error: a read, parse or validation failure
func Load(path string, flags Flags) (Config, error) {
	var cfg Config
	expanded, err := homedir.Expand(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: expand %s: %w", path, err)
	}

	data, err := os.ReadFile(expanded)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("config: read %s: %w", expanded, err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", expanded, err)
		}
	}

	if err := cfg.Resolve(flags); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes the config as TOML, creating the parent directory.
//
// Parameters:
//   - path: the destination, "~" is expanded
//
// Returns:
//   - error: an expand, marshal or write failure
func (c Config) Save(path string) error {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return fmt.Errorf("config: expand %s: %w", path, err)
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("config: mkdir: %w", err)
	}
	if err := os.WriteFile(expanded, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", expanded, err)
	}
	return nil
}

// Resolve applies flags, fills defaults and expands paths.
//
// Parameters:
//   - flags: command line overrides, empty fields are ignored
//
// Returns:
//   - error: an invalid value or a path that cannot be expanded
func (c *Config) Resolve(flags Flags) error {
	if flags.DocumentPath != "" {
		c.Document.Path = flags.DocumentPath
	}
	if flags.AssetsDir != "" {
		c.Assets.Dir = flags.AssetsDir
	}

	if c.Window.Title == "" {
		c.Window.Title = "oxy-rig"
	}
	if c.Window.Width <= 0 {
		c.Window.Width = 1280
	}
	if c.Window.Height <= 0 {
		c.Window.Height = 720
	}
	if c.Window.MinWidth <= 0 {
		c.Window.MinWidth = 640
	}
	if c.Window.MinHeight <= 0 {
		c.Window.MinHeight = 360
	}
	if c.Window.MaxWidth < 0 || c.Window.MaxHeight < 0 {
		return fmt.Errorf("config: window max size must not be negative, got %dx%d", c.Window.MaxWidth, c.Window.MaxHeight)
	}
	if (c.Window.MaxWidth > 0 && c.Window.MaxWidth < c.Window.MinWidth) || (c.Window.MaxHeight > 0 && c.Window.MaxHeight < c.Window.MinHeight) {
		return fmt.Errorf("config: window max size %dx%d is below the min size %dx%d",
			c.Window.MaxWidth, c.Window.MaxHeight, c.Window.MinWidth, c.Window.MinHeight)
	}
	if c.Assets.Dir == "" {
		c.Assets.Dir = "assets"
	}
	if c.Document.Path == "" {
		c.Document.Path = "robot_animation.json"
	}
	if c.Animation.Duration == 0 {
		c.Animation.Duration = 5
	}
	if c.Animation.Duration < 0 {
		return fmt.Errorf("config: animation.duration must be positive, got %v", c.Animation.Duration)
	}
	switch c.Render.MSAA {
	case 0:
		c.Render.MSAA = 4
	case 1, 4:
	default:
		return fmt.Errorf("config: render.msaa must be 1 or 4, got %d", c.Render.MSAA)
	}
	if c.Render.VSync == nil {
		on := true
		c.Render.VSync = &on
	}
	if c.Engine.TickRate <= 0 {
		c.Engine.TickRate = 60
	}
	if c.Engine.LoadWorkers <= 0 {
		c.Engine.LoadWorkers = min(runtime.NumCPU(), 4)
	}
	if c.Preview.Width <= 0 {
		c.Preview.Width = 512
	}
	if c.Preview.Height <= 0 {
		c.Preview.Height = 512
	}
	if c.Preview.Supersample <= 0 {
		c.Preview.Supersample = 2
	}
	c.Preview.Format = strings.ToLower(c.Preview.Format)
	switch c.Preview.Format {
	case "":
		c.Preview.Format = "webp"
	case "webp", "png":
	default:
		return fmt.Errorf("config: preview.format must be webp or png, got %q", c.Preview.Format)
	}

	var err error
	if c.Assets.Dir, err = homedir.Expand(c.Assets.Dir); err != nil {
		return fmt.Errorf("config: expand assets.dir: %w", err)
	}
	if c.Document.Path, err = homedir.Expand(c.Document.Path); err != nil {
		return fmt.Errorf("config: expand document.path: %w", err)
	}
	return nil
}

// AnimationDuration returns the configured cycle length.
func (c Config) AnimationDuration() time.Duration {
	return time.Duration(c.Animation.Duration * float64(time.Second))
}

// FrameInterval returns the minimum time between rendered frames, or 0 when uncapped.
func (c Config) FrameInterval() time.Duration {
	if c.Render.FrameLimit <= 0 {
		return 0
	}
	return time.Second / time.Duration(c.Render.FrameLimit)
}

// TickInterval returns the engine tick period.
func (c Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.Engine.TickRate)
}
