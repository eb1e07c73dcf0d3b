package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "none.toml"), Flags{})
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, 4, cfg.Render.MSAA)
	require.NotNil(t, cfg.Render.VSync)
	assert.True(t, *cfg.Render.VSync)
	assert.Equal(t, 5*time.Second, cfg.AnimationDuration())
	assert.Equal(t, "webp", cfg.Preview.Format)
	assert.Equal(t, time.Duration(0), cfg.FrameInterval())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[window]
title = "walk cycle"
width = 800
max_width = 1920

[document]
path = "cycles/walk.json"
watch = true

[render]
msaa = 1
vsync = false
frame_limit = 30

[preview]
format = "PNG"
supersample = 3
`), 0o644))

	cfg, err := Load(path, Flags{})
	require.NoError(t, err)
	assert.Equal(t, "walk cycle", cfg.Window.Title)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height)
	assert.Equal(t, 640, cfg.Window.MinWidth)
	assert.Equal(t, 1920, cfg.Window.MaxWidth)
	assert.Equal(t, 0, cfg.Window.MaxHeight)
	assert.Equal(t, "cycles/walk.json", cfg.Document.Path)
	assert.True(t, cfg.Document.Watch)
	assert.Equal(t, 1, cfg.Render.MSAA)
	assert.False(t, *cfg.Render.VSync)
	assert.Equal(t, time.Second/30, cfg.FrameInterval())
	assert.Equal(t, "png", cfg.Preview.Format)
	assert.Equal(t, 3, cfg.Preview.Supersample)
}

func TestFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[document]\npath = \"a.json\"\n"), 0o644))

	cfg, err := Load(path, Flags{DocumentPath: "b.json", AssetsDir: "meshes"})
	require.NoError(t, err)
	assert.Equal(t, "b.json", cfg.Document.Path)
	assert.Equal(t, "meshes", cfg.Assets.Dir)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed", "[window\nwidth = 1"},
		{"bad msaa", "[render]\nmsaa = 2"},
		{"bad format", "[preview]\nformat = \"gif\""},
		{"negative duration", "[animation]\nduration = -2.0"},
		{"max below min", "[window]\nmax_width = 100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o644))
			_, err := Load(path, Flags{})
			assert.Error(t, err)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	want := Default()
	want.Window.Title = "saved"
	want.Engine.Profiling = true

	require.NoError(t, want.Save(path))
	got, err := Load(path, Flags{})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
