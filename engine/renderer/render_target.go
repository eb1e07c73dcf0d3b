package renderer

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// RenderTarget is an offscreen color and depth attachment pair with a small mappable buffer
// for single pixel readback. It never multisamples.
type RenderTarget interface {
	Label() string

	Width() int

	Height() int

	// Format returns the color attachment format. Pipelines drawing into the target must be
	// created with the same format and a sample count of 1.
	Format() wgpu.TextureFormat

	// Release releases the textures, views and readback buffer.
	Release()
}

// renderTarget is the implementation of the RenderTarget interface.
type renderTarget struct {
	label         string
	width, height int
	format        wgpu.TextureFormat

	colorTexture *wgpu.Texture
	colorView    *wgpu.TextureView
	depthTexture *wgpu.Texture
	depthView    *wgpu.TextureView

	// readback holds one row of one pixel, padded to the copy row alignment.
	readback *wgpu.Buffer
}

var _ RenderTarget = &renderTarget{}

func (t *renderTarget) Label() string {
	return t.label
}

func (t *renderTarget) Width() int {
	return t.width
}

func (t *renderTarget) Height() int {
	return t.height
}

func (t *renderTarget) Format() wgpu.TextureFormat {
	return t.format
}

func (t *renderTarget) Release() {
	if t.colorView != nil {
		t.colorView.Release()
		t.colorView = nil
	}
	if t.colorTexture != nil {
		t.colorTexture.Release()
		t.colorTexture = nil
	}
	if t.depthView != nil {
		t.depthView.Release()
		t.depthView = nil
	}
	if t.depthTexture != nil {
		t.depthTexture.Release()
		t.depthTexture = nil
	}
	if t.readback != nil {
		t.readback.Release()
		t.readback = nil
	}
}
