// Package raster is a small software rasterizer used where no GPU is available: the
// identifier pass behind headless picking and the lit pass of the preview tool.
package raster

import (
	"image"
	"math"
)

// FrameBuffer holds the rendering target as flat slices for cache locality.
// Row 0 is the top of the image.
type FrameBuffer struct {
	Width  int
	Height int
	Color  []uint8   // RGBA interleaved, len = W*H*4
	Depth  []float32 // NDC depth per pixel, len = W*H, cleared to +inf
}

// NewFrameBuffer allocates a zeroed color buffer and a cleared depth buffer.
func NewFrameBuffer(w, h int) *FrameBuffer {
	fb := &FrameBuffer{}
	fb.Resize(w, h)
	return fb
}

// Resize reallocates the buffers when the size changes, then clears them.
func (fb *FrameBuffer) Resize(w, h int) {
	w, h = max(w, 0), max(h, 0)
	if w != fb.Width || h != fb.Height || fb.Color == nil {
		fb.Width, fb.Height = w, h
		fb.Color = make([]uint8, w*h*4)
		fb.Depth = make([]float32, w*h)
	}
	fb.Clear([4]uint8{})
}

// Clear fills the color buffer with c and resets depth.
func (fb *FrameBuffer) Clear(c [4]uint8) {
	for i := 0; i < len(fb.Color); i += 4 {
		copy(fb.Color[i:i+4], c[:])
	}
	inf := float32(math.Inf(1))
	for i := range fb.Depth {
		fb.Depth[i] = inf
	}
}

// Pixel returns the RGBA value at (x, y) with the origin at the top-left.
// Out of range coordinates return transparent black.
func (fb *FrameBuffer) Pixel(x, y int) [4]uint8 {
	if x < 0 || y < 0 || x >= fb.Width || y >= fb.Height {
		return [4]uint8{}
	}
	i := (y*fb.Width + x) * 4
	return [4]uint8{fb.Color[i], fb.Color[i+1], fb.Color[i+2], fb.Color[i+3]}
}

// Image copies the color buffer into an NRGBA image.
func (fb *FrameBuffer) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	copy(img.Pix, fb.Color)
	return img
}
