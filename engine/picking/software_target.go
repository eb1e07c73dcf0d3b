package picking

import (
	"github.com/Carmen-Shannon/oxy-rig/engine/model"
	"github.com/Carmen-Shannon/oxy-rig/engine/raster"
)

// SoftwareTarget renders the identifier pass with the software rasterizer.
// Used by tests and the headless preview where no GPU is available.
type SoftwareTarget struct {
	fb     *raster.FrameBuffer
	meshes model.MeshSet
}

var _ IdentifierTarget = &SoftwareTarget{}

// NewSoftwareTarget creates a software target drawing the given meshes.
func NewSoftwareTarget(meshes model.MeshSet) *SoftwareTarget {
	return &SoftwareTarget{fb: raster.NewFrameBuffer(0, 0), meshes: meshes}
}

func (s *SoftwareTarget) Render(f Frame) error {
	s.fb.Resize(f.Width, f.Height)
	s.fb.RenderIdentifiers(raster.Pass{
		Evaluator: f.Evaluator,
		Time:      f.Time,
		Meshes:    s.meshes,
		View:      f.View,
		Proj:      f.Proj,
	})
	return nil
}

func (s *SoftwareTarget) ReadPixel(x, y int) ([4]uint8, error) {
	// the framebuffer's row 0 is the top
	return s.fb.Pixel(x, s.fb.Height-y-1), nil
}

// FrameBuffer exposes the last rendered identifier image.
func (s *SoftwareTarget) FrameBuffer() *raster.FrameBuffer {
	return s.fb
}
