package raster

import (
	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/model"
	"github.com/Carmen-Shannon/oxy-rig/engine/rig"
	"github.com/Carmen-Shannon/oxy-rig/engine/scene"
)

// Pass carries what both software passes need for one frame.
type Pass struct {
	Evaluator scene.Evaluator
	Time      float32
	Meshes    model.MeshSet
	View      common.Mat4
	Proj      common.Mat4
}

// IdentifierDraw returns the identifier strategy for a walk rooted at identity (world space):
// each part is filled with its pick color, unlit and unblended.
func (fb *FrameBuffer) IdentifierDraw(p Pass) scene.DrawFunc {
	viewProj := p.Proj.Mul4(p.View)
	frustum := common.ExtractFrustum(viewProj)
	return func(part rig.Part, world common.Mat4) {
		m, ok := p.Meshes[part.Mesh()]
		if !ok {
			return
		}
		if !frustum.IntersectsSphere(common.Position(world), m.BoundingRadius()) {
			return
		}
		mesh := m.Mesh()
		fb.DrawFlat(&mesh, viewProj.Mul4(world), [4]uint8{part.PickID(), 0, 0, 255})
	}
}

// RenderIdentifiers clears to transparent black and draws the identifier pass. It walks from
// identity like RenderLit so both passes see the same part matrices.
func (fb *FrameBuffer) RenderIdentifiers(p Pass) {
	fb.Clear([4]uint8{})
	p.Evaluator.Walk(common.Identity(), p.Time, fb.IdentifierDraw(p))
}

// LitDraw returns the lit strategy for a walk rooted at identity (world space).
// The selected part is tinted red.
func (fb *FrameBuffer) LitDraw(p Pass, selected rig.Part, lc *LightConfig) scene.DrawFunc {
	viewProj := p.Proj.Mul4(p.View)
	frustum := common.ExtractFrustum(viewProj)
	return func(part rig.Part, world common.Mat4) {
		m, ok := p.Meshes[part.Mesh()]
		if !ok {
			return
		}
		if !frustum.IntersectsSphere(common.Position(world), m.BoundingRadius()) {
			return
		}
		s := Surface{BaseColor: DefaultBaseColor}
		if tex, ok := m.Texture(); ok {
			s.Texture = &tex
		}
		if part == selected {
			s.Tint, s.TintAmount = SelectedTint, 0.5
		}
		mesh := m.Mesh()
		fb.DrawLit(&mesh, world, viewProj, s, lc)
	}
}

// RenderLit clears to bg and draws the lit pass.
func (fb *FrameBuffer) RenderLit(p Pass, selected rig.Part, lc *LightConfig, bg [4]uint8) {
	fb.Clear(bg)
	p.Evaluator.Walk(common.Identity(), p.Time, fb.LitDraw(p, selected, lc))
}
