package renderer

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/camera"
	"github.com/Carmen-Shannon/oxy-rig/engine/model"
	"github.com/Carmen-Shannon/oxy-rig/engine/picking"
	"github.com/Carmen-Shannon/oxy-rig/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-rig/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-rig/engine/rig"
)

// gpuIdentifierTarget draws the identifier pass into an offscreen RenderTarget sized to the
// viewport. It owns its camera and per-part providers so queue writes for the pick never race
// the uniforms of the lit frame.
type gpuIdentifierTarget struct {
	renderer      Renderer
	target        RenderTarget
	meshProviders map[rig.Mesh]bind_group_provider.BindGroupProvider
	slots         map[shader.AnnotationArg]int

	camera bind_group_provider.BindGroupProvider
	parts  [rig.Count]bind_group_provider.BindGroupProvider
}

var _ picking.IdentifierTarget = &gpuIdentifierTarget{}

func (t *gpuIdentifierTarget) Render(f picking.Frame) error {
	if f.Evaluator == nil {
		return errors.New("identifier frame has no evaluator")
	}
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("invalid identifier target size %dx%d", f.Width, f.Height)
	}
	if t.target == nil || t.target.Width() != f.Width || t.target.Height() != f.Height {
		if t.target != nil {
			t.target.Release()
		}
		rt, err := t.renderer.CreateRenderTarget("identifier", f.Width, f.Height)
		if err != nil {
			return err
		}
		t.target = rt
	}

	u := camera.GPUCameraUniform{View: f.View, Projection: f.Proj}
	t.renderer.WriteBuffers([]bind_group_provider.BufferWrite{{Provider: t.camera, Binding: 0, Data: u.Marshal()}})

	if err := t.renderer.BeginTargetFrame(t.target); err != nil {
		return err
	}
	var drawErr error
	// Same root as the lit walk, so picking sees the matrices that were drawn.
	f.Evaluator.Walk(common.Identity(), f.Time, func(part rig.Part, world common.Mat4) {
		mp := t.meshProviders[part.Mesh()]
		pp := t.parts[part]
		if mp == nil || pp == nil {
			return
		}
		mu := model.GPUModelUniform{Model: world, PickColor: part.PickColor()}
		t.renderer.WriteBuffers([]bind_group_provider.BufferWrite{{Provider: pp, Binding: 0, Data: mu.Marshal()}})
		err := t.renderer.DrawCall(PipelineIdentifier, mp, bindGroupsFor(t.slots, map[shader.AnnotationArg]bind_group_provider.BindGroupProvider{
			shader.AnnotationArgCamera: t.camera,
			shader.AnnotationArgModel:  pp,
		}))
		if err != nil && drawErr == nil {
			drawErr = err
		}
	})
	t.renderer.EndFrame()
	return drawErr
}

func (t *gpuIdentifierTarget) ReadPixel(x, y int) ([4]uint8, error) {
	if t.target == nil {
		return [4]uint8{}, errors.New("identifier target has not been rendered")
	}
	return t.renderer.ReadPixel(t.target, x, t.target.Height()-1-y)
}

// Release frees the offscreen target and the target's own providers.
func (t *gpuIdentifierTarget) Release() {
	if t.target != nil {
		t.target.Release()
		t.target = nil
	}
	if t.camera != nil {
		t.camera.Release()
	}
	for i, p := range t.parts {
		if p != nil {
			p.Release()
			t.parts[i] = nil
		}
	}
}
