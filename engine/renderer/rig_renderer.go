package renderer

import (
	"fmt"
	"log"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/camera"
	"github.com/Carmen-Shannon/oxy-rig/engine/gizmo"
	"github.com/Carmen-Shannon/oxy-rig/engine/light"
	"github.com/Carmen-Shannon/oxy-rig/engine/model"
	"github.com/Carmen-Shannon/oxy-rig/engine/picking"
	"github.com/Carmen-Shannon/oxy-rig/engine/raster"
	"github.com/Carmen-Shannon/oxy-rig/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-rig/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-rig/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-rig/engine/rig"
	"github.com/Carmen-Shannon/oxy-rig/engine/scene"
)

// SelectionTint is the rgb highlight and mix amount applied to the selected part.
var SelectionTint = [4]float32{1, 0, 0, 0.5}

// Frame is everything one lit frame of the editor viewport is drawn from.
type Frame struct {
	Evaluator scene.Evaluator
	Time      float32
	Camera    camera.Camera

	// Selected is tinted red; rig.None for no selection.
	Selected rig.Part

	GizmoVisible bool
	GizmoAnchor  common.Vec3
	GizmoMode    gizmo.Mode
}

// RigRenderer draws the robot with the GPU Renderer: the lit pass to the window surface plus the
// ground grid and the gizmo, and the identifier pass to an offscreen target for picking.
// Both passes are scene.DrawFunc strategies over the same Evaluator walk.
type RigRenderer interface {
	// Init registers the pipelines and uploads the meshes. Must be called once before Render.
	//
	// Parameters:
	//   - meshes: the loaded model for every rig mesh; parts whose mesh is missing are skipped
	//
	// Returns:
	//   - error: a pipeline that fails to compile or a GPU allocation failure
	Init(meshes model.MeshSet) error

	// Render draws and presents one frame.
	//
	// Parameters:
	//   - f: the frame state
	//
	// Returns:
	//   - error: a frame that could not be acquired
	Render(f Frame) error

	// IdentifierTarget returns the offscreen identifier target used by picking.
	IdentifierTarget() picking.IdentifierTarget

	// Release frees every provider created by Init.
	Release()
}

// rigRenderer is the implementation of the RigRenderer interface.
type rigRenderer struct {
	renderer Renderer

	gridEnabled bool
	gridSize    int
	gridStep    float32
	sampler     SamplerOptions
	light       light.Light

	meshes        model.MeshSet
	meshProviders map[rig.Mesh]bind_group_provider.BindGroupProvider
	partProviders [rig.Count]bind_group_provider.BindGroupProvider

	gridMesh    bind_group_provider.BindGroupProvider
	gridModel   bind_group_provider.BindGroupProvider
	gizmoMeshes map[gizmo.Mode]bind_group_provider.BindGroupProvider
	gizmoModel  bind_group_provider.BindGroupProvider

	slots      map[string]map[shader.AnnotationArg]int
	identifier *gpuIdentifierTarget
}

var _ RigRenderer = &rigRenderer{}

// NewRigRenderer creates a RigRenderer drawing through r.
//
// Parameters:
//   - r: the renderer owning the GPU device
//   - options: functional options
//
// Returns:
//   - RigRenderer: the rig renderer, not yet initialized
func NewRigRenderer(r Renderer, options ...RigRendererBuilderOption) RigRenderer {
	rr := &rigRenderer{
		renderer:      r,
		gridEnabled:   true,
		gridSize:      10,
		gridStep:      1,
		light:         light.NewLight(),
		meshProviders: make(map[rig.Mesh]bind_group_provider.BindGroupProvider),
		gizmoMeshes:   make(map[gizmo.Mode]bind_group_provider.BindGroupProvider),
		slots:         make(map[string]map[shader.AnnotationArg]int),
	}
	for _, opt := range options {
		opt(rr)
	}
	return rr
}

func (rr *rigRenderer) Init(meshes model.MeshSet) error {
	pipelines, err := NewPipelines(rr.light)
	if err != nil {
		return err
	}
	if err := rr.renderer.RegisterPipelines(pipelines...); err != nil {
		return fmt.Errorf("failed to register pipelines: %w", err)
	}
	for _, p := range pipelines {
		rr.slots[p.PipelineKey()] = BindGroupSlots(p)
	}
	lit := rr.renderer.Pipeline(PipelineLit)
	line := rr.renderer.Pipeline(PipelineGrid)

	rr.meshes = meshes
	for _, mesh := range rig.Meshes {
		m, ok := meshes[mesh]
		if !ok {
			log.Printf("[Renderer] no model for mesh %q, parts using it are not drawn", mesh)
			continue
		}
		mp := bind_group_provider.NewBindGroupProvider("mesh_" + string(mesh))
		if err := rr.renderer.InitMeshBuffers(mp, m.VertexData(), m.IndexData(), m.IndexCount()); err != nil {
			return fmt.Errorf("failed to upload mesh %s: %w", mesh, err)
		}
		if err := rr.initMaterial(lit, mp, m); err != nil {
			return fmt.Errorf("failed to init material of %s: %w", mesh, err)
		}
		rr.meshProviders[mesh] = mp
	}

	for _, part := range rig.Parts() {
		pp := bind_group_provider.NewBindGroupProvider("part_" + part.String())
		if err := rr.initUniform(lit, pp, shader.AnnotationArgModel); err != nil {
			return err
		}
		rr.partProviders[part] = pp
	}

	grid := model.GridLines(rr.gridSize, rr.gridStep)
	rr.gridMesh = bind_group_provider.NewBindGroupProvider("grid_mesh")
	if err := rr.renderer.InitMeshBuffers(rr.gridMesh, model.MarshalLines(grid), nil, len(grid)); err != nil {
		return fmt.Errorf("failed to upload grid: %w", err)
	}
	rr.gridModel = bind_group_provider.NewBindGroupProvider("grid_model")
	if err := rr.initUniform(line, rr.gridModel, shader.AnnotationArgModel); err != nil {
		return err
	}
	identity := model.GPUModelUniform{Model: common.Identity()}
	rr.renderer.WriteBuffers([]bind_group_provider.BufferWrite{{Provider: rr.gridModel, Binding: 0, Data: identity.Marshal()}})

	for _, mode := range []gizmo.Mode{gizmo.Translate, gizmo.Rotate} {
		lines := gizmo.Geometry(mode)
		gp := bind_group_provider.NewBindGroupProvider("gizmo_" + mode.String())
		if err := rr.renderer.InitMeshBuffers(gp, model.MarshalLines(lines), nil, len(lines)); err != nil {
			return fmt.Errorf("failed to upload gizmo: %w", err)
		}
		rr.gizmoMeshes[mode] = gp
	}
	rr.gizmoModel = bind_group_provider.NewBindGroupProvider("gizmo_model")
	if err := rr.initUniform(line, rr.gizmoModel, shader.AnnotationArgModel); err != nil {
		return err
	}

	ident := rr.renderer.Pipeline(PipelineIdentifier)
	rr.identifier = &gpuIdentifierTarget{
		renderer:      rr.renderer,
		meshProviders: rr.meshProviders,
		slots:         rr.slots[PipelineIdentifier],
		camera:        bind_group_provider.NewBindGroupProvider("identifier_camera"),
	}
	if err := rr.initUniform(ident, rr.identifier.camera, shader.AnnotationArgCamera); err != nil {
		return err
	}
	for _, part := range rig.Parts() {
		pp := bind_group_provider.NewBindGroupProvider("identifier_" + part.String())
		if err := rr.initUniform(ident, pp, shader.AnnotationArgModel); err != nil {
			return err
		}
		rr.identifier.parts[part] = pp
	}
	return nil
}

func (rr *rigRenderer) Render(f Frame) error {
	if f.Evaluator == nil || f.Camera == nil {
		return fmt.Errorf("frame needs an evaluator and a camera")
	}
	cam := f.Camera.BindGroupProvider()
	if cam.BindGroup() == nil {
		if err := rr.initUniform(rr.renderer.Pipeline(PipelineLit), cam, shader.AnnotationArgCamera); err != nil {
			return err
		}
	}
	u := f.Camera.Uniform()
	rr.renderer.WriteBuffers([]bind_group_provider.BufferWrite{{Provider: cam, Binding: 0, Data: u.Marshal()}})

	if err := rr.renderer.BeginFrame(); err != nil {
		return err
	}

	if rr.gridEnabled {
		rr.draw(PipelineGrid, rr.gridMesh, map[shader.AnnotationArg]bind_group_provider.BindGroupProvider{
			shader.AnnotationArgCamera: cam,
			shader.AnnotationArgModel:  rr.gridModel,
		})
	}

	f.Evaluator.Walk(common.Identity(), f.Time, rr.litDraw(cam, f.Selected))

	if f.GizmoVisible {
		gu := model.GPUModelUniform{Model: gizmo.ModelMatrix(f.GizmoAnchor)}
		rr.renderer.WriteBuffers([]bind_group_provider.BufferWrite{{Provider: rr.gizmoModel, Binding: 0, Data: gu.Marshal()}})
		rr.draw(PipelineGizmo, rr.gizmoMeshes[f.GizmoMode], map[shader.AnnotationArg]bind_group_provider.BindGroupProvider{
			shader.AnnotationArgCamera: cam,
			shader.AnnotationArgModel:  rr.gizmoModel,
		})
	}

	rr.renderer.EndFrame()
	rr.renderer.Present()
	return nil
}

func (rr *rigRenderer) IdentifierTarget() picking.IdentifierTarget {
	return rr.identifier
}

func (rr *rigRenderer) Release() {
	for mesh, p := range rr.meshProviders {
		p.Release()
		delete(rr.meshProviders, mesh)
	}
	for i, p := range rr.partProviders {
		if p != nil {
			p.Release()
			rr.partProviders[i] = nil
		}
	}
	for mode, p := range rr.gizmoMeshes {
		p.Release()
		delete(rr.gizmoMeshes, mode)
	}
	for _, p := range []bind_group_provider.BindGroupProvider{rr.gridMesh, rr.gridModel, rr.gizmoModel} {
		if p != nil {
			p.Release()
		}
	}
	if rr.identifier != nil {
		rr.identifier.Release()
	}
}

// --- internal helpers ---

// litDraw is the lit pass strategy for a walk rooted at identity.
func (rr *rigRenderer) litDraw(cam bind_group_provider.BindGroupProvider, selected rig.Part) scene.DrawFunc {
	return func(part rig.Part, world common.Mat4) {
		m, ok := rr.meshes[part.Mesh()]
		mp := rr.meshProviders[part.Mesh()]
		if !ok || mp == nil {
			return
		}
		pp := rr.partProviders[part]

		u := model.GPUModelUniform{Model: world, PickColor: part.PickColor(), BaseColor: baseColor(m)}
		if part == selected {
			u.Tint = SelectionTint
		}
		rr.renderer.WriteBuffers([]bind_group_provider.BufferWrite{{Provider: pp, Binding: 0, Data: u.Marshal()}})
		rr.draw(PipelineLit, mp, map[shader.AnnotationArg]bind_group_provider.BindGroupProvider{
			shader.AnnotationArgCamera:   cam,
			shader.AnnotationArgModel:    pp,
			shader.AnnotationArgMaterial: mp,
		})
	}
}

func (rr *rigRenderer) draw(key string, mesh bind_group_provider.BindGroupProvider, providers map[shader.AnnotationArg]bind_group_provider.BindGroupProvider) {
	if err := rr.renderer.DrawCall(key, mesh, bindGroupsFor(rr.slots[key], providers)); err != nil {
		log.Printf("[Renderer] %v", err)
	}
}

// initUniform creates the buffer and bind group for the group p declares under identity.
func (rr *rigRenderer) initUniform(p pipeline.Pipeline, provider bind_group_provider.BindGroupProvider, identity shader.AnnotationArg) error {
	g, ok := BindGroupSlots(p)[identity]
	if !ok {
		return fmt.Errorf("pipeline %s declares no %s group", p.PipelineKey(), identity)
	}
	if err := rr.renderer.InitBindGroup(provider, p.BindGroupLayoutDescriptors()[g]); err != nil {
		return fmt.Errorf("failed to init %s bind group: %w", provider.Label(), err)
	}
	return nil
}

func (rr *rigRenderer) initMaterial(lit pipeline.Pipeline, mp bind_group_provider.BindGroupProvider, m model.Model) error {
	texBinding, ok := BindingFor(lit, shader.AnnotationArgDiffuseTexture)
	if !ok {
		return fmt.Errorf("pipeline %s has no diffuse texture binding", lit.PipelineKey())
	}
	samplerBinding, ok := BindingFor(lit, shader.AnnotationArgDiffuseSampler)
	if !ok {
		return fmt.Errorf("pipeline %s has no diffuse sampler binding", lit.PipelineKey())
	}

	tex, _ := m.Texture()
	if err := rr.renderer.InitTextureView(mp, texBinding, tex); err != nil {
		return err
	}
	if err := rr.renderer.InitSampler(mp, samplerBinding, rr.sampler); err != nil {
		return err
	}
	return rr.initUniform(lit, mp, shader.AnnotationArgMaterial)
}

// baseColor is the material color for textured meshes and the editor grey otherwise. The shader
// multiplies it with the texture sample, which is white for untextured meshes.
func baseColor(m model.Model) [4]float32 {
	if _, textured := m.Texture(); textured {
		return m.Material().BaseColor
	}
	g := raster.DefaultBaseColor
	return [4]float32{g[0], g[1], g[2], 1}
}
