package renderer

import (
	_ "embed"
	"fmt"

	"github.com/Carmen-Shannon/oxy-rig/engine/light"
	"github.com/Carmen-Shannon/oxy-rig/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-rig/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-rig/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// Pipeline keys of the editor's four programs.
const (
	PipelineLit        = "lit"
	PipelineIdentifier = "identifier"
	PipelineGrid       = "grid"
	PipelineGizmo      = "gizmo"
)

//go:embed assets/lit.wgsl
var litShaderSource string

//go:embed assets/identifier.wgsl
var identifierShaderSource string

//go:embed assets/line.wgsl
var lineShaderSource string

// NewPipelines parses the embedded shaders and describes the lit, identifier, grid and gizmo
// pipelines. No GPU objects are created until they are registered with a Renderer.
//
// Parameters:
//   - l: the light compiled into the lit shader
//
// Returns:
//   - []pipeline.Pipeline: the pipelines in registration order
//   - error: a shader that fails to pre-process or has no entry point
func NewPipelines(l light.Light) ([]pipeline.Pipeline, error) {
	litSource, err := l.Inject(litShaderSource)
	if err != nil {
		return nil, fmt.Errorf("failed to inject light: %w", err)
	}
	lit, err := newStages(PipelineLit, litSource)
	if err != nil {
		return nil, err
	}
	ident, err := newStages(PipelineIdentifier, identifierShaderSource)
	if err != nil {
		return nil, err
	}
	grid, err := newStages(PipelineGrid, lineShaderSource)
	if err != nil {
		return nil, err
	}
	gizmo, err := newStages(PipelineGizmo, lineShaderSource)
	if err != nil {
		return nil, err
	}

	// picking must cover exactly the pixels the lit pass shows
	solid := []pipeline.PipelineBuilderOption{
		pipeline.WithCullMode(wgpu.CullModeNone),
		pipeline.WithFrontFace(wgpu.FrontFaceCCW),
	}

	return []pipeline.Pipeline{
		pipeline.NewPipeline(PipelineLit, append([]pipeline.PipelineBuilderOption{lit}, solid...)...),
		pipeline.NewPipeline(PipelineIdentifier, append([]pipeline.PipelineBuilderOption{ident,
			pipeline.WithRenderTarget(wgpu.TextureFormatRGBA8Unorm, 1),
		}, solid...)...),
		pipeline.NewPipeline(PipelineGrid, grid,
			pipeline.WithTopology(wgpu.PrimitiveTopologyLineList),
			pipeline.WithBlendEnabled(true),
			pipeline.WithDepthWriteEnabled(false),
		),
		pipeline.NewPipeline(PipelineGizmo, gizmo,
			pipeline.WithTopology(wgpu.PrimitiveTopologyLineList),
			pipeline.WithBlendEnabled(true),
			pipeline.WithDepthTestEnabled(false),
			pipeline.WithDepthWriteEnabled(false),
		),
	}, nil
}

// BindGroupSlots maps each provider identity declared by a pipeline's shaders to its group index.
//
// Parameters:
//   - p: the pipeline to inspect
//
// Returns:
//   - map[shader.AnnotationArg]int: group index keyed by identity (camera, model, material)
func BindGroupSlots(p pipeline.Pipeline) map[shader.AnnotationArg]int {
	slots := make(map[shader.AnnotationArg]int)
	for _, st := range []shader.ShaderType{shader.ShaderTypeVertex, shader.ShaderTypeFragment} {
		s := p.Shader(st)
		if s == nil {
			continue
		}
		for _, decl := range s.Declarations() {
			if decl.Group != nil {
				slots[decl.Identity()] = *decl.Group
			}
		}
	}
	return slots
}

// BindingFor returns the binding index a provider annotation assigns to a role, e.g. the
// material's diffuse texture.
//
// Parameters:
//   - p: the pipeline to inspect
//   - role: the binding role
//
// Returns:
//   - int: the binding index
//   - bool: false when no shader of p declares the role
func BindingFor(p pipeline.Pipeline, role shader.AnnotationArg) (int, bool) {
	for _, st := range []shader.ShaderType{shader.ShaderTypeVertex, shader.ShaderTypeFragment} {
		s := p.Shader(st)
		if s == nil {
			continue
		}
		for _, decl := range s.Declarations() {
			if decl.Type == shader.AnnotationTypeProvider && len(decl.Args) > 1 && decl.Args[1] == role {
				return *decl.Binding, true
			}
		}
	}
	return 0, false
}

// --- internal helpers ---

func newStages(key, source string) (pipeline.PipelineBuilderOption, error) {
	vs, err := shader.NewShader(key+"_vs", shader.ShaderTypeVertex, source)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s vertex shader: %w", key, err)
	}
	fs, err := shader.NewShader(key+"_fs", shader.ShaderTypeFragment, source)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s fragment shader: %w", key, err)
	}
	return pipeline.WithShaders(vs, fs), nil
}

// bindGroupsFor orders providers by the group index their identity occupies in slots.
func bindGroupsFor(slots map[shader.AnnotationArg]int, providers map[shader.AnnotationArg]bind_group_provider.BindGroupProvider) []bind_group_provider.BindGroupProvider {
	n := 0
	for _, g := range slots {
		n = max(n, g+1)
	}
	out := make([]bind_group_provider.BindGroupProvider, n)
	for identity, g := range slots {
		out[g] = providers[identity]
	}
	return out
}
