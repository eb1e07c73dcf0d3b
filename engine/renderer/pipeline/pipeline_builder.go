package pipeline

import (
	"github.com/Carmen-Shannon/oxy-rig/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// PipelineBuilderOption is a functional option for NewPipeline.
type PipelineBuilderOption func(*pipeline)

// WithShaders sets both stages at once.
//
// Parameters:
//   - vs: the vertex stage
//   - fs: the fragment stage
//
// Returns:
//   - PipelineBuilderOption: option setting both shaders
func WithShaders(vs, fs shader.Shader) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexShader = vs
		p.fragmentShader = fs
	}
}

func WithDepthTestEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthTestEnabled = enabled
	}
}

func WithDepthWriteEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthWriteEnabled = enabled
	}
}

// WithBlendEnabled turns on alpha blending with the pipeline's blend state.
func WithBlendEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.blendEnabled = enabled
	}
}

func WithCullMode(mode wgpu.CullMode) PipelineBuilderOption {
	return func(p *pipeline) {
		p.cullMode = mode
	}
}

// WithTopology sets the primitive topology, e.g. LineList for the grid and gizmo.
func WithTopology(topology wgpu.PrimitiveTopology) PipelineBuilderOption {
	return func(p *pipeline) {
		p.topology = topology
	}
}

func WithFrontFace(frontFace wgpu.FrontFace) PipelineBuilderOption {
	return func(p *pipeline) {
		p.frontFace = frontFace
	}
}

// WithRenderTarget makes the pipeline draw into an offscreen target of the given format and
// sample count instead of the window surface.
//
// Parameters:
//   - format: color attachment format
//   - sampleCount: multisample count of the target (1 for readback targets)
//
// Returns:
//   - PipelineBuilderOption: option setting the target description
func WithRenderTarget(format wgpu.TextureFormat, sampleCount uint32) PipelineBuilderOption {
	return func(p *pipeline) {
		p.colorFormat = format
		p.sampleCount = sampleCount
	}
}
