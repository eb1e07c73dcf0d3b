package shader

import (
	"strings"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSource = `//@oxy:include vertex
//@oxy:include camera
//@oxy:include model

//@oxy:group 0 0 storage_uniform camera camera
//@oxy:group 1 0 storage_uniform draw model

//@oxy:provider 2 0 material diffuse_texture
@group(2) @binding(0) var diffuse_texture: texture_2d<f32>;
//@oxy:provider 2 1 material diffuse_sampler
@group(2) @binding(1) var diffuse_sampler: sampler;

struct VertexOutput {
    @builtin(position) clip: vec4<f32>,
    @location(0) uv: vec2<f32>,
};

/* block comments are ignored: @vertex fn not_this() */
@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.clip = camera.projection * camera.view * draw.model * vec4<f32>(in.position, 1.0);
    out.uv = in.uv;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return textureSample(diffuse_texture, diffuse_sampler, in.uv) * draw.base_color;
}
`

func TestPreProcessorExpandsAnnotations(t *testing.T) {
	pp := NewPreProcessor()
	out, err := pp.Process(testSource)
	require.NoError(t, err)

	assert.Contains(t, out, "struct CameraUniform")
	assert.Contains(t, out, "struct ModelUniform")
	assert.Contains(t, out, "struct VertexInput")
	assert.Contains(t, out, "@group(0) @binding(0) var<uniform> camera: CameraUniform;")
	assert.Contains(t, out, "@group(1) @binding(0) var<uniform> draw: ModelUniform;")
	assert.NotContains(t, out, "@oxy:include")

	decls := pp.Declarations()
	require.Len(t, decls, 4)
	assert.Equal(t, AnnotationArgCamera, decls[0].Identity())
	assert.Equal(t, AnnotationArgModel, decls[1].Identity())
	assert.Equal(t, AnnotationArgMaterial, decls[2].Identity())
	assert.Equal(t, 2, *decls[3].Group)
	assert.Equal(t, AnnotationArgDiffuseSampler, decls[3].Args[1])
}

func TestPreProcessorRejectsUnknownArguments(t *testing.T) {
	for _, src := range []string{
		"//@oxy:include skinned_vertex",
		"//@oxy:group 0 0 storage_uniform camera light",
		"//@oxy:group x 0 storage_uniform camera camera",
		"//@oxy:provider 0 0 shadow",
		"//@oxy:provider 2 0 material normal_texture",
		"//@oxy:bogus",
		"//@oxy:",
	} {
		_, err := NewPreProcessor().Process(src)
		assert.Error(t, err, src)
	}
}

func TestNewShaderReflectsVertexStage(t *testing.T) {
	s, err := NewShader("test_vs", ShaderTypeVertex, testSource)
	require.NoError(t, err)

	assert.Equal(t, "vs_main", s.EntryPoint())

	layouts := s.VertexLayouts()
	require.Len(t, layouts, 1)
	assert.Equal(t, uint64(32), layouts[0].ArrayStride)
	require.Len(t, layouts[0].Attributes, 3)
	assert.Equal(t, wgpu.VertexFormatFloat32x3, layouts[0].Attributes[1].Format)
	assert.Equal(t, uint64(12), layouts[0].Attributes[1].Offset)
	assert.Equal(t, uint64(24), layouts[0].Attributes[2].Offset)

	groups := s.BindGroupLayoutDescriptors()
	require.Len(t, groups, 3)
	cam := groups[0].Entries[0]
	assert.Equal(t, wgpu.BufferBindingTypeUniform, cam.Buffer.Type)
	assert.Equal(t, uint64(144), cam.Buffer.MinBindingSize)
	assert.Equal(t, wgpu.ShaderStageVertex, cam.Visibility)
	assert.Equal(t, uint64(112), groups[1].Entries[0].Buffer.MinBindingSize)

	mat := groups[2].Entries
	require.Len(t, mat, 2)
	assert.Equal(t, wgpu.TextureSampleTypeFloat, mat[0].Texture.SampleType)
	assert.Equal(t, wgpu.TextureViewDimension2D, mat[0].Texture.ViewDimension)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, mat[1].Sampler.Type)

	assert.Equal(t, "diffuse_sampler", s.BindGroupVarName(2, 1))
	assert.Equal(t, "", s.BindGroupVarName(5, 0))
}

func TestNewShaderFragmentStage(t *testing.T) {
	s, err := NewShader("test_fs", ShaderTypeFragment, testSource)
	require.NoError(t, err)

	assert.Equal(t, "fs_main", s.EntryPoint())
	assert.Empty(t, s.VertexLayouts())
	assert.Equal(t, wgpu.ShaderStageFragment, s.BindGroupLayoutDescriptors()[1].Entries[0].Visibility)
}

func TestNewShaderMissingEntryPoint(t *testing.T) {
	src := strings.ReplaceAll(testSource, "@fragment", "")
	_, err := NewShader("no_fs", ShaderTypeFragment, src)
	assert.Error(t, err)
}

func TestStructLayoutRules(t *testing.T) {
	structs := parseStructBlocks(`
struct Inner { a: vec3<f32>, b: f32 }
struct Outer { x: f32, inner: Inner, list: array<vec4<f32>, 3> }
`)
	sizes := computeStructSizes(structs)
	assert.Equal(t, wgslTypeLayout{16, 16}, sizes["Inner"])
	// x at 0, inner aligned to 16, list at 32 for 48 bytes
	assert.Equal(t, wgslTypeLayout{80, 16}, sizes["Outer"])
}
