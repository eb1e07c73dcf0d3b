package renderer

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-rig/engine/light"
	"github.com/Carmen-Shannon/oxy-rig/engine/model"
	"github.com/Carmen-Shannon/oxy-rig/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-rig/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-rig/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pipelinesByKey(t *testing.T) map[string]pipeline.Pipeline {
	t.Helper()
	ps, err := NewPipelines(light.NewLight())
	require.NoError(t, err)
	out := make(map[string]pipeline.Pipeline, len(ps))
	for _, p := range ps {
		out[p.PipelineKey()] = p
	}
	return out
}

func TestNewPipelines(t *testing.T) {
	ps := pipelinesByKey(t)
	require.Len(t, ps, 4)

	lit := ps[PipelineLit]
	require.NotNil(t, lit)
	assert.True(t, lit.DepthTestEnabled())
	assert.True(t, lit.DepthWriteEnabled())
	assert.False(t, lit.BlendEnabled())

	ident := ps[PipelineIdentifier]
	require.NotNil(t, ident)
	assert.Equal(t, wgpu.TextureFormatRGBA8Unorm, ident.ColorFormat())
	assert.Equal(t, uint32(1), ident.SampleCount())
	assert.False(t, ident.BlendEnabled())
	assert.Equal(t, lit.CullMode(), ident.CullMode())
	assert.Equal(t, lit.FrontFace(), ident.FrontFace())

	grid := ps[PipelineGrid]
	require.NotNil(t, grid)
	assert.Equal(t, wgpu.PrimitiveTopologyLineList, grid.Topology())
	assert.True(t, grid.BlendEnabled())
	assert.False(t, grid.DepthWriteEnabled())

	gizmo := ps[PipelineGizmo]
	require.NotNil(t, gizmo)
	assert.False(t, gizmo.DepthTestEnabled())
	assert.False(t, gizmo.DepthWriteEnabled())
}

func TestBindGroupSlots(t *testing.T) {
	ps := pipelinesByKey(t)

	assert.Equal(t, map[shader.AnnotationArg]int{
		shader.AnnotationArgCamera:   0,
		shader.AnnotationArgModel:    1,
		shader.AnnotationArgMaterial: 2,
	}, BindGroupSlots(ps[PipelineLit]))

	for _, key := range []string{PipelineIdentifier, PipelineGrid, PipelineGizmo} {
		assert.Equal(t, map[shader.AnnotationArg]int{
			shader.AnnotationArgCamera: 0,
			shader.AnnotationArgModel:  1,
		}, BindGroupSlots(ps[key]), key)
	}
}

func TestBindingFor(t *testing.T) {
	ps := pipelinesByKey(t)

	b, ok := BindingFor(ps[PipelineLit], shader.AnnotationArgDiffuseTexture)
	require.True(t, ok)
	assert.Equal(t, 0, b)

	b, ok = BindingFor(ps[PipelineLit], shader.AnnotationArgDiffuseSampler)
	require.True(t, ok)
	assert.Equal(t, 1, b)

	_, ok = BindingFor(ps[PipelineIdentifier], shader.AnnotationArgDiffuseTexture)
	assert.False(t, ok)
}

func TestSharedGroupsHaveIdenticalLayouts(t *testing.T) {
	ps := pipelinesByKey(t)
	litLayouts := ps[PipelineLit].BindGroupLayoutDescriptors()

	for _, key := range []string{PipelineIdentifier, PipelineGrid, PipelineGizmo} {
		layouts := ps[key].BindGroupLayoutDescriptors()
		for _, g := range []int{0, 1} {
			require.Len(t, layouts[g].Entries, 1, key)
			assert.Equal(t, litLayouts[g].Entries[0].Visibility, layouts[g].Entries[0].Visibility, key)
			assert.Equal(t, litLayouts[g].Entries[0].Buffer.Type, layouts[g].Entries[0].Buffer.Type, key)
		}
	}
}

func TestBindGroupsFor(t *testing.T) {
	cam := bind_group_provider.NewBindGroupProvider("cam")
	mdl := bind_group_provider.NewBindGroupProvider("model")
	mat := bind_group_provider.NewBindGroupProvider("material")

	slots := map[shader.AnnotationArg]int{
		shader.AnnotationArgCamera:   0,
		shader.AnnotationArgModel:    1,
		shader.AnnotationArgMaterial: 2,
	}
	got := bindGroupsFor(slots, map[shader.AnnotationArg]bind_group_provider.BindGroupProvider{
		shader.AnnotationArgMaterial: mat,
		shader.AnnotationArgCamera:   cam,
		shader.AnnotationArgModel:    mdl,
	})
	require.Len(t, got, 3)
	assert.Same(t, cam, got[0])
	assert.Same(t, mdl, got[1])
	assert.Same(t, mat, got[2])

	// A slot with no provider leaves a nil hole the draw call skips.
	got = bindGroupsFor(slots, map[shader.AnnotationArg]bind_group_provider.BindGroupProvider{
		shader.AnnotationArgCamera: cam,
	})
	require.Len(t, got, 3)
	assert.Nil(t, got[1])
	assert.Nil(t, got[2])
}

func TestBaseColor(t *testing.T) {
	untextured := model.NewModel(model.WithName("plain"))
	assert.Equal(t, [4]float32{0.7, 0.7, 0.7, 1}, baseColor(untextured))
}
