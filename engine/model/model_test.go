package model

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quad(z float32) ImportedMesh {
	return ImportedMesh{
		Vertices: []Vertex{
			{Position: [3]float32{-1, -1, z}},
			{Position: [3]float32{1, -1, z}},
			{Position: [3]float32{1, 1, z}},
			{Position: [3]float32{-1, 1, z}},
		},
		Indices:       []uint32{0, 1, 2, 0, 2, 3},
		MaterialIndex: 0,
	}
}

func TestWithImportedModelMergesMeshes(t *testing.T) {
	imported := &ImportedModel{
		Name:      "two",
		Meshes:    []ImportedMesh{quad(0), quad(2)},
		Materials: []common.ImportedMaterial{{Name: "steel", BaseColor: [4]float32{0.5, 0.5, 0.5, 1}}},
	}
	m := NewModel(WithImportedModel(imported))

	assert.Equal(t, "two", m.Name())
	assert.Equal(t, "steel", m.Material().Name)
	mesh := m.Mesh()
	require.Len(t, mesh.Vertices, 8)
	assert.Equal(t, []uint32{4, 5, 6, 4, 6, 7}, mesh.Indices[6:])
	assert.Equal(t, [3]float32{-1, -1, 0}, mesh.BoundingMin)
	assert.Equal(t, [3]float32{1, 1, 2}, mesh.BoundingMax)
	assert.InDelta(t, math.Sqrt(6), m.BoundingRadius(), 1e-5)
	assert.Equal(t, 12, m.IndexCount())
}

func TestGPUDataLayout(t *testing.T) {
	m := NewModel(WithMesh(ImportedMesh{
		Vertices: []Vertex{{Position: [3]float32{1, 2, 3}, Normal: [3]float32{0, 1, 0}, TexCoord: [2]float32{0.25, 0.75}}},
		Indices:  []uint32{7},
	}))

	v := m.VertexData()
	require.Len(t, v, 32)
	assert.Equal(t, float32(2), math.Float32frombits(binary.LittleEndian.Uint32(v[4:8])))
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(v[16:20])))
	assert.Equal(t, float32(0.75), math.Float32frombits(binary.LittleEndian.Uint32(v[28:32])))
	assert.Equal(t, []byte{7, 0, 0, 0}, m.IndexData())

	var g GPUVertex
	assert.Equal(t, 32, g.Size())
}

func TestModelUniformLayout(t *testing.T) {
	u := GPUModelUniform{
		Model:     common.Translate(common.Vec3{1, 2, 3}),
		Tint:      [4]float32{1, 0, 0, 0.5},
		PickColor: [4]float32{3.0 / 255, 0, 0, 1},
	}
	assert.Equal(t, 112, u.Size())

	buf := u.Marshal()
	require.Len(t, buf, 112)
	at := func(off int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:])) }
	assert.Equal(t, float32(2), at(13*4))
	assert.Equal(t, float32(0.5), at(64+12))
	assert.Equal(t, float32(1), at(80+12))
}

func TestTextureFallsBackToPlaceholder(t *testing.T) {
	m := NewModel(WithMaterial(common.ImportedMaterial{
		DiffuseTexture: &common.ImportedTexture{Path: "does/not/exist.png"},
	}))
	tex, ok := m.Texture()
	assert.False(t, ok)
	assert.Equal(t, common.PlaceholderTexture(), tex)

	m = NewModel(WithTexture(common.TextureStagingData{Pixels: make([]byte, 16), Width: 2, Height: 2}))
	tex, ok = m.Texture()
	assert.True(t, ok)
	assert.Equal(t, uint32(2), tex.Width)
}

func TestBoxAndGrid(t *testing.T) {
	box := Box("b", [3]float32{-1, 0, -2}, [3]float32{1, 3, 2})
	assert.Len(t, box.Vertices, 24)
	assert.Len(t, box.Indices, 36)
	assert.Equal(t, [3]float32{-1, 0, -2}, box.BoundingMin)
	assert.Equal(t, [3]float32{1, 3, 2}, box.BoundingMax)

	grid := GridLines(20, 1)
	assert.Len(t, grid, 41*4)
	assert.InDelta(t, 0.2, grid[0].Color[3], 1e-6)
	assert.Equal(t, float32(1), grid[20*4].Color[3])
	assert.Len(t, MarshalLines(grid[:2]), 56)
}
