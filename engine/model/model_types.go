package model

import (
	"github.com/Carmen-Shannon/oxy-rig/common"
)

// Vertex is a CPU-side mesh vertex.
type Vertex struct {
	// Position is the vertex position in model space.
	Position [3]float32

	// Normal is the unit surface normal.
	Normal [3]float32

	// TexCoord is the UV coordinate; V grows downward as in OBJ after flipping.
	TexCoord [2]float32
}

// ImportedMesh represents a single mesh within an imported model.
type ImportedMesh struct {
	// Name is the mesh identifier.
	Name string

	// Vertices are the de-indexed mesh vertices.
	Vertices []Vertex

	// Indices are the triangle indices into Vertices.
	Indices []uint32

	// MaterialIndex references ImportedModel.Materials, or -1 when the mesh has none.
	MaterialIndex int

	// BoundingMin is the minimum corner of the axis-aligned bounding box.
	BoundingMin [3]float32

	// BoundingMax is the maximum corner of the axis-aligned bounding box.
	BoundingMax [3]float32
}

// ImportedModel represents a model loaded from an external format.
// This is the universal format that loader backends (OBJ, glTF) produce.
type ImportedModel struct {
	// Name is the model identifier.
	Name string

	// Meshes contains all mesh data (may have multiple meshes/submeshes).
	Meshes []ImportedMesh

	// Materials are the materials referenced by the meshes.
	Materials []common.ImportedMaterial
}

// ComputeBounds fills BoundingMin and BoundingMax from the vertices.
func (m *ImportedMesh) ComputeBounds() {
	if len(m.Vertices) == 0 {
		m.BoundingMin, m.BoundingMax = [3]float32{}, [3]float32{}
		return
	}
	m.BoundingMin = m.Vertices[0].Position
	m.BoundingMax = m.Vertices[0].Position
	for _, v := range m.Vertices[1:] {
		for i := 0; i < 3; i++ {
			m.BoundingMin[i] = min(m.BoundingMin[i], v.Position[i])
			m.BoundingMax[i] = max(m.BoundingMax[i], v.Position[i])
		}
	}
}
