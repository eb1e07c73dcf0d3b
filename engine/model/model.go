package model

import (
	"log"
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/rig"
)

// MeshSet maps each rig mesh to its loaded model.
type MeshSet map[rig.Mesh]Model

// model is the implementation of the Model interface.
type model struct {
	name       string
	mesh       ImportedMesh
	material   common.ImportedMaterial
	texture    *common.TextureStagingData
	decodeOnce *sync.Once

	boundingRadius        float32
	vertexData, indexData []byte
}

// Model defines the interface for a loaded mesh ready to draw.
// A Model holds one merged triangle mesh and the material it is drawn with. It is produced by
// the Loader and consumed by both the GPU renderer and the software rasterizer.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Mesh retrieves the CPU-side mesh.
	//
	// Returns:
	//   - ImportedMesh: vertices, indices and bounds
	Mesh() ImportedMesh

	// Material retrieves the imported material the mesh is drawn with.
	//
	// Returns:
	//   - common.ImportedMaterial: the material
	Material() common.ImportedMaterial

	// Texture returns the decoded diffuse texture. Untextured materials and textures that
	// fail to decode both yield a 1x1 white placeholder.
	//
	// Returns:
	//   - common.TextureStagingData: RGBA pixels
	//   - bool: true when a real texture was decoded
	Texture() (common.TextureStagingData, bool)

	// BoundingRadius returns the bounding sphere radius for this model, measured as
	// the maximum vertex distance from the origin. Used by frustum culling.
	//
	// Returns:
	//   - float32: the bounding radius
	BoundingRadius() float32

	// VertexData returns the packed GPUVertex data for this model's mesh.
	//
	// Returns:
	//   - []byte: the vertex data
	VertexData() []byte

	// IndexData returns the packed uint32 index data for this model's mesh.
	//
	// Returns:
	//   - []byte: the index data
	IndexData() []byte

	// IndexCount returns the number of indices in the model's mesh.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int
}

var _ Model = &model{}

// NewModel creates a new Model instance with the specified options applied.
//
// Parameters:
//   - options: a variadic list of ModelBuilderOption functions to configure the Model
//
// Returns:
//   - Model: a new instance of Model configured with the provided options
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{
		material:   common.ImportedMaterial{BaseColor: [4]float32{1, 1, 1, 1}},
		decodeOnce: &sync.Once{},
	}
	for _, opt := range options {
		opt(m)
	}

	var r2 float32
	for _, v := range m.mesh.Vertices {
		p := v.Position
		r2 = max(r2, p[0]*p[0]+p[1]*p[1]+p[2]*p[2])
	}
	m.boundingRadius = float32(math.Sqrt(float64(r2)))
	m.vertexData = MarshalVertices(m.mesh.Vertices)
	m.indexData = MarshalIndices(m.mesh.Indices)
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Mesh() ImportedMesh {
	return m.mesh
}

func (m *model) Material() common.ImportedMaterial {
	return m.material
}

func (m *model) Texture() (common.TextureStagingData, bool) {
	m.decodeOnce.Do(func() {
		if m.texture != nil || m.material.DiffuseTexture == nil {
			return
		}
		data, err := m.material.DiffuseTexture.Decode()
		if err != nil {
			log.Printf("[Model] %s: %v, using placeholder texture", m.name, err)
			return
		}
		m.texture = &data
	})
	if m.texture == nil {
		return common.PlaceholderTexture(), false
	}
	return *m.texture, true
}

func (m *model) BoundingRadius() float32 {
	return m.boundingRadius
}

func (m *model) VertexData() []byte {
	return m.vertexData
}

func (m *model) IndexData() []byte {
	return m.indexData
}

func (m *model) IndexCount() int {
	return len(m.mesh.Indices)
}
