package model

import (
	"github.com/Carmen-Shannon/oxy-rig/common"
)

// ModelBuilderOption is a functional option for configuring a Model via NewModel.
type ModelBuilderOption func(*model)

// WithName is an option builder that sets the name of the Model.
//
// Parameters:
//   - name: the model identifier
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithMesh is an option builder that sets the triangle mesh of the Model.
//
// Parameters:
//   - mesh: the mesh to draw
//
// Returns:
//   - ModelBuilderOption: a function that applies the mesh option to a model
func WithMesh(mesh ImportedMesh) ModelBuilderOption {
	return func(m *model) {
		m.mesh = mesh
	}
}

// WithImportedModel merges every mesh of an imported model into one and adopts the material of
// the first mesh that has one.
//
// Parameters:
//   - imported: the loader output
//
// Returns:
//   - ModelBuilderOption: a function that applies the imported model to a model
func WithImportedModel(imported *ImportedModel) ModelBuilderOption {
	return func(m *model) {
		if imported == nil {
			return
		}
		if m.name == "" {
			m.name = imported.Name
		}
		merged := ImportedMesh{Name: imported.Name, MaterialIndex: -1}
		for _, mesh := range imported.Meshes {
			base := uint32(len(merged.Vertices))
			merged.Vertices = append(merged.Vertices, mesh.Vertices...)
			for _, idx := range mesh.Indices {
				merged.Indices = append(merged.Indices, base+idx)
			}
			if merged.MaterialIndex < 0 && mesh.MaterialIndex >= 0 && mesh.MaterialIndex < len(imported.Materials) {
				merged.MaterialIndex = mesh.MaterialIndex
				m.material = imported.Materials[mesh.MaterialIndex]
			}
		}
		merged.ComputeBounds()
		m.mesh = merged
	}
}

// WithMaterial is an option builder that sets the material of the Model.
//
// Parameters:
//   - material: the material to draw with
//
// Returns:
//   - ModelBuilderOption: a function that applies the material option to a model
func WithMaterial(material common.ImportedMaterial) ModelBuilderOption {
	return func(m *model) {
		m.material = material
	}
}

// WithTexture is an option builder that supplies already decoded texture pixels, bypassing
// decoding of the material's texture.
//
// Parameters:
//   - tex: RGBA texture data
//
// Returns:
//   - ModelBuilderOption: a function that applies the texture option to a model
func WithTexture(tex common.TextureStagingData) ModelBuilderOption {
	return func(m *model) {
		m.texture = &tex
	}
}
