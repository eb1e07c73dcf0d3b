package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-rig/engine/model"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// gltfMeshExtractorImpl is the implementation of the gltfMeshExtractor interface.
type gltfMeshExtractorImpl struct {
	doc *gltf.Document
}

// gltfMeshExtractor defines the interface for extracting mesh data from a decoded glTF document.
// It converts accessor data into engine-ready ImportedMesh structs.
type gltfMeshExtractor interface {
	// ExtractMesh extracts a single mesh by index.
	// Returns one ImportedMesh per triangle primitive (glTF meshes can have multiple primitives).
	//
	// Parameters:
	//   - meshIndex: the index of the mesh to extract
	//
	// Returns:
	//   - []model.ImportedMesh: one ImportedMesh per primitive
	//   - error: error if extraction fails
	ExtractMesh(meshIndex int) ([]model.ImportedMesh, error)

	// ExtractAllMeshes extracts all meshes from the document.
	//
	// Returns:
	//   - []model.ImportedMesh: all meshes (flattened, one per primitive)
	//   - error: error if extraction fails
	ExtractAllMeshes() ([]model.ImportedMesh, error)
}

var _ gltfMeshExtractor = &gltfMeshExtractorImpl{}

func newGLTFMeshExtractor(doc *gltf.Document) gltfMeshExtractor {
	return &gltfMeshExtractorImpl{doc: doc}
}

func (e *gltfMeshExtractorImpl) ExtractMesh(meshIndex int) ([]model.ImportedMesh, error) {
	if meshIndex < 0 || meshIndex >= len(e.doc.Meshes) {
		return nil, fmt.Errorf("mesh index %d out of range", meshIndex)
	}
	mesh := e.doc.Meshes[meshIndex]

	var result []model.ImportedMesh
	for primIdx, prim := range mesh.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			continue
		}
		imported, err := e.extractPrimitive(prim)
		if err != nil {
			return nil, fmt.Errorf("mesh %d primitive %d: %w", meshIndex, primIdx, err)
		}
		imported.Name = fmt.Sprintf("%s_%d", mesh.Name, primIdx)
		result = append(result, imported)
	}
	return result, nil
}

func (e *gltfMeshExtractorImpl) ExtractAllMeshes() ([]model.ImportedMesh, error) {
	var result []model.ImportedMesh
	for i := range e.doc.Meshes {
		meshes, err := e.ExtractMesh(i)
		if err != nil {
			return nil, err
		}
		result = append(result, meshes...)
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("no triangle primitives")
	}
	return result, nil
}

// --- internal helpers ---

func (e *gltfMeshExtractorImpl) extractPrimitive(prim *gltf.Primitive) (model.ImportedMesh, error) {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return model.ImportedMesh{}, fmt.Errorf("primitive has no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(e.doc, e.doc.Accessors[posIdx], nil)
	if err != nil {
		return model.ImportedMesh{}, fmt.Errorf("failed to read positions: %w", err)
	}

	out := model.ImportedMesh{
		Vertices:      make([]model.Vertex, len(positions)),
		MaterialIndex: -1,
	}
	for i, p := range positions {
		out.Vertices[i].Position = p
	}

	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		uvs, err := modeler.ReadTextureCoord(e.doc, e.doc.Accessors[idx], nil)
		if err != nil {
			return model.ImportedMesh{}, fmt.Errorf("failed to read texture coordinates: %w", err)
		}
		for i := range min(len(uvs), len(out.Vertices)) {
			out.Vertices[i].TexCoord = uvs[i]
		}
	}

	if prim.Indices != nil {
		out.Indices, err = modeler.ReadIndices(e.doc, e.doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return model.ImportedMesh{}, fmt.Errorf("failed to read indices: %w", err)
		}
	} else {
		out.Indices = make([]uint32, len(positions))
		for i := range out.Indices {
			out.Indices[i] = uint32(i)
		}
	}

	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		normals, err := modeler.ReadNormal(e.doc, e.doc.Accessors[idx], nil)
		if err != nil {
			return model.ImportedMesh{}, fmt.Errorf("failed to read normals: %w", err)
		}
		for i := range min(len(normals), len(out.Vertices)) {
			out.Vertices[i].Normal = normals[i]
		}
	} else {
		computeNormals(&out)
	}

	if prim.Material != nil {
		out.MaterialIndex = int(*prim.Material)
	}
	out.ComputeBounds()
	return out, nil
}
