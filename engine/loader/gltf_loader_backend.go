package loader

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-rig/engine/model"
	"github.com/qmuntal/gltf"
)

// gltfLoaderBackendImpl is the implementation of gltfLoaderBackend.
type gltfLoaderBackendImpl struct{}

// gltfLoaderBackend is a loaderBackend implementation for glTF/GLB files.
// Node transforms are not applied: every primitive is imported in its mesh's own space.
type gltfLoaderBackend interface {
	loaderBackend
}

var _ gltfLoaderBackend = &gltfLoaderBackendImpl{}

// newGLTFLoaderBackend creates a new glTF loader backend.
//
// Returns:
//   - gltfLoaderBackend: the loader backend for glTF/GLB files
func newGLTFLoaderBackend() gltfLoaderBackend {
	return &gltfLoaderBackendImpl{}
}

func (b *gltfLoaderBackendImpl) Load(path string) (*model.ImportedModel, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open glTF %s: %w", path, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return b.extract(doc, name, filepath.Dir(path))
}

func (b *gltfLoaderBackendImpl) LoadReader(r io.Reader, dir string) (*model.ImportedModel, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(r).Decode(doc); err != nil {
		return nil, fmt.Errorf("failed to decode glTF: %w", err)
	}
	return b.extract(doc, "", dir)
}

// --- internal helpers ---

func (b *gltfLoaderBackendImpl) extract(doc *gltf.Document, name, dir string) (*model.ImportedModel, error) {
	meshes, err := newGLTFMeshExtractor(doc).ExtractAllMeshes()
	if err != nil {
		return nil, err
	}
	materials, err := newGLTFMaterialExtractor(doc, dir).ExtractAllMaterials()
	if err != nil {
		return nil, err
	}
	if name == "" && len(doc.Meshes) > 0 {
		name = doc.Meshes[0].Name
	}
	return &model.ImportedModel{Name: name, Meshes: meshes, Materials: materials}, nil
}
