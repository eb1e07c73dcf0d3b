package loader

import (
	"fmt"
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// gltfMaterialExtractorImpl is the implementation of the gltfMaterialExtractor interface.
type gltfMaterialExtractorImpl struct {
	doc *gltf.Document
	dir string
}

// gltfMaterialExtractor defines the interface for extracting material and texture data
// from a decoded glTF document into engine-ready ImportedMaterial structs.
type gltfMaterialExtractor interface {
	// ExtractMaterial extracts a single material by index. Embedded and data URI images are read
	// into memory; external images are referenced by path and decoded later.
	//
	// Parameters:
	//   - materialIndex: the index of the material in the document
	//
	// Returns:
	//   - common.ImportedMaterial: the extracted material
	//   - error: error if extraction fails
	ExtractMaterial(materialIndex int) (common.ImportedMaterial, error)

	// ExtractAllMaterials extracts all materials from the document.
	//
	// Returns:
	//   - []common.ImportedMaterial: all extracted materials in document order
	//   - error: error if extraction fails
	ExtractAllMaterials() ([]common.ImportedMaterial, error)
}

var _ gltfMaterialExtractor = &gltfMaterialExtractorImpl{}

func newGLTFMaterialExtractor(doc *gltf.Document, dir string) gltfMaterialExtractor {
	return &gltfMaterialExtractorImpl{doc: doc, dir: dir}
}

func (e *gltfMaterialExtractorImpl) ExtractMaterial(materialIndex int) (common.ImportedMaterial, error) {
	if materialIndex < 0 || materialIndex >= len(e.doc.Materials) {
		return common.ImportedMaterial{}, fmt.Errorf("material index %d out of range", materialIndex)
	}
	mat := e.doc.Materials[materialIndex]

	result := common.ImportedMaterial{
		Name:      mat.Name,
		BaseColor: [4]float32{1, 1, 1, 1},
	}
	pbr := mat.PBRMetallicRoughness
	if pbr == nil {
		return result, nil
	}
	c := pbr.BaseColorFactorOrDefault()
	result.BaseColor = [4]float32{float32(c[0]), float32(c[1]), float32(c[2]), float32(c[3])}

	if pbr.BaseColorTexture != nil {
		tex, err := e.loadTexture(int(pbr.BaseColorTexture.Index))
		if err != nil {
			return common.ImportedMaterial{}, fmt.Errorf("material %q: %w", mat.Name, err)
		}
		result.DiffuseTexture = tex
	}
	return result, nil
}

func (e *gltfMaterialExtractorImpl) ExtractAllMaterials() ([]common.ImportedMaterial, error) {
	out := make([]common.ImportedMaterial, 0, len(e.doc.Materials))
	for i := range e.doc.Materials {
		m, err := e.ExtractMaterial(i)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// --- internal helpers ---

func (e *gltfMaterialExtractorImpl) loadTexture(textureIndex int) (*common.ImportedTexture, error) {
	if textureIndex < 0 || textureIndex >= len(e.doc.Textures) {
		return nil, fmt.Errorf("texture index %d out of range", textureIndex)
	}
	src := e.doc.Textures[textureIndex].Source
	if src == nil || int(*src) >= len(e.doc.Images) {
		return nil, nil
	}
	img := e.doc.Images[*src]
	tex := &common.ImportedTexture{Name: img.Name, MimeType: img.MimeType}

	switch {
	case img.BufferView != nil:
		data, err := modeler.ReadBufferView(e.doc, e.doc.BufferViews[*img.BufferView])
		if err != nil {
			return nil, fmt.Errorf("failed to read image %d: %w", *src, err)
		}
		tex.Data = data
	case img.IsEmbeddedResource():
		data, err := img.MarshalData()
		if err != nil {
			return nil, fmt.Errorf("failed to decode image %d data URI: %w", *src, err)
		}
		tex.Data = data
	case img.URI != "":
		tex.Path = filepath.Join(e.dir, filepath.FromSlash(img.URI))
	default:
		return nil, nil
	}
	return tex, nil
}
