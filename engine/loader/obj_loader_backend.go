package loader

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/model"
)

// objLoaderBackendImpl is the implementation of objLoaderBackend.
type objLoaderBackendImpl struct{}

// objLoaderBackend is a loaderBackend implementation for Wavefront OBJ files with MTL material
// libraries. Each usemtl run becomes one ImportedMesh.
type objLoaderBackend interface {
	loaderBackend
}

var _ objLoaderBackend = &objLoaderBackendImpl{}

// newOBJLoaderBackend creates a new OBJ loader backend.
//
// Returns:
//   - objLoaderBackend: the loader backend for OBJ files
func newOBJLoaderBackend() objLoaderBackend {
	return &objLoaderBackendImpl{}
}

func (b *objLoaderBackendImpl) Load(path string) (*model.ImportedModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	imported, err := b.LoadReader(f, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	imported.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	// Without a mtllib, a library sharing the OBJ's base name is used when present.
	if len(imported.Materials) == 0 {
		sibling := strings.TrimSuffix(path, filepath.Ext(path)) + ".mtl"
		if mats, err := loadMTL(sibling); err == nil {
			b.bindMaterials(imported, mats)
		}
	}
	return imported, nil
}

func (b *objLoaderBackendImpl) LoadReader(r io.Reader, dir string) (*model.ImportedModel, error) {
	parsed, err := parseOBJ(r)
	if err != nil {
		return nil, err
	}

	imported := &model.ImportedModel{}
	for _, g := range parsed.groups {
		mesh := model.ImportedMesh{
			Name:          g.material,
			Vertices:      g.vertices,
			Indices:       g.indices,
			MaterialIndex: -1,
		}
		if !g.hasNormals {
			computeNormals(&mesh)
		}
		mesh.ComputeBounds()
		imported.Meshes = append(imported.Meshes, mesh)
	}

	var libs []mtlMaterial
	for _, lib := range parsed.mtllibs {
		mats, err := loadMTL(filepath.Join(dir, lib))
		if err != nil {
			log.Printf("[Loader] %v, continuing without materials", err)
			continue
		}
		libs = append(libs, mats...)
	}
	b.bindMaterials(imported, libs)
	return imported, nil
}

// --- internal helpers ---

// bindMaterials resolves each mesh's usemtl name against the parsed libraries.
func (b *objLoaderBackendImpl) bindMaterials(imported *model.ImportedModel, libs []mtlMaterial) {
	for _, m := range libs {
		imported.Materials = append(imported.Materials, m.toImported())
	}
	for i := range imported.Meshes {
		name := imported.Meshes[i].Name
		for j, m := range libs {
			if m.name == name || (name == "" && j == 0) {
				imported.Meshes[i].MaterialIndex = j
				break
			}
		}
	}
}

func (m mtlMaterial) toImported() common.ImportedMaterial {
	out := common.ImportedMaterial{
		Name:             m.name,
		BaseColor:        [4]float32{m.diffuse[0], m.diffuse[1], m.diffuse[2], m.alpha},
		SpecularExponent: m.shininess,
	}
	if m.diffuseMap != "" {
		out.DiffuseTexture = &common.ImportedTexture{Name: "diffuse", Path: m.diffuseMap}
	}
	return out
}
