package loader

import (
	"io"

	"github.com/Carmen-Shannon/oxy-rig/engine/model"
)

// loaderBackend defines the generic interface for loading models from files or streams.
// Concrete implementations (objLoaderBackend, gltfLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// Load imports meshes and materials from the given file path. Relative texture and
	// material library references resolve against the file's directory.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - *model.ImportedModel: the imported model data
	//   - error: error if loading fails
	Load(path string) (*model.ImportedModel, error)

	// LoadReader imports a model from a reader stream.
	//
	// Parameters:
	//   - r: the reader providing model data
	//   - dir: directory that relative references resolve against
	//
	// Returns:
	//   - *model.ImportedModel: the imported model data
	//   - error: error if loading fails
	LoadReader(r io.Reader, dir string) (*model.ImportedModel, error)
}
