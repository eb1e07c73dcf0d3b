package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-rig/engine/model"
	"github.com/Carmen-Shannon/oxy-rig/engine/rig"
)

// ErrUnsupportedFormat is returned for a file extension no backend handles.
var ErrUnsupportedFormat = errors.New("loader: unsupported model format")

// Extensions lists the model formats LoadAll searches for, in priority order.
var Extensions = []string{".obj", ".gltf", ".glb"}

// FallbackBounds are the boxes substituted for meshes missing from the asset directory. They
// follow the rest layout: legs hang from their hip origins and the lower leg ends on the ground.
var FallbackBounds = map[rig.Mesh][2][3]float32{
	rig.MeshBody:     {{-0.7, -0.4, -0.8}, {0.7, 0.4, 0.8}},
	rig.MeshHead:     {{-0.3, -0.25, -0.3}, {0.3, 0.25, 0.3}},
	rig.MeshUpperLeg: {{-0.14, 0.75, -0.14}, {0.14, 1.0, 0.14}},
	rig.MeshLowerLeg: {{-0.11, 0.45, -0.11}, {0.11, 0.8, 0.11}},
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	modelCache map[string]model.Model
	backends   map[string]loaderBackend

	workers  int
	fallback bool
}

// Loader defines the public-facing interface for loading and caching meshes.
// It abstracts the file format (OBJ, glTF, GLB) behind a backend chosen by extension and
// manages a cache of previously loaded models.
type Loader interface {
	// Load imports a model file and caches the result.
	// If the model is already cached (by file path), the cached version is returned.
	//
	// Parameters:
	//   - path: the file path to the model file
	//
	// Returns:
	//   - model.Model: the loaded and cached model
	//   - error: ErrUnsupportedFormat or an import failure
	Load(path string) (model.Model, error)

	// LoadReader imports a model from a reader stream and caches it by the given name.
	//
	// Parameters:
	//   - name: the cache key for the loaded model
	//   - r: the reader providing model data
	//   - ext: the format extension, e.g. ".obj"
	//   - dir: directory relative material and texture references resolve against
	//
	// Returns:
	//   - model.Model: the loaded model
	//   - error: ErrUnsupportedFormat or an import failure
	LoadReader(name string, r io.Reader, ext, dir string) (model.Model, error)

	// LoadAll imports every rig mesh from dir concurrently, one task per mesh on a worker pool.
	// Each mesh is looked up as <dir>/<mesh><ext> for ext in Extensions. A missing mesh is
	// replaced by its fallback box unless fallbacks are disabled.
	//
	// Parameters:
	//   - ctx: cancels waiting for outstanding imports
	//   - dir: the asset directory
	//   - meshes: the meshes to load; empty loads rig.Meshes
	//
	// Returns:
	//   - model.MeshSet: the loaded models keyed by mesh
	//   - error: the first import failure, a missing mesh with fallbacks disabled, or ctx.Err()
	LoadAll(ctx context.Context, dir string, meshes ...rig.Mesh) (model.MeshSet, error)

	// Get retrieves a cached model by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - model.Model: the cached model or nil
	Get(name string) model.Model

	// Models returns a copy of the model cache.
	//
	// Returns:
	//   - map[string]model.Model: all cached models keyed by name
	Models() map[string]model.Model
}

var _ Loader = &loader{}

// NewLoader creates a new Loader with the OBJ and glTF backends registered.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided options
func NewLoader(options ...LoaderBuilderOption) Loader {
	obj := newOBJLoaderBackend()
	gl := newGLTFLoaderBackend()
	l := &loader{
		modelCache: make(map[string]model.Model),
		backends: map[string]loaderBackend{
			".obj":  obj,
			".gltf": gl,
			".glb":  gl,
		},
		workers:  4,
		fallback: true,
	}
	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) Load(path string) (model.Model, error) {
	l.mu.RLock()
	if cached, ok := l.modelCache[path]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	backend, err := l.resolveBackend(path)
	if err != nil {
		return nil, err
	}
	imported, err := backend.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	m := model.NewModel(model.WithImportedModel(imported))
	l.cache(path, m)
	return m, nil
}

func (l *loader) LoadReader(name string, r io.Reader, ext, dir string) (model.Model, error) {
	l.mu.RLock()
	if cached, ok := l.modelCache[name]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	backend, err := l.resolveBackend(ext)
	if err != nil {
		return nil, err
	}
	imported, err := backend.LoadReader(r, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load from reader %q: %w", name, err)
	}

	m := model.NewModel(model.WithName(name), model.WithImportedModel(imported))
	l.cache(name, m)
	return m, nil
}

func (l *loader) LoadAll(ctx context.Context, dir string, meshes ...rig.Mesh) (model.MeshSet, error) {
	if len(meshes) == 0 {
		meshes = rig.Meshes
	}

	type result struct {
		mesh  rig.Mesh
		model model.Model
		err   error
	}
	results := make(chan result, len(meshes))

	// Pool workers only exit on Stop. results is buffered so tasks still running after a
	// cancel never block.
	pool := worker.NewDynamicWorkerPool(min(l.workers, len(meshes)), len(meshes), time.Second)
	defer pool.Stop()
	start := time.Now()
	for i, mesh := range meshes {
		pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				if err := ctx.Err(); err != nil {
					results <- result{mesh: mesh, err: err}
					return nil, err
				}
				m, err := l.loadMesh(dir, mesh)
				results <- result{mesh: mesh, model: m, err: err}
				return nil, err
			},
		})
	}

	set := make(model.MeshSet, len(meshes))
	var errs []error
	for range meshes {
		var r result
		select {
		case r = <-results:
		case <-ctx.Done():
			pool.ClearTaskQueue()
			return nil, ctx.Err()
		}
		if r.err != nil {
			errs = append(errs, r.err)
			continue
		}
		set[r.mesh] = r.model
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	log.Printf("[Loader] loaded %d meshes from %s in %v", len(set), dir, time.Since(start).Round(time.Millisecond))
	return set, nil
}

func (l *loader) Get(name string) model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.modelCache[name]
}

func (l *loader) Models() map[string]model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]model.Model, len(l.modelCache))
	for k, v := range l.modelCache {
		result[k] = v
	}
	return result
}

// --- internal helpers ---

// resolveBackend selects a loader backend based on the file extension.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" && strings.HasPrefix(path, ".") {
		ext = strings.ToLower(path)
	}
	if b, ok := l.backends[ext]; ok {
		return b, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}

// loadMesh finds and imports one rig mesh, or builds its fallback box.
func (l *loader) loadMesh(dir string, mesh rig.Mesh) (model.Model, error) {
	for _, ext := range Extensions {
		path := filepath.Join(dir, string(mesh)+ext)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		m, err := l.Load(path)
		if err != nil {
			return nil, err
		}
		return m, nil
	}

	if !l.fallback {
		return nil, fmt.Errorf("no %s mesh in %s (tried %s)", mesh, dir, strings.Join(Extensions, ", "))
	}
	log.Printf("[Loader] no %s mesh in %s, using a placeholder box", mesh, dir)
	b := FallbackBounds[mesh]
	return model.NewModel(
		model.WithName(string(mesh)),
		model.WithMesh(model.Box(string(mesh), b[0], b[1])),
	), nil
}

func (l *loader) cache(key string, m model.Model) {
	l.mu.Lock()
	l.modelCache[key] = m
	l.mu.Unlock()
}
