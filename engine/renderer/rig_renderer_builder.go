package renderer

import "github.com/Carmen-Shannon/oxy-rig/engine/light"

// RigRendererBuilderOption is a functional option applied to a rig renderer during construction via NewRigRenderer.
type RigRendererBuilderOption func(*rigRenderer)

// WithGrid toggles the ground grid drawn under the robot.
//
// Parameters:
//   - enabled: false hides the grid
//
// Returns:
//   - RigRendererBuilderOption: a function that applies the grid option to a rig renderer
func WithGrid(enabled bool) RigRendererBuilderOption {
	return func(rr *rigRenderer) {
		rr.gridEnabled = enabled
	}
}

// WithGridSize sets the number of cells from the origin to each edge and the cell size.
//
// Parameters:
//   - size: cells per half axis
//   - step: cell size in world units
//
// Returns:
//   - RigRendererBuilderOption: a function that applies the grid size option to a rig renderer
func WithGridSize(size int, step float32) RigRendererBuilderOption {
	return func(rr *rigRenderer) {
		if size > 0 && step > 0 {
			rr.gridSize = size
			rr.gridStep = step
		}
	}
}

// WithSampler sets the filter and address mode used for every diffuse texture.
//
// Parameters:
//   - opts: the sampler options
//
// Returns:
//   - RigRendererBuilderOption: a function that applies the sampler option to a rig renderer
func WithSampler(opts SamplerOptions) RigRendererBuilderOption {
	return func(rr *rigRenderer) {
		rr.sampler = opts
	}
}

// WithLight sets the light compiled into the lit shader. Init must not have run yet.
//
// Parameters:
//   - l: the light
//
// Returns:
//   - RigRendererBuilderOption: a function that applies the light option to a rig renderer
func WithLight(l light.Light) RigRendererBuilderOption {
	return func(rr *rigRenderer) {
		if l != nil {
			rr.light = l
		}
	}
}
