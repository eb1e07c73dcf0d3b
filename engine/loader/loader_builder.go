package loader

import (
	"github.com/Carmen-Shannon/oxy-rig/engine/model"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithWorkers sets how many meshes LoadAll imports at once.
//
// Parameters:
//   - n: the worker count, values below 1 are ignored
//
// Returns:
//   - LoaderBuilderOption: a function that applies the workers option to a loader
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		if n > 0 {
			l.workers = n
		}
	}
}

// WithFallbacks controls whether LoadAll substitutes boxes for missing meshes.
//
// Parameters:
//   - enabled: false makes a missing mesh an error
//
// Returns:
//   - LoaderBuilderOption: a function that applies the fallback option to a loader
func WithFallbacks(enabled bool) LoaderBuilderOption {
	return func(l *loader) {
		l.fallback = enabled
	}
}

// WithModel is an option builder that pre-populates the model cache with a model.
//
// Parameters:
//   - key: the cache key for the model
//   - model: the model to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the model option to a loader
func WithModel(key string, model model.Model) LoaderBuilderOption {
	return func(l *loader) {
		l.modelCache[key] = model
	}
}
