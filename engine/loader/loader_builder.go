package loader

import (
	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-motion/engine/animation"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithPool is an option builder that sets the worker pool used for background loads.
//
// Parameters:
//   - pool: the worker pool
//
// Returns:
//   - LoaderBuilderOption: a function that applies the pool option to a loader
func WithPool(pool worker.DynamicWorkerPool) LoaderBuilderOption {
	return func(l *loader) {
		l.pool = pool
	}
}

// WithLoadLimit is an option builder that bounds the number of concurrent loads in LoadAll.
//
// Parameters:
//   - n: the maximum number of files decoded at once
//
// Returns:
//   - LoaderBuilderOption: a function that applies the limit option to a loader
func WithLoadLimit(n int) LoaderBuilderOption {
	return func(l *loader) {
		l.loadLimit = n
	}
}

// WithAsset is an option builder that pre-populates the asset cache.
//
// Parameters:
//   - ref: the cache key for the asset
//   - asset: the asset to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the asset option to a loader
func WithAsset(ref string, asset *animation.AnimationAsset) LoaderBuilderOption {
	return func(l *loader) {
		l.assetCache[ref] = asset
	}
}
