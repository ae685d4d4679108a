package loader

import (
	"io"

	"github.com/Carmen-Shannon/oxy-motion/engine/animation"
	"github.com/Carmen-Shannon/oxy-motion/engine/model"
)

// loaderBackend defines the generic interface for decoding animation and skeleton files.
// Concrete implementations (e.g., yamlLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// LoadAnimation decodes an animation asset from the given file path.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - *animation.AnimationAsset: the decoded asset
	//   - error: error if loading fails
	LoadAnimation(path string) (*animation.AnimationAsset, error)

	// LoadAnimationReader decodes an animation asset from a reader stream.
	//
	// Parameters:
	//   - r: the reader providing asset data
	//
	// Returns:
	//   - *animation.AnimationAsset: the decoded asset
	//   - error: error if decoding fails
	LoadAnimationReader(r io.Reader) (*animation.AnimationAsset, error)

	// LoadSkeleton decodes a joint hierarchy from the given file path.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - *model.Skeleton: the decoded skeleton
	//   - error: error if loading fails
	LoadSkeleton(path string) (*model.Skeleton, error)

	// LoadSkeletonReader decodes a joint hierarchy from a reader stream.
	//
	// Parameters:
	//   - r: the reader providing skeleton data
	//
	// Returns:
	//   - *model.Skeleton: the decoded skeleton
	//   - error: error if decoding fails
	LoadSkeletonReader(r io.Reader) (*model.Skeleton, error)
}
