package animation

// AssetSource resolves asset references for clips.
// Lookup reports false while an asset is unknown or still loading; callers treat that as
// "not ready" rather than as an error.
type AssetSource interface {
	// Lookup resolves an asset reference.
	//
	// Parameters:
	//   - ref: the asset reference
	//
	// Returns:
	//   - *AnimationAsset: the resolved asset, or nil when not ready
	//   - bool: true if the asset is loaded and ready to sample
	Lookup(ref string) (*AnimationAsset, bool)
}

// StaticAssets is an AssetSource backed by a fixed map of loaded assets.
type StaticAssets map[string]*AnimationAsset

var _ AssetSource = StaticAssets(nil)

func (s StaticAssets) Lookup(ref string) (*AnimationAsset, bool) {
	a, ok := s[ref]
	return a, ok && a != nil
}
