package animation

// ClipInstanceBuilderOption is a functional option for configuring a ClipInstance via NewClipInstance.
type ClipInstanceBuilderOption func(*ClipInstance)

// WithSettings is an option builder that replaces the clip's playback settings.
//
// Parameters:
//   - settings: the speed, weight and offsets to use
//
// Returns:
//   - ClipInstanceBuilderOption: a function that applies the settings option to a clip
func WithSettings(settings ClipSettings) ClipInstanceBuilderOption {
	return func(c *ClipInstance) {
		c.Settings = settings
	}
}

// WithBlendWeight is an option builder that sets the clip's unnormalized blend weight.
//
// Parameters:
//   - weight: the blend weight
//
// Returns:
//   - ClipInstanceBuilderOption: a function that applies the weight option to a clip
func WithBlendWeight(weight float64) ClipInstanceBuilderOption {
	return func(c *ClipInstance) {
		c.Settings.BlendWeight = weight
	}
}

// WithSpeedFactor is an option builder that sets the clip's speed multiplier.
//
// Parameters:
//   - speed: the speed factor (1.0 = native rate)
//
// Returns:
//   - ClipInstanceBuilderOption: a function that applies the speed option to a clip
func WithSpeedFactor(speed float64) ClipInstanceBuilderOption {
	return func(c *ClipInstance) {
		c.Settings.SpeedFactor = speed
	}
}

// WithPlaybackMode is an option builder that sets the clip's playback mode.
//
// Parameters:
//   - mode: the playback mode
//
// Returns:
//   - ClipInstanceBuilderOption: a function that applies the mode option to a clip
func WithPlaybackMode(mode PlaybackMode) ClipInstanceBuilderOption {
	return func(c *ClipInstance) {
		c.Mode = mode
	}
}

// WithNumPlays is an option builder that limits the number of cycles the clip plays.
//
// Parameters:
//   - n: the play limit; values <= 0 mean unlimited
//
// Returns:
//   - ClipInstanceBuilderOption: a function that applies the play limit to a clip
func WithNumPlays(n int) ClipInstanceBuilderOption {
	return func(c *ClipInstance) {
		c.NumPlays = n
	}
}
