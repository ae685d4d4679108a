package animation

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidClip is returned when a clip instance's settings are malformed.
	ErrInvalidClip = errors.New("invalid clip instance")
)

// ClipFrame is the result of sampling a ClipInstance at one point in time.
type ClipFrame struct {
	// Joints are the sampled local transforms, one per animated joint.
	Joints []JointSample

	// Weight is the clip's unnormalized blend weight.
	Weight float64

	// Time is the mapped local time of the sample.
	Time TimeSample

	// Ready is false when the clip's asset could not be resolved yet.
	Ready bool
}

// Done reports whether the clip has finished. A clip that is not ready is never done.
func (f ClipFrame) Done() bool {
	return f.Ready && f.Time.Done
}

// ClipInstance is a use of an AnimationAsset with its own playback settings.
type ClipInstance struct {
	// Name identifies the clip within its state.
	Name string

	// AssetRef is the reference resolved through an AssetSource.
	AssetRef string

	// Settings are the speed, weight and offsets of this use of the asset.
	Settings ClipSettings

	// Mode is the playback mode.
	Mode PlaybackMode

	// NumPlays limits the number of cycles; values <= 0 mean unlimited.
	NumPlays int
}

// NewClipInstance creates a looping ClipInstance with default settings and applies options.
//
// Parameters:
//   - name: the clip name
//   - assetRef: the asset reference to resolve when sampling
//   - options: a variadic list of ClipInstanceBuilderOption functions
//
// Returns:
//   - *ClipInstance: the new clip
func NewClipInstance(name, assetRef string, options ...ClipInstanceBuilderOption) *ClipInstance {
	c := &ClipInstance{
		Name:     name,
		AssetRef: assetRef,
		Settings: DefaultClipSettings(),
		Mode:     Loop,
		NumPlays: -1,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// Sample resolves the clip's asset and samples it at timeInSec.
// If the asset is not ready the returned frame has Ready set to false and no joints.
//
// Parameters:
//   - timeInSec: the playback time in seconds
//   - src: the source used to resolve AssetRef
//
// Returns:
//   - ClipFrame: the sampled joints, weight and timing
func (c *ClipInstance) Sample(timeInSec float64, src AssetSource) ClipFrame {
	frame := ClipFrame{Weight: c.Settings.BlendWeight}
	asset, ok := c.resolve(src)
	if !ok {
		return frame
	}

	frame.Ready = true
	frame.Time = asset.ComputeTime(timeInSec, c.Settings, c.Mode, c.NumPlays)
	frame.Joints = asset.SamplePose(frame.Time.LocalTime)
	return frame
}

// IsDone reports whether the clip has finished at timeInSec without sampling any joints.
// A clip whose asset is not ready is not done.
func (c *ClipInstance) IsDone(timeInSec float64, src AssetSource) bool {
	asset, ok := c.resolve(src)
	if !ok {
		return false
	}
	return asset.ComputeTime(timeInSec, c.Settings, c.Mode, c.NumPlays).Done
}

// SetDurationSeconds rescales the clip's speed so that one cycle lasts secs seconds.
//
// Parameters:
//   - src: the source used to resolve AssetRef
//   - secs: the desired cycle length in seconds
//
// Returns:
//   - bool: false if the asset is not ready or secs is not positive; the clip is unchanged
func (c *ClipInstance) SetDurationSeconds(src AssetSource, secs float64) bool {
	if secs <= 0 {
		return false
	}
	asset, ok := c.resolve(src)
	if !ok {
		return false
	}
	c.Settings.SpeedFactor = asset.DurationSeconds() / secs
	return true
}

// Validate checks the clip for authoring errors.
//
// Returns:
//   - error: an error wrapping ErrInvalidClip naming the offending clip, or nil
func (c *ClipInstance) Validate() error {
	switch {
	case c.Name == "":
		return fmt.Errorf("%w: clip has no name", ErrInvalidClip)
	case c.AssetRef == "":
		return fmt.Errorf("%w: clip %q has no animation reference", ErrInvalidClip, c.Name)
	case c.Settings.SpeedFactor < 0:
		return fmt.Errorf("%w: clip %q has negative speed factor", ErrInvalidClip, c.Name)
	case c.Settings.BlendWeight < 0:
		return fmt.Errorf("%w: clip %q has negative blend weight", ErrInvalidClip, c.Name)
	}
	return nil
}

func (c *ClipInstance) resolve(src AssetSource) (*AnimationAsset, bool) {
	if src == nil {
		return nil, false
	}
	return src.Lookup(c.AssetRef)
}
