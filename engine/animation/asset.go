package animation

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/Carmen-Shannon/oxy-motion/common"
	"github.com/Carmen-Shannon/oxy-motion/engine/model"
)

// DefaultTicksPerSecond is the tick rate used by assets that do not declare one.
const DefaultTicksPerSecond = 25.0

var (
	// ErrInvalidAsset is returned when an asset's timing or tracks are malformed.
	ErrInvalidAsset = errors.New("invalid animation asset")
)

// TimeSample is the result of mapping a wall-clock time onto an asset's timeline.
type TimeSample struct {
	// LocalTime is the position within the asset in ticks.
	LocalTime float64

	// PlayCount is the number of full cycles completed.
	PlayCount int

	// Done reports whether the clip has finished under its playback mode and play limit.
	Done bool
}

// JointSample is the sampled local transform of one joint.
type JointSample struct {
	Joint     string
	Transform model.Transform
}

// AnimationAsset is a named collection of keyframe tracks sharing one tick rate and duration.
// Sampling uses a single global time array built from every sample time of every track.
type AnimationAsset struct {
	name            string
	ticksPerSecond  float64
	durationInTicks float64

	tracks map[string]*model.KeyframeTrack
	joints []string
	times  []float64
}

// NewAnimationAsset creates an AnimationAsset and builds its global time array.
//
// Parameters:
//   - name: the asset name
//   - ticksPerSecond: the native tick rate; 0 selects DefaultTicksPerSecond
//   - durationInTicks: the asset length in ticks
//   - tracks: one keyframe track per animated joint
//
// Returns:
//   - *AnimationAsset: the new asset
//   - error: an error wrapping ErrInvalidAsset for negative timing, nil tracks or duplicate joints
func NewAnimationAsset(name string, ticksPerSecond, durationInTicks float64, tracks ...*model.KeyframeTrack) (*AnimationAsset, error) {
	if ticksPerSecond < 0 || durationInTicks < 0 {
		return nil, fmt.Errorf("%w: %q has negative timing", ErrInvalidAsset, name)
	}

	a := &AnimationAsset{
		name:            name,
		ticksPerSecond:  ticksPerSecond,
		durationInTicks: durationInTicks,
		tracks:          make(map[string]*model.KeyframeTrack, len(tracks)),
		joints:          make([]string, 0, len(tracks)),
	}

	for _, track := range tracks {
		if track == nil {
			return nil, fmt.Errorf("%w: %q has a nil track", ErrInvalidAsset, name)
		}
		if _, dup := a.tracks[track.Joint]; dup {
			return nil, fmt.Errorf("%w: %q has two tracks for joint %q", ErrInvalidAsset, name, track.Joint)
		}
		a.tracks[track.Joint] = track
		a.joints = append(a.joints, track.Joint)
		a.times = append(a.times, track.Times()...)
	}

	sort.Float64s(a.times)
	a.times = slices.Compact(a.times)

	return a, nil
}

// Name returns the asset name.
func (a *AnimationAsset) Name() string {
	return a.name
}

// TicksPerSecond returns the effective tick rate, substituting the default for 0.
func (a *AnimationAsset) TicksPerSecond() float64 {
	return common.Coalesce(a.ticksPerSecond, DefaultTicksPerSecond)
}

// DurationInTicks returns the asset length in ticks.
func (a *AnimationAsset) DurationInTicks() float64 {
	return a.durationInTicks
}

// DurationSeconds returns the asset length in seconds at unit speed.
func (a *AnimationAsset) DurationSeconds() float64 {
	return a.durationInTicks / a.TicksPerSecond()
}

// Joints returns the animated joint names in track order.
func (a *AnimationAsset) Joints() []string {
	return a.joints
}

// Track returns the keyframe track for a joint, or nil if the joint is not animated.
func (a *AnimationAsset) Track(joint string) *model.KeyframeTrack {
	return a.tracks[joint]
}

// Times returns the sorted, de-duplicated sample times across all tracks.
func (a *AnimationAsset) Times() []float64 {
	return a.times
}

// ComputeTime maps a time in seconds onto the asset's local timeline.
//
// The effective tick rate is the asset tick rate scaled by the speed factor. Once a positive
// play limit is reached the clip is done and the local time is returned as computed.
// SingleShot clips are done after their first full cycle and hold the final tick; PingPong
// clips play mirrored on odd cycles.
//
// Parameters:
//   - timeInSec: the elapsed playback time in seconds
//   - settings: the clip's speed and offsets
//   - mode: the playback mode
//   - numPlays: the play limit, or a value <= 0 for no limit
//
// Returns:
//   - TimeSample: the local time, completed cycle count and done flag
func (a *AnimationAsset) ComputeTime(timeInSec float64, settings ClipSettings, mode PlaybackMode, numPlays int) TimeSample {
	duration := a.durationInTicks
	if duration <= 0 {
		return TimeSample{Done: mode == SingleShot || numPlays > 0}
	}

	tickRate := a.TicksPerSecond() * settings.SpeedFactor
	timeInTicks := (timeInSec+settings.TimeOffsetSec)*tickRate + settings.TickOffset

	playCount := int(math.Floor(timeInTicks / duration))
	local := math.Mod(timeInTicks, duration)
	if local < 0 {
		local += duration
	}

	if numPlays > 0 && playCount >= numPlays {
		return TimeSample{LocalTime: local, PlayCount: playCount, Done: true}
	}

	switch mode {
	case SingleShot:
		if playCount >= 1 {
			return TimeSample{LocalTime: duration, PlayCount: playCount, Done: true}
		}
	case PingPong:
		if playCount%2 != 0 {
			local = duration - local
		}
	}

	return TimeSample{LocalTime: local, PlayCount: playCount}
}

// SamplePose samples every track at the given local time.
// The bracketing interval is found in the global time array: the upper bound is the first
// time greater than localAnimTime and the lower bound is the sample before it, never below 0.
// Times at or past the final sample clamp to it.
//
// Parameters:
//   - localAnimTime: the local time in ticks, usually from ComputeTime
//
// Returns:
//   - []JointSample: one sample per animated joint, in track order
func (a *AnimationAsset) SamplePose(localAnimTime float64) []JointSample {
	lo, hi, weight := a.interval(localAnimTime)

	out := make([]JointSample, len(a.joints))
	for i, joint := range a.joints {
		out[i] = JointSample{
			Joint:     joint,
			Transform: a.tracks[joint].Interpolate(lo, hi, weight),
		}
	}
	return out
}

func (a *AnimationAsset) interval(t float64) (lo, hi int, weight float64) {
	n := len(a.times)
	if n <= 1 {
		return 0, 0, 0
	}
	if t >= a.times[n-1] {
		return n - 1, n - 1, 0
	}

	hi = sort.Search(n, func(i int) bool { return a.times[i] > t })
	lo = max(hi-1, 0)
	if lo == hi {
		return lo, hi, 0
	}

	span := a.times[hi] - a.times[lo]
	return lo, hi, common.Clamp((t-a.times[lo])/span, 0, 1)
}
