package model

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-motion/common"
)

// KeyframeTrack holds the time-ordered translation, rotation and scale samples for one joint.
// The three channels are sampled independently and may differ in length.
type KeyframeTrack struct {
	// Joint is the name of the joint this track animates.
	Joint string

	// Translations are keyframes for translation.
	Translations []VectorKeyframe

	// Rotations are keyframes for rotation (quaternion).
	Rotations []QuaternionKeyframe

	// Scales are keyframes for scale.
	Scales []VectorKeyframe
}

// NewKeyframeTrack creates a KeyframeTrack and verifies that each channel is sorted by time.
//
// Parameters:
//   - joint: the animated joint's name
//   - translations: translation keyframes in ascending time order
//   - rotations: rotation keyframes in ascending time order
//   - scales: scale keyframes in ascending time order
//
// Returns:
//   - *KeyframeTrack: the new track
//   - error: an error wrapping ErrUnsortedKeyframes if a channel is out of order
func NewKeyframeTrack(joint string, translations []VectorKeyframe, rotations []QuaternionKeyframe, scales []VectorKeyframe) (*KeyframeTrack, error) {
	for i := 1; i < len(translations); i++ {
		if translations[i].Time < translations[i-1].Time {
			return nil, fmt.Errorf("%w: joint %q translation %d", ErrUnsortedKeyframes, joint, i)
		}
	}
	for i := 1; i < len(rotations); i++ {
		if rotations[i].Time < rotations[i-1].Time {
			return nil, fmt.Errorf("%w: joint %q rotation %d", ErrUnsortedKeyframes, joint, i)
		}
	}
	for i := 1; i < len(scales); i++ {
		if scales[i].Time < scales[i-1].Time {
			return nil, fmt.Errorf("%w: joint %q scale %d", ErrUnsortedKeyframes, joint, i)
		}
	}

	return &KeyframeTrack{
		Joint:        joint,
		Translations: translations,
		Rotations:    rotations,
		Scales:       scales,
	}, nil
}

// Times returns every sample time of the track across all three channels, unsorted and
// possibly with duplicates.
//
// Returns:
//   - []float64: the sample times
func (k *KeyframeTrack) Times() []float64 {
	out := make([]float64, 0, len(k.Translations)+len(k.Rotations)+len(k.Scales))
	for _, key := range k.Translations {
		out = append(out, key.Time)
	}
	for _, key := range k.Rotations {
		out = append(out, key.Time)
	}
	for _, key := range k.Scales {
		out = append(out, key.Time)
	}
	return out
}

// Interpolate blends the samples at indexA and indexB of every channel.
// Translation and scale are linearly interpolated, rotation is spherically interpolated.
// A channel with a single sample returns it unconditionally, an empty channel yields the
// identity component, and indices past the end of a channel clamp to its last sample.
//
// Parameters:
//   - indexA: the lower sample index
//   - indexB: the upper sample index
//   - weight: the blend factor from indexA (0) to indexB (1)
//
// Returns:
//   - Transform: the interpolated local transform
func (k *KeyframeTrack) Interpolate(indexA, indexB int, weight float64) Transform {
	out := IdentityTransform()

	switch n := len(k.Translations); {
	case n == 1:
		out.Translation = k.Translations[0].Value
	case n > 1:
		a, b := clampIndex(indexA, n), clampIndex(indexB, n)
		out.Translation = common.Lerp3(k.Translations[a].Value, k.Translations[b].Value, weight)
	}

	switch n := len(k.Rotations); {
	case n == 1:
		out.Rotation = k.Rotations[0].Value
	case n > 1:
		a, b := clampIndex(indexA, n), clampIndex(indexB, n)
		out.Rotation = common.QuatSlerp(k.Rotations[a].Value, k.Rotations[b].Value, weight)
	}

	switch n := len(k.Scales); {
	case n == 1:
		out.Scale = k.Scales[0].Value
	case n > 1:
		a, b := clampIndex(indexA, n), clampIndex(indexB, n)
		out.Scale = common.Lerp3(k.Scales[a].Value, k.Scales[b].Value, weight)
	}

	return out
}

func clampIndex(i, n int) int {
	return common.Clamp(i, 0, n-1)
}
