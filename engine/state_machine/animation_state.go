package state_machine

import (
	"github.com/Carmen-Shannon/oxy-motion/engine/animation"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ClipMap is an insertion-ordered set of clips keyed by clip name.
type ClipMap = orderedmap.OrderedMap[string, *animation.ClipInstance]

// AnimationState is a graph node that plays a set of clips together.
//
// Clips and Layers are blended independently: each group's clip weights are normalized over
// the group before being composited into the same BlendPose. An optional Child state is
// sampled into the same pose alongside its parent.
type AnimationState struct {
	nodeBase

	// Clips are the primary clips of the state.
	Clips *ClipMap

	// Layers are additional clips composited on top of Clips.
	Layers *ClipMap

	// Child is an optional nested state sampled with this one.
	Child *AnimationState
}

var _ Node = &AnimationState{}

// NewAnimationState creates an empty AnimationState with a fresh identity and applies options.
//
// Parameters:
//   - name: the state name
//   - options: a variadic list of AnimationStateBuilderOption functions
//
// Returns:
//   - *AnimationState: the new state
func NewAnimationState(name string, options ...AnimationStateBuilderOption) *AnimationState {
	s := &AnimationState{
		nodeBase: newNodeBase(name),
		Clips:    orderedmap.New[string, *animation.ClipInstance](),
		Layers:   orderedmap.New[string, *animation.ClipInstance](),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// AddClip adds or replaces a clip keyed by its name.
func (s *AnimationState) AddClip(clip *animation.ClipInstance) {
	s.Clips.Set(clip.Name, clip)
}

// AddLayer adds or replaces a layer clip keyed by its name.
func (s *AnimationState) AddLayer(clip *animation.ClipInstance) {
	s.Layers.Set(clip.Name, clip)
}

func (s *AnimationState) OnEntry(m *Motion) {}

func (s *AnimationState) OnExit(m *Motion) {}

// ComputeFrame samples every clip, layer and child clip at timeInSec into dst.
//
// Each joint sample is added with the clip's normalized weight multiplied by scale, and tagged
// with fade. Clips whose asset is not ready add nothing and keep the state from being done.
//
// Parameters:
//   - timeInSec: the playback time in seconds
//   - src: the source used to resolve clip assets
//   - dst: the accumulator receiving the contributions
//   - scale: a multiplier applied to every normalized clip weight
//   - fade: the fade timing attached to every contribution
//
// Returns:
//   - bool: true if every clip in the state and its child has finished
func (s *AnimationState) ComputeFrame(timeInSec float64, src animation.AssetSource, dst *animation.BlendPose, scale float64, fade animation.Fade) bool {
	done := sampleGroup(s.Clips, timeInSec, src, dst, scale, fade)
	done = sampleGroup(s.Layers, timeInSec, src, dst, scale, fade) && done
	if s.Child != nil {
		done = s.Child.ComputeFrame(timeInSec, src, dst, scale, fade) && done
	}
	return done
}

// IsDone reports whether every clip of the state and its child has finished at timeInSec.
// A state with no clips is done; a clip whose asset is not ready is not.
//
// Parameters:
//   - timeInSec: the playback time in seconds
//   - src: the source used to resolve clip assets
//
// Returns:
//   - bool: true if the state has finished
func (s *AnimationState) IsDone(timeInSec float64, src animation.AssetSource) bool {
	for _, group := range []*ClipMap{s.Clips, s.Layers} {
		for pair := group.Oldest(); pair != nil; pair = pair.Next() {
			if !pair.Value.IsDone(timeInSec, src) {
				return false
			}
		}
	}
	if s.Child != nil {
		return s.Child.IsDone(timeInSec, src)
	}
	return true
}

// Validate checks every clip, layer and child clip of the state.
//
// Returns:
//   - error: the first clip error, or nil
func (s *AnimationState) Validate() error {
	for _, group := range []*ClipMap{s.Clips, s.Layers} {
		for pair := group.Oldest(); pair != nil; pair = pair.Next() {
			if pair.Value == nil {
				return animation.ErrInvalidClip
			}
			if err := pair.Value.Validate(); err != nil {
				return err
			}
		}
	}
	if s.Child != nil {
		return s.Child.Validate()
	}
	return nil
}

func sampleGroup(group *ClipMap, timeInSec float64, src animation.AssetSource, dst *animation.BlendPose, scale float64, fade animation.Fade) bool {
	if group.Len() == 0 {
		return true
	}

	done := true
	frames := make([]animation.ClipFrame, 0, group.Len())
	total := 0.0
	for pair := group.Oldest(); pair != nil; pair = pair.Next() {
		frame := pair.Value.Sample(timeInSec, src)
		if !frame.Ready {
			done = false
			continue
		}
		done = done && frame.Done()
		total += frame.Weight
		frames = append(frames, frame)
	}

	for _, frame := range frames {
		weight := 1 / float64(len(frames))
		if total > 0 {
			weight = frame.Weight / total
		}
		dst.AddSamples(frame.Joints, weight*scale, fade)
	}
	return done
}
