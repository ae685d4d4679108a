package state_machine

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-motion/engine/animation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateNormalizesClipWeightsPerGroup(t *testing.T) {
	src := slideAssets(t)
	state := NewAnimationState("mix",
		WithClips(
			animation.NewClipInstance("heavy", "slide", animation.WithBlendWeight(3)),
			animation.NewClipInstance("light", "slide", animation.WithBlendWeight(1)),
		),
		WithLayers(animation.NewClipInstance("layer", "slide", animation.WithBlendWeight(7))),
	)

	dst := animation.NewBlendPose()
	state.ComputeFrame(0.5, src, dst, 2, animation.Fade{})

	cands := dst.Candidates("hip")
	require.Len(t, cands, 3)
	assert.InDelta(t, 1.5, cands[0].Weight, 1e-12)
	assert.InDelta(t, 0.5, cands[1].Weight, 1e-12)
	assert.InDelta(t, 2, cands[2].Weight, 1e-12, "layers normalize on their own")
	assert.InDelta(t, 5, cands[0].Transform.Translation[0], 1e-5)
}

func TestStateDoneAggregation(t *testing.T) {
	src := slideAssets(t)
	once := func(name string) *animation.ClipInstance {
		return animation.NewClipInstance(name, "slide", animation.WithPlaybackMode(animation.SingleShot))
	}

	empty := NewAnimationState("empty")
	assert.True(t, empty.IsDone(0, src))
	assert.True(t, empty.ComputeFrame(0, src, animation.NewBlendPose(), 1, animation.Fade{}))

	state := NewAnimationState("once", WithClips(once("a")))
	assert.False(t, state.IsDone(0.5, src))
	assert.True(t, state.IsDone(1.5, src))

	looping := NewAnimationState("child", WithClips(animation.NewClipInstance("loop", "slide")))
	parent := NewAnimationState("parent", WithClips(once("b")), WithChild(looping))
	assert.False(t, parent.IsDone(1.5, src), "child loop keeps the parent running")

	dst := animation.NewBlendPose()
	assert.False(t, parent.ComputeFrame(1.5, src, dst, 1, animation.Fade{}))
	assert.Len(t, dst.Candidates("hip"), 2)
}

func TestStateWithUnreadyClip(t *testing.T) {
	src := slideAssets(t)
	state := NewAnimationState("loading",
		WithClips(
			animation.NewClipInstance("ready", "slide", animation.WithPlaybackMode(animation.SingleShot)),
			animation.NewClipInstance("pending", "not_loaded_yet", animation.WithBlendWeight(5)),
		),
	)

	dst := animation.NewBlendPose()
	done := state.ComputeFrame(2, src, dst, 1, animation.Fade{})
	assert.False(t, done)
	assert.False(t, state.IsDone(2, src))

	cands := dst.Candidates("hip")
	require.Len(t, cands, 1)
	assert.InDelta(t, 1, cands[0].Weight, 1e-12, "weights normalize over ready clips")
}
