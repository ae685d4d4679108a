package state_machine

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-motion/engine/animation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// crossFadeGraph builds a -> a_to_b -> b with a 0.4 second cross-fade.
func crossFadeGraph(t *testing.T) (AnimationGraph, *AnimationState, *AnimationTransition, *AnimationState) {
	t.Helper()
	g := NewAnimationGraph(WithGraphName("cross"))
	a := NewAnimationState("a", WithClips(animation.NewClipInstance("slide", "slide")))
	b := NewAnimationState("b", WithClips(animation.NewClipInstance("slide", "slide")))
	mustAdd(t, g, a, b)

	ab := NewAnimationTransition("a_to_b", a, b, WithFade(0.4, 0.4))
	mustAdd(t, g, ab)
	mustConnect(t, g, a, ab)
	mustConnect(t, g, ab, b)
	return g, a, ab, b
}

func TestMotionTransitionHandsOverTimer(t *testing.T) {
	src := slideAssets(t)
	g, a, ab, b := crossFadeGraph(t)

	m, err := NewMotion(g, WithName("hero"), WithInitialState("a"))
	require.NoError(t, err)
	assert.Same(t, a, m.CurrentNode())

	m.Advance(0.7)
	require.NoError(t, m.Move(ab))
	assert.Same(t, ab, m.CurrentNode())
	assert.Zero(t, m.TransitionElapsed())

	m.Advance(0.25)
	done, err := m.IsDone(src)
	require.NoError(t, err)
	assert.False(t, done)

	m.Advance(0.25)
	done, err = m.IsDone(src)
	require.NoError(t, err)
	require.True(t, done)

	exitElapsed := m.TransitionElapsed()
	require.NoError(t, m.AutoMove())
	assert.Same(t, b, m.CurrentNode())
	assert.InDelta(t, exitElapsed, m.ElapsedTime(), 1e-12)
	assert.InDelta(t, 0.5, m.ElapsedTime(), 1e-12)
}

func TestMotionTransitionFrame(t *testing.T) {
	src := slideAssets(t)
	g, _, ab, _ := crossFadeGraph(t)

	m, err := NewMotion(g, WithInitialState("a"))
	require.NoError(t, err)
	m.Advance(0.3)
	require.NoError(t, m.Move(ab))
	m.Advance(0.1)

	dst := animation.NewBlendPose()
	require.NoError(t, m.ComputeFrame(src, dst))

	cands := dst.Candidates("hip")
	require.Len(t, cands, 2)

	out, in := cands[0], cands[1]
	assert.Equal(t, animation.FadeOut, out.Fade.Mode)
	assert.InDelta(t, 4, out.Transform.Translation[0], 1e-5, "start state continues from its carried time")
	assert.InDelta(t, 0.75, out.Fade.Factor(), 1e-9)

	assert.Equal(t, animation.FadeIn, in.Fade.Mode)
	assert.InDelta(t, 1, in.Transform.Translation[0], 1e-5, "end state starts from zero")
	assert.InDelta(t, 0.25, in.Fade.Factor(), 1e-9)

	resolved := dst.Resolve(nil)
	assert.InDelta(t, 3.25, resolved["hip"].Translation[0], 1e-5)
}

func TestTransitionShortFadeInEndsWithTransition(t *testing.T) {
	src := slideAssets(t)
	a := NewAnimationState("a", WithClips(animation.NewClipInstance("slide", "slide")))
	b := NewAnimationState("b", WithClips(animation.NewClipInstance("slide", "slide")))
	ab := NewAnimationTransition("a_to_b", a, b, WithFade(0.2, 1))

	dst := animation.NewBlendPose()
	ab.ComputeFrame(0, 0.5, src, dst)
	cands := dst.Candidates("hip")
	require.Len(t, cands, 2)
	assert.InDelta(t, 0.5, cands[0].Fade.Factor(), 1e-9)
	assert.InDelta(t, 0, cands[1].Fade.Factor(), 1e-9, "end state waits until the last 0.2s")

	dst.Clear()
	ab.ComputeFrame(0, 0.9, src, dst)
	cands = dst.Candidates("hip")
	require.Len(t, cands, 2)
	assert.InDelta(t, 0.5, cands[1].Fade.Factor(), 1e-9)
}

func TestMotionStrictMoveRequiresConnection(t *testing.T) {
	g, a, _, b := crossFadeGraph(t)

	m, err := NewMotion(g, WithInitialState("a"))
	require.NoError(t, err)
	m.Advance(0.2)

	assert.ErrorIs(t, m.Move(b), ErrNoConnection)
	assert.Same(t, a, m.CurrentNode())
	assert.InDelta(t, 0.2, m.ElapsedTime(), 1e-12, "a rejected move changes nothing")

	assert.ErrorIs(t, m.Move(nil), ErrNodeNotFound)
	assert.ErrorIs(t, m.Move(NewAnimationState("stranger")), ErrNodeNotFound)
	assert.ErrorIs(t, m.MoveTo("missing"), ErrNodeNotFound)

	require.NoError(t, m.Move(a))
	assert.InDelta(t, 0.2, m.ElapsedTime(), 1e-12, "moving to the current node is a no-op")
}

func TestMotionLenientMove(t *testing.T) {
	g, _, _, b := crossFadeGraph(t)

	m, err := NewMotion(g, WithInitialState("a"), WithStrictMoves(false))
	require.NoError(t, err)
	m.Advance(0.2)

	require.NoError(t, m.Move(b))
	assert.Same(t, b, m.CurrentNode())
	assert.Zero(t, m.ElapsedTime())
}

func TestMotionPauseKeepsElapsed(t *testing.T) {
	g, _, _, _ := crossFadeGraph(t)

	m, err := NewMotion(g, WithInitialState("a"), WithPlaying(false))
	require.NoError(t, err)
	assert.False(t, m.IsPlaying())

	m.Advance(1)
	assert.Zero(t, m.ElapsedTime())

	m.Play()
	m.Advance(0.5)
	m.Pause()
	m.Advance(3)
	assert.False(t, m.IsPlaying())
	assert.InDelta(t, 0.5, m.ElapsedTime(), 1e-12)

	m.Pause()
	assert.False(t, m.IsPlaying(), "pausing twice stays paused")
	m.Play()
	m.Play()
	assert.True(t, m.IsPlaying())
}

func TestMotionWithoutNode(t *testing.T) {
	src := slideAssets(t)
	m, err := NewMotion(NewAnimationGraph())
	require.NoError(t, err)

	assert.Nil(t, m.CurrentNode())
	done, err := m.IsDone(src)
	require.NoError(t, err)
	assert.True(t, done)
	assert.NoError(t, m.AutoMove())
	assert.False(t, m.CanMove())
	assert.NoError(t, m.ComputeFrame(src, animation.NewBlendPose()))

	_, err = NewMotion(NewAnimationGraph(), WithInitialState("nowhere"))
	assert.ErrorIs(t, err, ErrNodeNotFound)
	assert.Panics(t, func() { _, _ = NewMotion(nil) })
}

func TestAutoMoveFollowsFirstConnection(t *testing.T) {
	g := NewAnimationGraph()
	a, b, c := NewAnimationState("a"), NewAnimationState("b"), NewAnimationState("c")
	mustAdd(t, g, a, b, c)
	mustConnect(t, g, c, a)
	mustConnect(t, g, a, c)
	mustConnect(t, g, a, b)

	m, err := NewMotion(g, WithInitialState("a"))
	require.NoError(t, err)
	require.True(t, m.CanMove())
	require.NoError(t, m.AutoMove())
	assert.Same(t, c, m.CurrentNode(), "incoming connections are skipped")
}

func TestMotionSnapshotRestore(t *testing.T) {
	g, _, ab, _ := crossFadeGraph(t)

	m, err := NewMotion(g, WithName("hero"), WithInitialState("a"))
	require.NoError(t, err)
	require.NoError(t, m.Move(ab))
	m.Advance(0.3)
	m.Pause()

	snap := m.Snapshot()
	assert.Equal(t, MotionSnapshot{StateName: "a_to_b", Name: "hero", Elapsed: 0.3, Playing: false}, snap)

	other, err := NewMotion(g)
	require.NoError(t, err)
	require.NoError(t, other.Restore(snap))
	assert.Same(t, ab, other.CurrentNode())
	assert.Equal(t, "hero", other.Name())
	assert.InDelta(t, 0.3, other.ElapsedTime(), 1e-12)
	assert.InDelta(t, 0.3, other.TransitionElapsed(), 1e-12)
	assert.False(t, other.IsPlaying())

	err = other.Restore(MotionSnapshot{StateName: "gone", Name: "hero"})
	assert.ErrorIs(t, err, ErrMalformed)
	assert.Same(t, ab, other.CurrentNode(), "a failed restore changes nothing")
}
