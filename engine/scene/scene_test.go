package scene

import (
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-motion/engine/animation"
	"github.com/Carmen-Shannon/oxy-motion/engine/animator"
	"github.com/Carmen-Shannon/oxy-motion/engine/game_object"
	"github.com/Carmen-Shannon/oxy-motion/engine/model"
	"github.com/Carmen-Shannon/oxy-motion/engine/state_machine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	skeleton *model.Skeleton
	graph    state_machine.AnimationGraph
	src      animation.StaticAssets
}

// newFixture builds a one-joint skeleton, a "loop" state sliding "hip" along x at 10 units per
// second, and a "once" single shot of the same slide.
func newFixture(t *testing.T) fixture {
	t.Helper()
	track, err := model.NewKeyframeTrack("hip", []model.VectorKeyframe{
		{Time: 0, Value: [3]float32{0, 0, 0}},
		{Time: 10, Value: [3]float32{10, 0, 0}},
	}, nil, nil)
	require.NoError(t, err)
	asset, err := animation.NewAnimationAsset("slide", 10, 10, track)
	require.NoError(t, err)

	skel, err := model.NewSkeleton([]model.Joint{
		{Name: "hip", Parent: -1, HasBone: true, BindLocal: model.IdentityTransform()},
	})
	require.NoError(t, err)

	g := state_machine.NewAnimationGraph()
	require.NoError(t, g.AddNode(state_machine.NewAnimationState("loop",
		state_machine.WithClips(animation.NewClipInstance("slide", "slide")))))
	require.NoError(t, g.AddNode(state_machine.NewAnimationState("once",
		state_machine.WithClips(animation.NewClipInstance("slide", "slide", animation.WithPlaybackMode(animation.SingleShot))))))

	return fixture{skeleton: skel, graph: g, src: animation.StaticAssets{"slide": asset}}
}

func (f fixture) object(t *testing.T, name string, motions ...state_machine.MotionBuilderOption) game_object.GameObject {
	t.Helper()
	anim, err := animator.NewAnimator(f.skeleton, f.graph, f.src, animator.WithMotion(motions...))
	require.NoError(t, err)
	return game_object.NewGameObject(game_object.WithName(name), game_object.WithAnimator(anim))
}

func hipX(obj game_object.GameObject) float32 {
	return obj.Animator().Pose().WorldTransforms(nil)[0][12]
}

func TestSceneRegistry(t *testing.T) {
	f := newFixture(t)
	s := NewScene("main", WithComputeWorkers(2))
	defer s.Close()

	a := f.object(t, "a", state_machine.WithInitialState("loop"))
	b := f.object(t, "b", state_machine.WithInitialState("loop"))
	assert.Equal(t, uint64(1), s.Add(a))
	assert.Equal(t, uint64(2), s.Add(b))
	assert.Equal(t, 2, s.Count())
	assert.Same(t, b, s.Get(2))
	assert.Equal(t, []game_object.GameObject{a, b}, s.Objects())

	assert.True(t, s.Remove(1))
	assert.False(t, s.Remove(1))
	assert.Nil(t, s.Get(1))

	s.Clear()
	assert.Zero(t, s.Count())

	assert.Panics(t, func() { s.Add(game_object.NewGameObject()) })
}

func TestSceneUpdateTicksEnabledObjects(t *testing.T) {
	f := newFixture(t)
	s := NewScene("main", WithActive(true))
	defer s.Close()
	assert.True(t, s.Active())

	on := f.object(t, "on", state_machine.WithInitialState("loop"))
	off := f.object(t, "off", state_machine.WithInitialState("loop"))
	off.SetEnabled(false)
	s.Add(on)
	s.Add(off)

	require.NoError(t, s.Update(400))
	assert.InDelta(t, 4, hipX(on), 1e-5)
	assert.Zero(t, hipX(off))
}

func TestSceneUpdateRemovesFinishedObjects(t *testing.T) {
	f := newFixture(t)
	s := NewScene("main", WithObjects(
		f.object(t, "shot", state_machine.WithInitialState("once"), state_machine.WithDestroyOnDone(true)),
		f.object(t, "idle", state_machine.WithInitialState("loop")),
	))
	defer s.Close()
	require.Equal(t, 2, s.Count())

	require.NoError(t, s.Update(500))
	assert.Equal(t, 2, s.Count())

	require.NoError(t, s.Update(500))
	require.Equal(t, 1, s.Count())
	assert.Equal(t, "idle", s.Objects()[0].Name())
}

func TestSceneUpdateJoinsErrors(t *testing.T) {
	f := newFixture(t)
	s := NewScene("main")
	defer s.Close()

	bad := f.object(t, "bad", state_machine.WithInitialState("loop"))
	good := f.object(t, "good", state_machine.WithInitialState("loop"))
	s.Add(bad)
	s.Add(good)

	anim := bad.Animator()
	require.True(t, anim.QueueMove(anim.Motions()[0], "once"))

	err := s.Update(100)
	require.ErrorIs(t, err, state_machine.ErrNoConnection)
	assert.ErrorContains(t, err, `"bad"`)
	assert.InDelta(t, 1, hipX(good), 1e-5, "other objects still tick")
}

func TestSceneUpdateWhileRenaming(t *testing.T) {
	f := newFixture(t)
	s := NewScene("main")
	defer s.Close()

	bad := f.object(t, "bad", state_machine.WithInitialState("loop"))
	s.Add(bad)
	anim := bad.Animator()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for range 100 {
			s.SetName("renamed")
			s.SetName("main")
		}
	}()

	for range 20 {
		require.True(t, anim.QueueMove(anim.Motions()[0], "once"))
		assert.ErrorIs(t, s.Update(10), state_machine.ErrNoConnection)
	}
	wg.Wait()
}
