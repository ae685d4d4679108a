package animator

import (
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-motion/engine/animation"
	"github.com/Carmen-Shannon/oxy-motion/engine/model"
	"github.com/Carmen-Shannon/oxy-motion/engine/state_machine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// slideAssets holds one asset that moves "hip" from x=0 to x=10 over one second.
func slideAssets(t *testing.T) animation.StaticAssets {
	t.Helper()
	track, err := model.NewKeyframeTrack("hip", []model.VectorKeyframe{
		{Time: 0, Value: [3]float32{0, 0, 0}},
		{Time: 10, Value: [3]float32{10, 0, 0}},
	}, nil, nil)
	require.NoError(t, err)

	asset, err := animation.NewAnimationAsset("slide", 10, 10, track)
	require.NoError(t, err)
	return animation.StaticAssets{"slide": asset}
}

func hipSkeleton(t *testing.T) *model.Skeleton {
	t.Helper()
	skel, err := model.NewSkeleton([]model.Joint{
		{Name: "hip", Parent: -1, HasBone: true, BoneIndex: 0, BindLocal: model.IdentityTransform()},
	})
	require.NoError(t, err)
	return skel
}

func hipX(a Animator) float32 {
	return a.Pose().WorldTransforms(nil)[0][12]
}

// relayGraph builds once -> once_to_loop -> loop plus an unconnected "hold" state with a missing asset.
func relayGraph(t *testing.T) state_machine.AnimationGraph {
	t.Helper()
	g := state_machine.NewAnimationGraph(state_machine.WithGraphName("relay"))
	once := state_machine.NewAnimationState("once", state_machine.WithClips(
		animation.NewClipInstance("slide", "slide", animation.WithPlaybackMode(animation.SingleShot)),
	))
	loop := state_machine.NewAnimationState("loop", state_machine.WithClips(animation.NewClipInstance("slide", "slide")))
	hold := state_machine.NewAnimationState("hold", state_machine.WithClips(animation.NewClipInstance("pending", "missing")))
	for _, n := range []state_machine.Node{once, loop, hold} {
		require.NoError(t, g.AddNode(n))
	}

	fade := state_machine.NewAnimationTransition("once_to_loop", once, loop, state_machine.WithFade(0.4, 0.4))
	require.NoError(t, g.AddNode(fade))
	for _, pair := range [][2]state_machine.Node{{once, fade}, {fade, loop}, {loop, hold}} {
		_, err := g.AddConnection(pair[0], pair[1])
		require.NoError(t, err)
	}
	return g
}

type recordingSink struct {
	uploads [][]byte
	err     error
}

func (s *recordingSink) Upload(data []byte) error {
	s.uploads = append(s.uploads, data)
	return s.err
}

func TestTickPosesSkeleton(t *testing.T) {
	a, err := NewAnimator(hipSkeleton(t), relayGraph(t), slideAssets(t),
		WithMotion(state_machine.WithName("hero"), state_machine.WithInitialState("loop")))
	require.NoError(t, err)
	assert.Zero(t, hipX(a), "starts in bind pose")

	require.NoError(t, a.Tick(500))
	assert.InDelta(t, 5, hipX(a), 1e-5)

	require.NoError(t, a.Tick(250))
	assert.InDelta(t, 7.5, hipX(a), 1e-5)
	assert.NotNil(t, a.Motion("hero"))
	assert.Nil(t, a.Motion("nobody"))
}

func TestTickHoldsPoseWhenNothingContributes(t *testing.T) {
	a, err := NewAnimator(hipSkeleton(t), relayGraph(t), slideAssets(t),
		WithMotion(state_machine.WithName("hero"), state_machine.WithInitialState("loop")))
	require.NoError(t, err)
	require.NoError(t, a.Tick(500))
	require.InDelta(t, 5, hipX(a), 1e-5)

	m := a.Motion("hero")
	require.True(t, a.QueueMove(m, "hold"))
	require.NoError(t, a.Tick(100))
	assert.Equal(t, "hold", m.CurrentNode().Name())
	assert.InDelta(t, 5, hipX(a), 1e-5, "a loading asset keeps the previous pose")
}

func TestTickAutoPlaysThroughTransition(t *testing.T) {
	a, err := NewAnimator(hipSkeleton(t), relayGraph(t), slideAssets(t),
		WithMotion(state_machine.WithInitialState("once"), state_machine.WithAutoPlay(true)))
	require.NoError(t, err)
	m := a.Motions()[0]

	require.NoError(t, a.Tick(1000))
	require.Equal(t, "once_to_loop", m.CurrentNode().Name())
	assert.InDelta(t, 10, hipX(a), 1e-5, "fade-out side holds the finished single shot")

	require.NoError(t, a.Tick(400))
	require.Equal(t, "loop", m.CurrentNode().Name())
	assert.InDelta(t, 4, hipX(a), 1e-5, "loop continues from the transition's elapsed time")
}

func TestTransitionAdvancesWithoutAutoPlay(t *testing.T) {
	a, err := NewAnimator(hipSkeleton(t), relayGraph(t), slideAssets(t),
		WithMotion(state_machine.WithInitialState("once")))
	require.NoError(t, err)
	m := a.Motions()[0]

	require.NoError(t, a.Tick(1000))
	assert.Equal(t, "once", m.CurrentNode().Name(), "a done state waits without autoPlay")

	require.True(t, a.QueueMove(m, "once_to_loop"))
	require.NoError(t, a.Tick(100))
	require.NoError(t, a.Tick(400))
	assert.Equal(t, "loop", m.CurrentNode().Name(), "a done transition always moves on")
}

func TestDestroyOnDoneFinishesAnimator(t *testing.T) {
	g := state_machine.NewAnimationGraph()
	require.NoError(t, g.AddNode(state_machine.NewAnimationState("once", state_machine.WithClips(
		animation.NewClipInstance("slide", "slide", animation.WithPlaybackMode(animation.SingleShot)),
	))))

	a, err := NewAnimator(hipSkeleton(t), g, slideAssets(t),
		WithMotion(state_machine.WithInitialState("once"), state_machine.WithDestroyOnDone(true)))
	require.NoError(t, err)

	require.NoError(t, a.Tick(500))
	assert.False(t, a.Finished())
	require.NoError(t, a.Tick(500))
	assert.True(t, a.Finished())
	assert.Empty(t, a.Motions())
}

func TestQueueDestroy(t *testing.T) {
	a, err := NewAnimator(hipSkeleton(t), relayGraph(t), slideAssets(t),
		WithMotion(state_machine.WithName("one"), state_machine.WithInitialState("loop")),
		WithMotion(state_machine.WithName("two"), state_machine.WithInitialState("loop")))
	require.NoError(t, err)
	require.Len(t, a.Motions(), 2)

	a.QueueDestroy(a.Motion("one"))
	assert.Len(t, a.Motions(), 2, "queued actions wait for the next tick")

	require.NoError(t, a.Tick(16))
	require.Len(t, a.Motions(), 1)
	assert.Equal(t, "two", a.Motions()[0].Name())
	assert.False(t, a.Finished())

	a.QueueDestroy(a.Motion("two"))
	require.NoError(t, a.Tick(16))
	assert.True(t, a.Finished())
}

func TestQueueMoveErrors(t *testing.T) {
	a, err := NewAnimator(hipSkeleton(t), relayGraph(t), slideAssets(t),
		WithMotion(state_machine.WithInitialState("once")))
	require.NoError(t, err)
	m := a.Motions()[0]

	assert.False(t, a.QueueMove(m, "nowhere"))

	require.True(t, a.QueueMove(m, "hold"))
	err = a.Tick(16)
	assert.ErrorIs(t, err, state_machine.ErrNoConnection)
	assert.Equal(t, "once", m.CurrentNode().Name())
}

func TestQueueAutoMove(t *testing.T) {
	a, err := NewAnimator(hipSkeleton(t), relayGraph(t), slideAssets(t),
		WithMotion(state_machine.WithInitialState("loop")))
	require.NoError(t, err)
	m := a.Motions()[0]

	a.QueueAutoMove(m)
	require.NoError(t, a.Tick(16))
	assert.Equal(t, "hold", m.CurrentNode().Name())
}

func TestNewAnimatorRejectsUnknownInitialState(t *testing.T) {
	_, err := NewAnimator(hipSkeleton(t), relayGraph(t), slideAssets(t),
		WithMotion(state_machine.WithInitialState("nowhere")))
	assert.ErrorIs(t, err, state_machine.ErrNodeNotFound)

	assert.Panics(t, func() { _, _ = NewAnimator(nil, relayGraph(t), nil) })
	assert.Panics(t, func() { _, _ = NewAnimator(hipSkeleton(t), nil, nil) })
}

func TestTickUploadsBones(t *testing.T) {
	sink := &recordingSink{}
	a, err := NewAnimator(hipSkeleton(t), relayGraph(t), slideAssets(t),
		WithBoneBuffer(sink),
		WithMotion(state_machine.WithInitialState("loop")))
	require.NoError(t, err)

	require.NoError(t, a.Tick(100))
	require.NoError(t, a.Tick(100))
	require.Len(t, sink.uploads, 2)
	assert.Len(t, sink.uploads[1], 64)
	assert.Equal(t, a.Pose().Marshal(), sink.uploads[1])

	sink.err = errors.New("device lost")
	assert.ErrorContains(t, a.Tick(100), "device lost")
}

func TestTickWithPool(t *testing.T) {
	pool := worker.NewDynamicWorkerPool(max(runtime.NumCPU()-1, 1), 64, time.Second)
	defer pool.Stop()

	a, err := NewAnimator(hipSkeleton(t), relayGraph(t), slideAssets(t),
		WithPool(pool),
		WithMotion(state_machine.WithInitialState("loop")))
	require.NoError(t, err)

	require.NoError(t, a.Tick(300))
	assert.InDelta(t, 3, hipX(a), 1e-5)
}
