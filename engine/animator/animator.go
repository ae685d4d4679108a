package animator

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-motion/engine/animation"
	"github.com/Carmen-Shannon/oxy-motion/engine/model"
	"github.com/Carmen-Shannon/oxy-motion/engine/pose"
	"github.com/Carmen-Shannon/oxy-motion/engine/state_machine"
)

// BoneBuffer receives the serialized skinning matrices after every tick.
type BoneBuffer interface {
	// Upload copies the bone buffer bytes to their destination.
	//
	// Parameters:
	//   - data: BoneCount * 64 bytes of little-endian float32 matrices
	//
	// Returns:
	//   - error: error if the upload fails
	Upload(data []byte) error
}

type motionActionType int

const (
	actionMove motionActionType = iota
	actionAutoMove
	actionDestroy
)

// motionAction is a deferred change to a Motion, applied at the start of the next tick.
type motionAction struct {
	kind   motionActionType
	motion *state_machine.Motion
	target state_machine.Node
}

// animator is the implementation of the Animator interface.
type animator struct {
	mu sync.Mutex

	skeleton *model.Skeleton
	graph    state_machine.AnimationGraph
	src      animation.AssetSource
	pool     worker.DynamicWorkerPool
	bones    BoneBuffer

	motionOptions [][]state_machine.MotionBuilderOption
	motions       []*state_machine.Motion
	destroyed     int

	actionMu sync.Mutex
	actions  []motionAction

	blend *animation.BlendPose
	pose  pose.SkeletonPose
}

// Animator drives the skeleton pose of one entity from the Motions walking its graph.
//
// Each Tick advances every Motion's clock, applies queued actions, moves or retires Motions
// whose current node is done, gathers every Motion's contributions into one BlendPose,
// resolves it, and writes the result into the entity's SkeletonPose. If no clip contributes
// (nothing current, or every asset still loading) the previous pose is held.
type Animator interface {
	// Skeleton returns the joint hierarchy being animated.
	//
	// Returns:
	//   - *model.Skeleton: the skeleton
	Skeleton() *model.Skeleton

	// Graph returns the animation graph the Motions walk.
	//
	// Returns:
	//   - state_machine.AnimationGraph: the graph
	Graph() state_machine.AnimationGraph

	// Pose returns the pose written by Tick.
	//
	// Returns:
	//   - pose.SkeletonPose: the skeleton pose
	Pose() pose.SkeletonPose

	// Motions returns the live Motions in creation order.
	//
	// Returns:
	//   - []*state_machine.Motion: a copy of the Motion list
	Motions() []*state_machine.Motion

	// Motion returns the first live Motion with the given name, or nil.
	//
	// Parameters:
	//   - name: the Motion name
	//
	// Returns:
	//   - *state_machine.Motion: the Motion or nil
	Motion(name string) *state_machine.Motion

	// AddMotion creates a Motion over the animator's graph.
	//
	// Parameters:
	//   - options: the Motion's builder options
	//
	// Returns:
	//   - *state_machine.Motion: the new Motion
	//   - error: error if the Motion's initial state does not exist
	AddMotion(options ...state_machine.MotionBuilderOption) (*state_machine.Motion, error)

	// QueueMove schedules a move of m to the named node on the next tick.
	//
	// Parameters:
	//   - m: the Motion to move
	//   - stateName: the target node name
	//
	// Returns:
	//   - bool: false if the graph has no node with that name
	QueueMove(m *state_machine.Motion, stateName string) bool

	// QueueAutoMove schedules m to follow its first outgoing connection on the next tick.
	//
	// Parameters:
	//   - m: the Motion to move
	QueueAutoMove(m *state_machine.Motion)

	// QueueDestroy schedules the removal of m on the next tick.
	//
	// Parameters:
	//   - m: the Motion to remove
	QueueDestroy(m *state_machine.Motion)

	// Tick runs one animation update.
	//
	// Parameters:
	//   - deltaMs: the elapsed time since the previous tick in milliseconds
	//
	// Returns:
	//   - error: a configuration error from a move or node dispatch, or a bone upload error
	Tick(deltaMs float64) error

	// Finished reports whether every Motion of the animator has been destroyed.
	//
	// Returns:
	//   - bool: true once at least one Motion was destroyed and none remain
	Finished() bool
}

var _ Animator = &animator{}

// NewAnimator creates an Animator for one entity and creates the Motions configured by WithMotion.
// Panics if skeleton or graph is nil.
//
// Parameters:
//   - skeleton: the joint hierarchy to pose
//   - graph: the graph walked by the animator's Motions
//   - src: the source clips resolve their assets from
//   - options: a variadic list of AnimatorBuilderOption functions
//
// Returns:
//   - Animator: the new Animator
//   - error: error if a configured Motion cannot be created
func NewAnimator(skeleton *model.Skeleton, graph state_machine.AnimationGraph, src animation.AssetSource, options ...AnimatorBuilderOption) (Animator, error) {
	if skeleton == nil {
		panic("animator: NewAnimator requires a skeleton")
	}
	if graph == nil {
		panic("animator: NewAnimator requires a graph")
	}

	a := &animator{
		skeleton: skeleton,
		graph:    graph,
		src:      src,
		blend:    animation.NewBlendPose(),
		pose:     pose.NewSkeletonPose(skeleton),
	}
	for _, option := range options {
		option(a)
	}

	for _, opts := range a.motionOptions {
		if _, err := a.AddMotion(opts...); err != nil {
			return nil, err
		}
	}
	a.motionOptions = nil
	return a, nil
}

func (a *animator) Skeleton() *model.Skeleton {
	return a.skeleton
}

func (a *animator) Graph() state_machine.AnimationGraph {
	return a.graph
}

func (a *animator) Pose() pose.SkeletonPose {
	return a.pose
}

func (a *animator) Motions() []*state_machine.Motion {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.motions)
}

func (a *animator) Motion(name string) *state_machine.Motion {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, m := range a.motions {
		if m.Name() == name {
			return m
		}
	}
	return nil
}

func (a *animator) AddMotion(options ...state_machine.MotionBuilderOption) (*state_machine.Motion, error) {
	m, err := state_machine.NewMotion(a.graph, options...)
	if err != nil {
		return nil, fmt.Errorf("animator: failed to create motion: %w", err)
	}

	a.mu.Lock()
	a.motions = append(a.motions, m)
	a.mu.Unlock()
	return m, nil
}

func (a *animator) QueueMove(m *state_machine.Motion, stateName string) bool {
	target := a.graph.NodeByName(stateName)
	if target == nil {
		return false
	}
	a.enqueue(motionAction{kind: actionMove, motion: m, target: target})
	return true
}

func (a *animator) QueueAutoMove(m *state_machine.Motion) {
	a.enqueue(motionAction{kind: actionAutoMove, motion: m})
}

func (a *animator) QueueDestroy(m *state_machine.Motion) {
	a.enqueue(motionAction{kind: actionDestroy, motion: m})
}

func (a *animator) Tick(deltaMs float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	dt := deltaMs / 1000
	for _, m := range a.motions {
		m.Advance(dt)
	}

	if err := a.drainActions(); err != nil {
		return fmt.Errorf("animator: %w", err)
	}
	if err := a.updateMotions(); err != nil {
		return fmt.Errorf("animator: %w", err)
	}

	a.blend.Clear()
	for _, m := range a.motions {
		if err := m.ComputeFrame(a.src, a.blend); err != nil {
			return fmt.Errorf("animator: motion %q: %w", m.Name(), err)
		}
	}

	resolved := a.blend.Resolve(a.pool)
	if a.blend.Len() > 0 {
		a.pose.Apply(resolved)
	}

	if a.bones != nil {
		if err := a.bones.Upload(a.pose.Marshal()); err != nil {
			return fmt.Errorf("animator: bone upload failed: %w", err)
		}
	}
	return nil
}

func (a *animator) Finished() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.destroyed > 0 && len(a.motions) == 0
}

func (a *animator) enqueue(action motionAction) {
	a.actionMu.Lock()
	a.actions = append(a.actions, action)
	a.actionMu.Unlock()
}

func (a *animator) drainActions() error {
	a.actionMu.Lock()
	actions := a.actions
	a.actions = nil
	a.actionMu.Unlock()

	for _, action := range actions {
		if !slices.Contains(a.motions, action.motion) {
			continue
		}
		switch action.kind {
		case actionMove:
			if err := action.motion.Move(action.target); err != nil {
				return fmt.Errorf("motion %q: %w", action.motion.Name(), err)
			}
		case actionAutoMove:
			if err := action.motion.AutoMove(); err != nil {
				return fmt.Errorf("motion %q: %w", action.motion.Name(), err)
			}
		case actionDestroy:
			a.removeMotion(action.motion)
		}
	}
	return nil
}

// updateMotions moves on every Motion whose node is done, and removes finished Motions that
// asked to be destroyed.
func (a *animator) updateMotions() error {
	kept := make([]*state_machine.Motion, 0, len(a.motions))
	for i, m := range a.motions {
		done, err := m.IsDone(a.src)
		if err != nil {
			a.motions = append(kept, a.motions[i:]...)
			return fmt.Errorf("motion %q: %w", m.Name(), err)
		}

		if done {
			_, inTransition := m.CurrentNode().(*state_machine.AnimationTransition)
			switch {
			case (m.AutoPlay() || inTransition) && m.CanMove():
				if err := m.AutoMove(); err != nil {
					a.motions = append(kept, a.motions[i:]...)
					return fmt.Errorf("motion %q: %w", m.Name(), err)
				}
			case m.DestroyOnDone():
				slog.Debug("motion finished", "motion", m.Name())
				a.destroyed++
				continue
			}
		}
		kept = append(kept, m)
	}
	a.motions = kept
	return nil
}

func (a *animator) removeMotion(m *state_machine.Motion) {
	before := len(a.motions)
	a.motions = slices.DeleteFunc(a.motions, func(other *state_machine.Motion) bool { return other == m })
	a.destroyed += before - len(a.motions)
}
