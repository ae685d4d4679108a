package state_machine

import (
	"fmt"
	"log/slog"

	"github.com/Carmen-Shannon/oxy-motion/engine/animation"
	"github.com/google/uuid"
)

// MotionSnapshot is the persisted state of a Motion.
type MotionSnapshot struct {
	// StateName is the name of the current node; empty when the Motion has none.
	StateName string `yaml:"stateName"`

	// Name is the Motion's name.
	Name string `yaml:"name,omitempty"`

	// Elapsed is the Motion's playback time in seconds.
	Elapsed float64 `yaml:"elapsed"`

	// Playing reports whether the Motion was playing.
	Playing bool `yaml:"playing"`
}

// Motion is a per-entity cursor over an AnimationGraph.
//
// A Motion tracks its current node, its own playback timer and the timer of the transition it
// is in, so a single graph can be walked by any number of Motions. A Motion is driven by one
// owner and is not safe for concurrent use.
type Motion struct {
	graph AnimationGraph
	name  string

	currentID       uuid.UUID
	timer           Stopwatch
	transitionTimer Stopwatch
	carry           float64

	playing       bool
	autoPlay      bool
	destroyOnDone bool
	strictMoves   bool
	initialState  string
}

// NewMotion creates a Motion over graph and applies options.
// The Motion starts playing; if an initial state is configured it becomes the current node.
// Panics if graph is nil.
//
// Parameters:
//   - graph: the graph to walk
//   - options: a variadic list of MotionBuilderOption functions
//
// Returns:
//   - *Motion: the new Motion
//   - error: an error wrapping ErrNodeNotFound if the initial state does not exist
func NewMotion(graph AnimationGraph, options ...MotionBuilderOption) (*Motion, error) {
	if graph == nil {
		panic("state_machine: NewMotion requires a graph")
	}

	m := &Motion{
		graph:       graph,
		playing:     true,
		strictMoves: true,
	}
	for _, option := range options {
		option(m)
	}

	if m.playing {
		m.Play()
	} else {
		m.Pause()
	}

	if m.initialState != "" {
		if err := m.MoveTo(m.initialState); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Name returns the Motion's name.
func (m *Motion) Name() string {
	return m.name
}

// Graph returns the graph the Motion walks.
func (m *Motion) Graph() AnimationGraph {
	return m.graph
}

// AutoPlay reports whether the Motion follows the first outgoing connection when its node is done.
func (m *Motion) AutoPlay() bool {
	return m.autoPlay
}

// DestroyOnDone reports whether the Motion should be removed once it is done and cannot move on.
func (m *Motion) DestroyOnDone() bool {
	return m.destroyOnDone
}

// CurrentNode returns the node the Motion is on, or nil.
func (m *Motion) CurrentNode() Node {
	if m.currentID == uuid.Nil {
		return nil
	}
	return m.graph.NodeByID(m.currentID)
}

// Play starts the Motion's timers.
func (m *Motion) Play() {
	m.playing = true
	m.timer.Start()
	m.transitionTimer.Start()
}

// Pause stops the Motion's timers, keeping their elapsed time.
func (m *Motion) Pause() {
	m.playing = false
	m.timer.Stop()
	m.transitionTimer.Stop()
}

// IsPlaying reports whether the Motion's timers are running.
func (m *Motion) IsPlaying() bool {
	return m.playing
}

// Advance moves the Motion's running timers forward.
//
// Parameters:
//   - dt: the tick delta in seconds
func (m *Motion) Advance(dt float64) {
	m.timer.Advance(dt)
	m.transitionTimer.Advance(dt)
}

// ElapsedTime returns the seconds since the Motion's timer was last restarted.
func (m *Motion) ElapsedTime() float64 {
	return m.timer.Elapsed()
}

// TransitionElapsed returns the seconds since the Motion last entered a transition.
func (m *Motion) TransitionElapsed() float64 {
	return m.transitionTimer.Elapsed()
}

// IsDone reports whether the current node has finished.
// A Motion with no current node is done.
//
// Parameters:
//   - src: the source used to resolve clip assets
//
// Returns:
//   - bool: true if the current node is done
//   - error: ErrUnknownNodeVariant if the current node is not a state or transition
func (m *Motion) IsDone(src animation.AssetSource) (bool, error) {
	switch node := m.CurrentNode().(type) {
	case nil:
		return true, nil
	case *AnimationState:
		return node.IsDone(m.timer.Elapsed(), src), nil
	case *AnimationTransition:
		return node.IsDone(m.transitionTimer.Elapsed()), nil
	default:
		return false, fmt.Errorf("%w: %T", ErrUnknownNodeVariant, node)
	}
}

// Move makes target the current node.
//
// Moving to the current node does nothing. Otherwise the Motion's playback time is carried
// for transitions, the timer restarts, the current node's OnExit runs, and target's OnEntry
// runs once it is current. With strict moves enabled, a target that is not connected from the
// current node is rejected before anything changes.
//
// Parameters:
//   - target: a node of the Motion's graph
//
// Returns:
//   - error: ErrNodeNotFound for a nil or foreign target, ErrNoConnection for a strict move
//     without a connection
func (m *Motion) Move(target Node) error {
	if target == nil || m.graph.NodeByID(target.ID()) != target {
		return fmt.Errorf("%w: motion %q move target", ErrNodeNotFound, m.name)
	}

	current := m.CurrentNode()
	if current == target {
		return nil
	}

	if current != nil && !m.graph.ConnectsTo(current, target) {
		if m.strictMoves {
			return fmt.Errorf("%w: %q does not connect to %q", ErrNoConnection, current.Name(), target.Name())
		}
		slog.Warn("motion moved without a connection", "motion", m.name, "from", current.Name(), "to", target.Name())
	}

	m.carry = m.timer.Elapsed()
	m.timer.Restart()
	if current != nil {
		current.OnExit(m)
	}
	m.currentID = target.ID()
	target.OnEntry(m)

	slog.Debug("motion moved", "motion", m.name, "to", target.Name())
	return nil
}

// MoveTo moves to the node with the given name.
//
// Parameters:
//   - name: the target node name
//
// Returns:
//   - error: ErrNodeNotFound if no node has that name, or any error from Move
func (m *Motion) MoveTo(name string) error {
	target := m.graph.NodeByName(name)
	if target == nil {
		return fmt.Errorf("%w: %q", ErrNodeNotFound, name)
	}
	return m.Move(target)
}

// CanMove reports whether the current node has an outgoing connection.
func (m *Motion) CanMove() bool {
	current := m.CurrentNode()
	return current != nil && len(m.graph.Outgoing(current)) > 0
}

// AutoMove follows the first outgoing connection of the current node.
// It does nothing when there is no current node or no outgoing connection.
//
// Returns:
//   - error: any error from Move
func (m *Motion) AutoMove() error {
	current := m.CurrentNode()
	if current == nil {
		return nil
	}
	outgoing := m.graph.Outgoing(current)
	if len(outgoing) == 0 {
		return nil
	}
	return m.Move(outgoing[0].End)
}

// ComputeFrame samples the current node into dst.
//
// Parameters:
//   - src: the source used to resolve clip assets
//   - dst: the accumulator receiving the contributions
//
// Returns:
//   - error: ErrUnknownNodeVariant if the current node is not a state or transition
func (m *Motion) ComputeFrame(src animation.AssetSource, dst *animation.BlendPose) error {
	switch node := m.CurrentNode().(type) {
	case nil:
		return nil
	case *AnimationState:
		node.ComputeFrame(m.timer.Elapsed(), src, dst, 1, animation.Fade{})
		return nil
	case *AnimationTransition:
		node.ComputeFrame(m.carry, m.transitionTimer.Elapsed(), src, dst)
		return nil
	default:
		return fmt.Errorf("%w: %T", ErrUnknownNodeVariant, node)
	}
}

// Snapshot captures the Motion's current node, timer and play state.
func (m *Motion) Snapshot() MotionSnapshot {
	s := MotionSnapshot{
		Name:    m.name,
		Elapsed: m.timer.Elapsed(),
		Playing: m.playing,
	}
	if current := m.CurrentNode(); current != nil {
		s.StateName = current.Name()
	}
	return s
}

// Restore resolves a snapshot against the Motion's graph and adopts its state.
// An empty state name leaves the Motion without a current node.
//
// Parameters:
//   - s: the snapshot to restore
//
// Returns:
//   - error: an error wrapping ErrMalformed if the state name is not in the graph
func (m *Motion) Restore(s MotionSnapshot) error {
	var id uuid.UUID
	if s.StateName != "" {
		node := m.graph.NodeByName(s.StateName)
		if node == nil {
			return fmt.Errorf("%w: motion %q references unknown state %q", ErrMalformed, s.Name, s.StateName)
		}
		id = node.ID()
	}

	if s.Name != "" {
		m.name = s.Name
	}
	m.currentID = id
	m.carry = 0
	m.timer = Stopwatch{elapsed: s.Elapsed}
	m.transitionTimer = Stopwatch{elapsed: s.Elapsed}
	if s.Playing {
		m.Play()
	} else {
		m.Pause()
	}
	return nil
}
