package state_machine

import (
	"slices"
	"sync/atomic"

	"github.com/google/uuid"
)

// Node is a vertex of an AnimationGraph.
// The only implementations are *AnimationState and *AnimationTransition; code that dispatches
// on a Node switches over those two and treats anything else as ErrUnknownNodeVariant.
type Node interface {
	// Name returns the node's name, used for lookups and persistence.
	//
	// Returns:
	//   - string: the node name
	Name() string

	// ID returns the node's identity.
	//
	// Returns:
	//   - uuid.UUID: the node identity
	ID() uuid.UUID

	// Connections returns the handles of every connection touching this node, in insertion order.
	//
	// Returns:
	//   - []ConnectionHandle: a copy of the node's connection handles
	Connections() []ConnectionHandle

	// OnEntry is invoked by a Motion after the node becomes its current node.
	//
	// Parameters:
	//   - m: the Motion entering the node
	OnEntry(m *Motion)

	// OnExit is invoked by a Motion before it leaves the node.
	//
	// Parameters:
	//   - m: the Motion leaving the node
	OnExit(m *Motion)

	base() *nodeBase
}

// nodeBase holds the fields shared by every node variant.
type nodeBase struct {
	name        string
	id          uuid.UUID
	connections []ConnectionHandle

	// owner is the graph the node belongs to. Connection handles index that graph's arena,
	// so a node joins at most one graph at a time.
	owner *atomic.Pointer[animationGraph]
}

func newNodeBase(name string) nodeBase {
	return nodeBase{name: name, id: uuid.New(), owner: new(atomic.Pointer[animationGraph])}
}

func (n *nodeBase) Name() string {
	return n.name
}

func (n *nodeBase) ID() uuid.UUID {
	return n.id
}

func (n *nodeBase) Connections() []ConnectionHandle {
	return slices.Clone(n.connections)
}

func (n *nodeBase) base() *nodeBase {
	return n
}

func (n *nodeBase) attach(h ConnectionHandle) {
	n.connections = append(n.connections, h)
}

func (n *nodeBase) detach(h ConnectionHandle) {
	n.connections = slices.DeleteFunc(n.connections, func(c ConnectionHandle) bool { return c == h })
}
