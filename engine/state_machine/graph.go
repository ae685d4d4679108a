package state_machine

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// animationGraph is the implementation of the AnimationGraph interface.
type animationGraph struct {
	mu sync.RWMutex

	name  string
	nodes []Node
	byID  map[uuid.UUID]Node

	connections connectionArena
	order       []ConnectionHandle
}

// AnimationGraph owns a set of states and transitions and the connections between them.
//
// Structural edits take the graph's write lock; lookups take the read lock, so a graph can be
// shared by every Motion that walks it. Lookups that miss return nil rather than an error.
type AnimationGraph interface {
	// Name returns the graph's name.
	//
	// Returns:
	//   - string: the graph name
	Name() string

	// AddNode adds a state or transition to the graph.
	// A transition's Start and End states must already be in the graph.
	//
	// Parameters:
	//   - n: the node to add
	//
	// Returns:
	//   - error: ErrDuplicateNode if the name or identity is taken or the node belongs to another
	//     graph, ErrNodeNotFound for a transition whose endpoints are missing; the graph is
	//     unchanged on error
	AddNode(n Node) error

	// RemoveNode removes a node and every connection touching it.
	//
	// Parameters:
	//   - n: the node to remove
	//
	// Returns:
	//   - error: ErrNodeNotFound if the node is not in the graph
	RemoveNode(n Node) error

	// AddConnection connects start to end and records the handle on both nodes.
	//
	// Parameters:
	//   - start: the node the connection leaves
	//   - end: the node the connection enters
	//
	// Returns:
	//   - ConnectionHandle: the handle of the new connection
	//   - error: ErrNodeNotFound if either endpoint is not in the graph
	AddConnection(start, end Node) (ConnectionHandle, error)

	// RemoveConnection detaches a connection from both endpoints and frees its slot.
	//
	// Parameters:
	//   - h: the connection handle
	//
	// Returns:
	//   - error: ErrConnectionNotFound for unknown or stale handles
	RemoveConnection(h ConnectionHandle) error

	// NodeByName returns the first node with the given name, or nil.
	NodeByName(name string) Node

	// NodeByID returns the node with the given identity, or nil.
	NodeByID(id uuid.UUID) Node

	// ConnectionByID returns the connection with the given identity, or nil.
	ConnectionByID(id uuid.UUID) *StateConnection

	// ConnectionAt returns the connection for a handle, or nil if the handle is stale.
	ConnectionAt(h ConnectionHandle) *StateConnection

	// Connections returns every connection in insertion order.
	Connections() []*StateConnection

	// Outgoing returns the connections that start at n, in the order they were added.
	//
	// Parameters:
	//   - n: the start node
	//
	// Returns:
	//   - []*StateConnection: the outgoing connections, empty if n has none or is not in the graph
	Outgoing(n Node) []*StateConnection

	// ConnectsTo reports whether a connection leads from start to end.
	ConnectsTo(start, end Node) bool

	// Nodes returns every node in insertion order.
	Nodes() []Node

	// NodeCount returns the number of nodes.
	NodeCount() int

	// ConnectionCount returns the number of live connections.
	ConnectionCount() int

	// Validate checks every node for authoring errors.
	//
	// Returns:
	//   - error: the joined errors of every offending node, or nil
	Validate() error
}

var _ AnimationGraph = &animationGraph{}

// NewAnimationGraph creates an empty AnimationGraph and applies options.
//
// Parameters:
//   - options: a variadic list of AnimationGraphBuilderOption functions
//
// Returns:
//   - AnimationGraph: the new graph
func NewAnimationGraph(options ...AnimationGraphBuilderOption) AnimationGraph {
	g := &animationGraph{
		byID: make(map[uuid.UUID]Node),
	}
	for _, option := range options {
		option(g)
	}
	return g
}

func (g *animationGraph) Name() string {
	return g.name
}

func (g *animationGraph) AddNode(n Node) error {
	if n == nil {
		return fmt.Errorf("%w: nil node", ErrNodeNotFound)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, dup := g.byID[n.ID()]; dup {
		return fmt.Errorf("%w: node %q has identity %s already in graph %q", ErrDuplicateNode, n.Name(), n.ID(), g.name)
	}
	if g.nodeByNameLocked(n.Name()) != nil {
		return fmt.Errorf("%w: node %q already in graph %q", ErrDuplicateNode, n.Name(), g.name)
	}

	switch node := n.(type) {
	case *AnimationState:
	case *AnimationTransition:
		if !g.containsLocked(node.Start) || !g.containsLocked(node.End) {
			return fmt.Errorf("%w: transition %q endpoints must be added to graph %q first", ErrNodeNotFound, node.Name(), g.name)
		}
	default:
		return fmt.Errorf("%w: %T", ErrUnknownNodeVariant, n)
	}

	if !n.base().owner.CompareAndSwap(nil, g) {
		return fmt.Errorf("%w: node %q already belongs to another graph", ErrDuplicateNode, n.Name())
	}

	g.nodes = append(g.nodes, n)
	g.byID[n.ID()] = n
	return nil
}

func (g *animationGraph) RemoveNode(n Node) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.containsLocked(n) {
		return fmt.Errorf("%w: cannot remove node from graph %q", ErrNodeNotFound, g.name)
	}

	for _, h := range n.Connections() {
		g.removeConnectionLocked(h)
	}

	g.nodes = slices.DeleteFunc(g.nodes, func(other Node) bool { return other == n })
	delete(g.byID, n.ID())
	n.base().owner.Store(nil)
	return nil
}

func (g *animationGraph) AddConnection(start, end Node) (ConnectionHandle, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.containsLocked(start) || !g.containsLocked(end) {
		return ConnectionHandle{}, fmt.Errorf("%w: connection endpoints must be in graph %q", ErrNodeNotFound, g.name)
	}

	conn := &StateConnection{ID: uuid.New(), Start: start, End: end}
	h := g.connections.insert(conn)
	conn.Handle = h

	start.base().attach(h)
	if end != start {
		end.base().attach(h)
	}
	g.order = append(g.order, h)
	return h, nil
}

func (g *animationGraph) RemoveConnection(h ConnectionHandle) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.removeConnectionLocked(h) {
		return fmt.Errorf("%w: handle %s in graph %q", ErrConnectionNotFound, h, g.name)
	}
	return nil
}

func (g *animationGraph) NodeByName(name string) Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.nodeByNameLocked(name)
}

func (g *animationGraph) NodeByID(id uuid.UUID) Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.byID[id]
}

func (g *animationGraph) ConnectionByID(id uuid.UUID) *StateConnection {
	g.mu.RLock()
	defer g.mu.RUnlock()

	for _, h := range g.order {
		if conn := g.connections.get(h); conn != nil && conn.ID == id {
			return conn
		}
	}
	return nil
}

func (g *animationGraph) ConnectionAt(h ConnectionHandle) *StateConnection {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.connections.get(h)
}

func (g *animationGraph) Connections() []*StateConnection {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]*StateConnection, 0, len(g.order))
	for _, h := range g.order {
		out = append(out, g.connections.get(h))
	}
	return out
}

func (g *animationGraph) Outgoing(n Node) []*StateConnection {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if !g.containsLocked(n) {
		return nil
	}

	var out []*StateConnection
	for _, h := range n.base().connections {
		if conn := g.connections.get(h); conn != nil && conn.Start == n {
			out = append(out, conn)
		}
	}
	return out
}

func (g *animationGraph) ConnectsTo(start, end Node) bool {
	for _, conn := range g.Outgoing(start) {
		if conn.End == end {
			return true
		}
	}
	return false
}

func (g *animationGraph) Nodes() []Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return slices.Clone(g.nodes)
}

func (g *animationGraph) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

func (g *animationGraph) ConnectionCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.connections.len()
}

func (g *animationGraph) Validate() error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var errs []error
	for _, n := range g.nodes {
		switch node := n.(type) {
		case *AnimationState:
			if err := node.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("state %q: %w", node.Name(), err))
			}
		case *AnimationTransition:
			if !g.containsLocked(node.Start) {
				errs = append(errs, fmt.Errorf("transition %q: %w: start state", node.Name(), ErrNodeNotFound))
			}
			if !g.containsLocked(node.End) {
				errs = append(errs, fmt.Errorf("transition %q: %w: end state", node.Name(), ErrNodeNotFound))
			}
		default:
			errs = append(errs, fmt.Errorf("node %q: %w: %T", n.Name(), ErrUnknownNodeVariant, n))
		}
	}

	for _, h := range g.order {
		conn := g.connections.get(h)
		if !g.containsLocked(conn.Start) || !g.containsLocked(conn.End) {
			errs = append(errs, fmt.Errorf("connection %s: %w", h, ErrNodeNotFound))
		}
	}

	return errors.Join(errs...)
}

func (g *animationGraph) nodeByNameLocked(name string) Node {
	for _, n := range g.nodes {
		if n.Name() == name {
			return n
		}
	}
	return nil
}

// containsLocked reports whether n itself, not just a node sharing its identity, is in the graph.
func (g *animationGraph) containsLocked(n Node) bool {
	if n == nil {
		return false
	}
	if s, ok := n.(*AnimationState); ok && s == nil {
		return false
	}
	if t, ok := n.(*AnimationTransition); ok && t == nil {
		return false
	}
	return g.byID[n.ID()] == n
}

func (g *animationGraph) removeConnectionLocked(h ConnectionHandle) bool {
	conn := g.connections.get(h)
	if conn == nil {
		return false
	}

	conn.Start.base().detach(h)
	conn.End.base().detach(h)
	g.connections.remove(h)
	g.order = slices.DeleteFunc(g.order, func(o ConnectionHandle) bool { return o == h })
	return true
}
