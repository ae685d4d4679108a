package state_machine

import "errors"

var (
	// ErrDuplicateNode is returned when a node with the same name or identity is already in the graph.
	ErrDuplicateNode = errors.New("duplicate node")

	// ErrNodeNotFound is returned when a node is not part of the graph.
	ErrNodeNotFound = errors.New("node not found")

	// ErrConnectionNotFound is returned for unknown or stale connection handles.
	ErrConnectionNotFound = errors.New("connection not found")

	// ErrNoConnection is returned by a strict move between two nodes that are not connected.
	ErrNoConnection = errors.New("no connection between nodes")

	// ErrUnknownNodeVariant is returned when a node is neither an AnimationState nor an AnimationTransition.
	ErrUnknownNodeVariant = errors.New("unknown node variant")

	// ErrMalformed is returned when a persisted graph or motion snapshot is missing required data.
	ErrMalformed = errors.New("malformed state machine data")
)
