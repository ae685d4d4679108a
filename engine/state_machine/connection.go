package state_machine

import (
	"fmt"

	"github.com/google/uuid"
)

// ConnectionHandle refers to a connection slot in an AnimationGraph.
// A handle goes stale when its connection is removed; stale handles never resolve, even after
// the slot is reused by a newer connection. The zero handle is never valid.
type ConnectionHandle struct {
	Index      uint32
	Generation uint32
}

func (h ConnectionHandle) String() string {
	return fmt.Sprintf("%d@%d", h.Index, h.Generation)
}

// StateConnection is a directed edge between two nodes of a graph.
type StateConnection struct {
	// ID is the connection's identity.
	ID uuid.UUID

	// Handle is the connection's slot in its graph.
	Handle ConnectionHandle

	// Start is the node the connection leaves.
	Start Node

	// End is the node the connection enters.
	End Node
}

// Touches reports whether n is either endpoint of the connection.
func (c *StateConnection) Touches(n Node) bool {
	return c.Start == n || c.End == n
}

type connectionSlot struct {
	generation uint32
	conn       *StateConnection
}

// connectionArena stores connections in reusable slots with generation checks.
type connectionArena struct {
	slots []connectionSlot
	free  []uint32
	count int
}

func (a *connectionArena) insert(conn *StateConnection) ConnectionHandle {
	var index uint32
	if n := len(a.free); n > 0 {
		index = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		index = uint32(len(a.slots))
		a.slots = append(a.slots, connectionSlot{generation: 1})
	}

	slot := &a.slots[index]
	slot.conn = conn
	a.count++
	return ConnectionHandle{Index: index, Generation: slot.generation}
}

func (a *connectionArena) get(h ConnectionHandle) *StateConnection {
	if int(h.Index) >= len(a.slots) {
		return nil
	}
	slot := a.slots[h.Index]
	if slot.generation != h.Generation {
		return nil
	}
	return slot.conn
}

func (a *connectionArena) remove(h ConnectionHandle) bool {
	if a.get(h) == nil {
		return false
	}
	slot := &a.slots[h.Index]
	slot.conn = nil
	slot.generation++
	a.free = append(a.free, h.Index)
	a.count--
	return true
}

func (a *connectionArena) len() int {
	return a.count
}
