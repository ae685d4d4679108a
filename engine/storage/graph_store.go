package storage

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-motion/engine/state_machine"
	"github.com/natefinch/atomic"
)

// GraphStore persists an animation graph as a YAML document on disk.
type GraphStore interface {
	// Path returns the file the graph is stored in.
	Path() string

	// Save encodes the graph and replaces the file atomically.
	// A crash mid-write leaves the previous file intact.
	//
	// Parameters:
	//   - g: the graph to store
	//
	// Returns:
	//   - error: error if encoding or writing fails
	Save(g state_machine.AnimationGraph) error

	// Load reads and decodes the stored graph.
	//
	// Returns:
	//   - state_machine.AnimationGraph: the decoded graph
	//   - error: error if the file cannot be read, or a state_machine decode error
	Load() (state_machine.AnimationGraph, error)
}

type graphStore struct {
	path string
}

var _ GraphStore = &graphStore{}

// NewGraphStore creates a GraphStore backed by the file at path.
//
// Parameters:
//   - path: the graph file path; parent directories are created on Save
//
// Returns:
//   - GraphStore: the new store
func NewGraphStore(path string) GraphStore {
	return &graphStore{path: path}
}

func (s *graphStore) Path() string {
	return s.path
}

func (s *graphStore) Save(g state_machine.AnimationGraph) error {
	data, err := state_machine.MarshalGraph(g)
	if err != nil {
		return fmt.Errorf("failed to encode graph: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create graph directory: %w", err)
	}
	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write graph %q: %w", s.path, err)
	}
	return nil
}

func (s *graphStore) Load() (state_machine.AnimationGraph, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph %q: %w", s.path, err)
	}

	g, err := state_machine.UnmarshalGraph(data)
	if err != nil {
		return nil, fmt.Errorf("graph %q: %w", s.path, err)
	}
	return g, nil
}
